// Package effect defines the tagged union of YM-format special effects
// (SID voice, DigiDrum, Sync Buzzer) decoded per-frame by internal/ym and
// applied to a psg.Chip by internal/replayer. It has no dependency on psg
// or ym so either side can import it without a cycle.
package effect

// Kind tags which variant of Effect is populated.
type Kind int

const (
	None Kind = iota
	Sid
	SinusSid
	DigiDrum
	SyncBuzzer
)

// Effect is a tagged union describing one effect slot's decoded state for a
// single frame. Only the fields relevant to Kind are meaningful.
type Effect struct {
	Kind Kind

	// Voice is the 0-based PSG channel the effect targets. Unused by
	// SyncBuzzer, which is global.
	Voice int

	// Freq is the effect's timer-derived frequency in Hz. Unused by None.
	Freq float64

	// Volume is the SID/SinusSid gate's peak level, 0..15.
	Volume uint8

	// DrumIndex selects a digidrum sample from the file's digidrum table.
	DrumIndex int

	// EnvShape is the 4-bit envelope shape the Sync Buzzer retriggers with.
	EnvShape uint8
}

// IsNone reports whether e carries no effect.
func (e Effect) IsNone() bool {
	return e.Kind == None
}

// SameAs reports whether e and other describe the same effect instance for
// transition-tracking purposes: same kind, same voice, and (for SID/
// SyncBuzzer) the same frequency — used to tell "still playing" from
// "restarted this frame".
func (e Effect) SameAs(other Effect) bool {
	if e.Kind != other.Kind || e.Voice != other.Voice {
		return false
	}
	switch e.Kind {
	case Sid, SinusSid, SyncBuzzer:
		return e.Freq == other.Freq && e.Volume == other.Volume && e.EnvShape == other.EnvShape
	case DigiDrum:
		return e.DrumIndex == other.DrumIndex && e.Freq == other.Freq
	default:
		return true
	}
}
