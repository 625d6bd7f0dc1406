// Package debug extracts a human-readable snapshot of the PSG's current
// register state — the note each voice is sounding, its gates and volume,
// the noise/envelope periods — for frontends and diagnostics to display or
// log. Grounded on jeebie's own jeebie/debug package, which does the
// analogous register-state-to-readable-struct extraction for the Game Boy
// APU.
package debug

import (
	"fmt"
	"math"
)

// ChannelStatus is one voice's decoded state for a single frame.
type ChannelStatus struct {
	ToneEnabled  bool
	NoiseEnabled bool
	EnvelopeOn   bool
	ToneHz       float64
	Volume       uint8
	Note         string
	Level        float32
}

// Snapshot is the full chip's decoded state for a single frame.
type Snapshot struct {
	Channels    [3]ChannelStatus
	NoisePeriod uint8
	EnvPeriod   uint16
	EnvShape    int8
}

// RegisterSource is the minimal register shape a snapshot is extracted
// from; it mirrors replayer.RegisterFrame field-for-field without
// importing internal/replayer, so either package can depend on this one.
type RegisterSource struct {
	Tone      [3]uint16
	Noise     uint8
	Mixer     uint8
	Volume    [3]uint8
	EnvPeriod uint16
	EnvShape  int8
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Extract decodes frame into a Snapshot, computing each voice's tone
// frequency from its 12-bit period and masterClockHz, and its nearest
// note name by equal temperament against A4=440Hz. levels is typically
// psg.Chip.ChannelLevels().
func Extract(frame RegisterSource, masterClockHz int, levels [3]float32) Snapshot {
	var snap Snapshot
	snap.NoisePeriod = frame.Noise
	snap.EnvPeriod = frame.EnvPeriod
	snap.EnvShape = frame.EnvShape

	for ch := 0; ch < 3; ch++ {
		toneEnabled := frame.Mixer&(1<<uint(ch)) == 0
		noiseEnabled := frame.Mixer&(1<<uint(3+ch)) == 0
		envelopeOn := frame.Volume[ch]&0x10 != 0

		var hz float64
		if frame.Tone[ch] > 0 {
			hz = float64(masterClockHz) / (16 * float64(frame.Tone[ch]))
		}

		snap.Channels[ch] = ChannelStatus{
			ToneEnabled:  toneEnabled,
			NoiseEnabled: noiseEnabled,
			EnvelopeOn:   envelopeOn,
			ToneHz:       hz,
			Volume:       frame.Volume[ch] & 0x0F,
			Note:         noteName(hz),
			Level:        levels[ch],
		}
	}

	return snap
}

// noteName returns the nearest equal-temperament note name for hz, or ""
// for a silent or sub-audible channel.
func noteName(hz float64) string {
	if hz < 16 {
		return ""
	}
	semitonesFromA4 := int(math.Round(12 * math.Log2(hz/440)))
	absolute := 57 + semitonesFromA4 // C4 = 48, A4 = C4+9 = 57
	octave := int(math.Floor(float64(absolute) / 12))
	index := ((absolute % 12) + 12) % 12
	return fmt.Sprintf("%s%d", noteNames[index], octave)
}
