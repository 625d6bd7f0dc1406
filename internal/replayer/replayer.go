// Package replayer drives a psg.Chip from a parsed chiptune file. Two
// Replayer implementations share one contract: a YM register-dump
// replayer (internal/ym) and a PT3 tracker replayer (internal/pt3 +
// internal/pt3player). The Player facade in this package owns the PSG
// chip(s), the chosen Replayer, a frame limiter, and an audio sink, and
// exposes the playback controls a frontend drives (internal/uiterm,
// cmd/chiptune).
package replayer

import "github.com/naorunaoru/ym2149-wa/internal/effect"

// RegisterFrame is the common register-write shape both replayer variants
// produce each frame; the Player facade applies it to a psg.Chip
// identically regardless of source format.
type RegisterFrame struct {
	Tone      [3]uint16
	Noise     uint8
	Mixer     uint8
	Volume    [3]uint8
	EnvPeriod uint16
	EnvShape  int8 // -1: no new shape latched this frame
}

const NoEnvelopeShape int8 = -1

// FormatInfo describes static properties of a loaded file, queried once
// after Load.
type FormatInfo struct {
	FrameRateHz   int
	TotalFrames   int
	LoopFrame     int
	IsTurboSound  bool
}

// Replayer decodes one loaded chiptune file into a stream of register
// frames plus any YM-style channel effects (DigiDrum/SID/SyncBuzzer) that
// accompany it. PT3 replayers never populate the effect slots; YM
// replayers never populate a second chip's frames.
type Replayer interface {
	Load(data []byte) error

	// NextFrame advances by one frame, returning the register write and
	// any effects active on each of the chip's 3 voices this frame.
	// syncBuzzer is returned out of band from effects because Sync Buzzer
	// is chip-global rather than per-voice (internal/ym.DecodeEffects
	// never sets its Voice field), so folding it into the per-voice array
	// under Voice's zero value would silently alias a real voice-0
	// Sid/SinusSid/DigiDrum effect signaled in the file's other slot the
	// same frame. ok is false once playback has reached the end without
	// wrapping back to a loop point — either because the file has none,
	// or because SetLoopEnabled(false) asked playback to stop there
	// instead of wrapping.
	NextFrame() (frame RegisterFrame, effects [3]effect.Effect, syncBuzzer effect.Effect, ok bool)

	CurrentFrame() int
	LoopFrame() int
	HasLooped() bool
	SampleFormat() FormatInfo

	// Seek moves playback to an absolute frame index.
	Seek(frame int) error

	// SetLoopEnabled controls whether reaching the file's loop point wraps
	// playback (true, the default) or ends it (false), gating NextFrame's
	// wraparound for both the YM trailing-loop-frame case and PT3's
	// position-list wraparound.
	SetLoopEnabled(enabled bool)
}

// DualChipReplayer is implemented by replayers whose file carries a
// second, TurboSound-paired chip (PT3 only).
type DualChipReplayer interface {
	Replayer
	NextFrameSecondChip() (RegisterFrame, bool)
}
