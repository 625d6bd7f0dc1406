// Package pt3player interprets a parsed PT3 module (internal/pt3) tick by
// tick, turning its pattern bytecode into PSG register writes the way the
// original tracker's playback routine does: an outer per-frame position
// loop driving a per-channel bytecode interpreter, with post-row effect
// parameters consumed in LIFO order.
package pt3player

// RegisterFrame is the set of PSG register values produced by one tick.
// EnvShape is -1 when no new envelope shape should be latched this tick.
type RegisterFrame struct {
	Tone      [3]uint16
	Noise     uint8
	Mixer     uint8
	Volume    [3]uint8
	EnvPeriod uint16
	EnvShape  int8
}

const noEnvelopeShape = -1

// channelState is one PSG channel's tracker-side playback cursor: its
// position in the pattern bytecode, its sample/ornament cursors, and the
// slide/vibrato accumulators §4.7 describes.
type channelState struct {
	cursor   int
	enabled  bool
	finished bool // saw 0x00 end-of-track; holds position for the outer loop

	note     int
	prevNote int

	sampleIndex    int
	samplePosition int
	ornamentIndex  int
	ornamentPosition int

	volume uint8 // 0..15, set by 0xC1-0xCF

	envelopeEnabled bool

	tonAccumulator    int
	currentTonSliding int
	tonSlideStep      int
	tonSlideDelay     int
	tonSlideCount     int
	tonDelta          int
	slideToNote       int
	simpleGliss       bool
	portamento        bool

	currentAmplitudeSliding int

	onOffEnabled bool
	onOffDelay   int
	offOnDelay   int
	onOffCounter int

	noiseEnvAccum int

	numberOfNotesToSkip int
	noteSkipCounter     int
}

func (c *channelState) resetSlideState() {
	c.currentTonSliding = 0
	c.tonSlideStep = 0
	c.tonSlideDelay = 0
	c.tonSlideCount = 0
	c.tonDelta = 0
	c.slideToNote = 0
	c.simpleGliss = false
	c.portamento = false
	c.onOffEnabled = false
	c.onOffCounter = 0
}
