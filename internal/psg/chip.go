// Package psg emulates the YM2149/AY-3-8910 Programmable Sound Generator:
// three tone generators, a 17-bit LFSR noise generator, a hardware envelope
// with a 4-bit shape register, and the chip's AND-gate mixer topology, plus the three YM-format
// special effects (DigiDrum, SID voice, Sync Buzzer) that are commonly
// layered on top of it by chiptune replayers.
package psg

// Register indexes, matching the chip's own addressing (R0..R13).
const (
	RToneALo = iota
	RToneAHi
	RToneBLo
	RToneBHi
	RToneCLo
	RToneCHi
	RNoise
	RMixer
	RVolA
	RVolB
	RVolC
	REnvLo
	REnvHi
	REnvShape
	registerCount
)

// Chip is one YM2149/AY-3-8910 PSG instance.
type Chip struct {
	internalClock float64 // masterClock / 8
	sampleRate    float64
	ticksPerSample float64
	tickAccum      float64

	regs [registerCount]uint8

	tones [3]toneGenerator
	noise noiseGenerator
	env   envelopeGenerator

	toneEnabled  [3]bool
	noiseEnabled [3]bool

	volLevel  [3]uint8
	volUseEnv [3]bool

	pan [3]float32

	drums   [3]digidrum
	sids    [3]sidVoice
	buzzer  syncBuzzer

	levels [3]float32 // observation hook: last sample's per-channel peak magnitude
}

// New creates a PSG running at masterClockHz (commonly 2,000,000 for YM
// files, ~1,773,400 for ZX Spectrum AY/PT3 files) producing samples at
// sampleRateHz.
func New(masterClockHz, sampleRateHz int) *Chip {
	c := &Chip{}
	c.internalClock = float64(masterClockHz) / 8
	c.sampleRate = float64(sampleRateHz)
	c.ticksPerSample = c.internalClock / c.sampleRate
	c.Reset()
	return c
}

// SetSampleRate changes the output sample rate without resetting generator
// state, recomputing the fractional tick accumulator rate.
func (c *Chip) SetSampleRate(sampleRateHz int) {
	c.sampleRate = float64(sampleRateHz)
	c.ticksPerSample = c.internalClock / c.sampleRate
}

// SetPan sets channel ch's (0..2) equal-power stereo pan in [-1,1].
func (c *Chip) SetPan(ch int, pan float32) {
	if ch < 0 || ch > 2 {
		return
	}
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	c.pan[ch] = pan
}

// Reset restores all generators to their post-construction state. The audio
// graph and sample rate are kept.
func (c *Chip) Reset() {
	c.regs = [registerCount]uint8{}
	for i := range c.tones {
		c.tones[i].reset()
	}
	c.noise.reset()
	c.env.reset()
	c.toneEnabled = [3]bool{}
	c.noiseEnabled = [3]bool{}
	c.volLevel = [3]uint8{}
	c.volUseEnv = [3]bool{}
	for i := range c.drums {
		c.drums[i] = digidrum{}
		c.sids[i] = sidVoice{}
	}
	c.buzzer = syncBuzzer{}
	c.tickAccum = 0
	c.levels = [3]float32{}
}

// WriteRegister applies a write to one of the chip's 14 registers (0..13).
// Out-of-range register indexes are ignored.
func (c *Chip) WriteRegister(reg int, value uint8) {
	if reg < 0 || reg >= registerCount {
		return
	}
	c.regs[reg] = value

	switch reg {
	case RToneALo, RToneAHi:
		c.tones[0].setPeriod(uint16(c.regs[RToneAHi]&0x0F)<<8 | uint16(c.regs[RToneALo]))
	case RToneBLo, RToneBHi:
		c.tones[1].setPeriod(uint16(c.regs[RToneBHi]&0x0F)<<8 | uint16(c.regs[RToneBLo]))
	case RToneCLo, RToneCHi:
		c.tones[2].setPeriod(uint16(c.regs[RToneCHi]&0x0F)<<8 | uint16(c.regs[RToneCLo]))
	case RNoise:
		c.noise.setPeriod(value & 0x1F)
	case RMixer:
		for ch := 0; ch < 3; ch++ {
			c.toneEnabled[ch] = value&(1<<ch) == 0
			c.noiseEnabled[ch] = value&(1<<(3+ch)) == 0
		}
	case RVolA:
		c.volLevel[0] = value & 0x0F
		c.volUseEnv[0] = value&0x10 != 0
	case RVolB:
		c.volLevel[1] = value & 0x0F
		c.volUseEnv[1] = value&0x10 != 0
	case RVolC:
		c.volLevel[2] = value & 0x0F
		c.volUseEnv[2] = value&0x10 != 0
	case REnvLo, REnvHi:
		c.env.setPeriod(uint16(c.regs[REnvHi])<<8 | uint16(c.regs[REnvLo]))
	case REnvShape:
		c.env.setShape(value)
	}
}

// ReadRegister returns the last value written to register reg.
func (c *Chip) ReadRegister(reg int) uint8 {
	if reg < 0 || reg >= registerCount {
		return 0
	}
	return c.regs[reg]
}

// StartDigidrum begins playing an 8-bit unsigned PCM sample on channel ch,
// gating that channel's DAC output directly.
func (c *Chip) StartDigidrum(ch int, data []uint8, freqHz float64) {
	if ch < 0 || ch > 2 {
		return
	}
	c.drums[ch].start(data, freqHz, c.sampleRate)
}

// StopDigidrum stops playback on channel ch, if active.
func (c *Chip) StopDigidrum(ch int) {
	if ch < 0 || ch > 2 {
		return
	}
	c.drums[ch].stop()
}

// StartSid begins amplitude-gating channel ch at freqHz.
func (c *Chip) StartSid(ch int, freqHz float64, volume uint8, isSinus bool) {
	if ch < 0 || ch > 2 {
		return
	}
	c.sids[ch].start(freqHz, c.sampleRate, volume, isSinus)
}

// StopSid stops amplitude gating on channel ch, if active.
func (c *Chip) StopSid(ch int) {
	if ch < 0 || ch > 2 {
		return
	}
	c.sids[ch].stop()
}

// StartSyncBuzzer begins retriggering the envelope generator at freqHz with
// the given 4-bit shape.
func (c *Chip) StartSyncBuzzer(freqHz float64, envShape uint8) {
	c.env.setShape(envShape)
	c.buzzer.start(freqHz, c.sampleRate)
}

// StopSyncBuzzer stops the sync buzzer, if active.
func (c *Chip) StopSyncBuzzer() {
	c.buzzer.stop()
}

// ChannelLevels returns the three channels' last-sample peak magnitudes, an
// observation hook for level meters. No synchronization is provided; reads
// may tear with a concurrent GenerateStereo call, which is an accepted
// tradeoff for a cheap visualisation-only signal.
func (c *Chip) ChannelLevels() [3]float32 {
	return c.levels
}

// GenerateStereo produces n stereo sample pairs.
func (c *Chip) GenerateStereo(n int) (left, right []float32) {
	left = make([]float32, n)
	right = make([]float32, n)
	for i := 0; i < n; i++ {
		left[i], right[i] = c.nextSample()
	}
	return left, right
}

func (c *Chip) nextSample() (float32, float32) {
	if c.buzzer.advance() {
		c.env.trigger()
	}

	var sidLevel [3]uint8
	var sidActive [3]bool
	for ch := 0; ch < 3; ch++ {
		if c.sids[ch].active {
			sidActive[ch] = true
			sidLevel[ch] = c.sids[ch].gate()
		}
	}

	c.tickAccum += c.ticksPerSample
	n := int(c.tickAccum)
	c.tickAccum -= float64(n)

	var toneAccum [3]uint8
	var noiseAccum uint8
	for i := 0; i < n; i++ {
		for ch := 0; ch < 3; ch++ {
			toneAccum[ch] |= c.tones[ch].tick()
		}
		noiseAccum |= c.noise.tick()
		c.env.tick()
	}

	envLevel := c.env.level()

	var out [3]float32
	for ch := 0; ch < 3; ch++ {
		if c.drums[ch].active {
			out[ch] = c.drums[ch].sample()
			continue
		}

		toneGate := toneAccum[ch] != 0 || !c.toneEnabled[ch]
		noiseGate := noiseAccum != 0 || !c.noiseEnabled[ch]
		if !(toneGate && noiseGate) {
			continue
		}

		useEnv := c.volUseEnv[ch]
		level := c.volLevel[ch]
		if sidActive[ch] {
			useEnv = false
			level = sidLevel[ch]
		}

		var idx uint8
		if useEnv {
			idx = envLevel
		} else {
			idx = level << 1
		}
		out[ch] = volumeTable[idx]
	}

	c.levels = out

	var l, r float32
	for ch := 0; ch < 3; ch++ {
		lg, rg := equalPowerPan(c.pan[ch])
		l += out[ch] * lg
		r += out[ch] * rg
	}
	return l / 3, r / 3
}
