package pt3player

// generateRegisters implements §4.7's per-tick register generation: for
// each enabled channel, read the current sample/ornament frame, advance
// every slide/vibrato accumulator, and produce a tone/volume pair; then
// combine the three channels into the shared noise and envelope
// registers.
func (p *Player) generateRegisters() RegisterFrame {
	var out RegisterFrame
	addToNoise := 0
	addToEnv := 0

	for ch := range p.channels {
		c := &p.channels[ch]
		sample := &p.mod.Samples[clampInt(c.sampleIndex, 0, len(p.mod.Samples)-1)]
		ornament := &p.mod.Ornaments[clampInt(c.ornamentIndex, 0, len(p.mod.Ornaments)-1)]

		frame := frameAt(sample, c.samplePosition)
		ornOffset := ornamentOffsetAt(ornament, c.ornamentPosition)

		tone := int(frame.ToneOffset) + c.tonAccumulator
		if frame.AccumulateTone {
			c.tonAccumulator = tone
		}

		note := clampNote(c.note + ornOffset)
		out.Tone[ch] = uint16((tone + c.currentTonSliding + int(toneTable[note])) & 0x0FFF)

		if c.tonSlideCount > 0 {
			c.tonSlideCount--
			if c.tonSlideCount == 0 {
				c.currentTonSliding += c.tonSlideStep
				c.tonSlideCount = c.tonSlideDelay
			}
		}
		if c.portamento {
			if (c.tonDelta >= 0 && c.currentTonSliding >= c.tonDelta) ||
				(c.tonDelta < 0 && c.currentTonSliding <= c.tonDelta) {
				c.note = c.slideToNote
				c.currentTonSliding = 0
				c.tonSlideStep = 0
				c.tonSlideCount = 0
				c.portamento = false
			}
		}

		if c.onOffEnabled {
			c.onOffCounter--
			if c.onOffCounter <= 0 {
				c.enabled = !c.enabled
				if c.enabled {
					c.onOffCounter = maxInt(1, c.onOffDelay)
				} else {
					c.onOffCounter = maxInt(1, c.offOnDelay)
				}
			}
		}

		amplitude := int(frame.Amplitude)
		if frame.AmplitudeSlideEnabled {
			c.currentAmplitudeSliding += int(frame.AmplitudeSlide())
			amplitude += c.currentAmplitudeSliding
		}
		amplitude = clampInt(amplitude, 0, 15)
		scaled := channelVolumeTable[clampInt(int(c.volume), 0, 15)][amplitude]

		volReg := scaled
		if c.envelopeEnabled && !frame.EnvelopeMask {
			volReg |= 0x10
		}
		out.Volume[ch] = volReg

		if frame.ToneMask || !c.enabled {
			out.Mixer |= 1 << uint(ch)
		}
		if frame.NoiseMask {
			v := int(frame.EnvelopeOffset())
			if frame.AccumulateNoise {
				c.noiseEnvAccum += v
				v = c.noiseEnvAccum
			}
			addToEnv += v
			out.Mixer |= 1 << uint(3+ch)
		} else {
			v := int(frame.NoiseOffset())
			if frame.AccumulateNoise {
				c.noiseEnvAccum += v
				v = c.noiseEnvAccum
			}
			addToNoise += v
			if !c.enabled {
				out.Mixer |= 1 << uint(3+ch)
			}
		}

		c.samplePosition++
		if c.samplePosition >= len(sample.Frames) {
			c.samplePosition = int(sample.Loop)
		}
		c.ornamentPosition++
		if len(ornament.Offsets) > 0 && c.ornamentPosition >= len(ornament.Offsets) {
			c.ornamentPosition = int(ornament.Loop)
		}
	}

	out.Noise = uint8((p.noiseBase + addToNoise) & 0x1F)
	out.EnvPeriod = uint16(clampInt(int(p.envBase)+p.curEnvSlide+addToEnv, 0, 0xFFFF))

	out.EnvShape = noEnvelopeShape
	if p.pendingEnvelopeShape != 0xFF {
		out.EnvShape = int8(p.pendingEnvelopeShape)
		p.pendingEnvelopeShape = 0xFF
	}

	if p.envSlideCounter > 0 {
		p.envSlideCounter--
		if p.envSlideCounter == 0 {
			p.curEnvSlide += p.envSlideStep
			p.envSlideCounter = p.envSlideDelay
		}
	}

	return out
}
