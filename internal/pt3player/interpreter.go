package pt3player

// runPatternInterpreter reads one channel's bytecode stream from its saved
// cursor up to the row terminator, applying each command as it's read.
// Effect codes in 0x01-0x09 only record themselves on a stack; their
// parameter bytes live after the terminator and are consumed in LIFO
// order by consumePostRowEffects.
func (p *Player) runPatternInterpreter(ch int) {
	c := &p.channels[ch]
	stream := p.currentPattern().Channels[ch]
	var effectStack []uint8

rowLoop:
	for {
		if c.cursor >= len(stream) {
			c.finished = true
			break rowLoop
		}
		b := stream[c.cursor]

		switch {
		case b == 0x00:
			c.finished = true
			break rowLoop

		case b >= 0x01 && b <= 0x09:
			effectStack = append(effectStack, b)
			c.cursor++

		case b >= 0x0A && b <= 0x0F:
			// Reserved range, not assigned an effect in the dispatch table.
			c.cursor++

		case b == 0x10:
			c.envelopeEnabled = false
			c.cursor++
			if c.cursor < len(stream) {
				c.sampleIndex = int(stream[c.cursor]) / 2
				c.cursor++
			}

		case b >= 0x11 && b <= 0x1F:
			shape := b - 0x10
			c.envelopeEnabled = true
			c.cursor++
			if c.cursor+1 < len(stream) {
				p.envBase = uint16(stream[c.cursor])<<8 | uint16(stream[c.cursor+1])
				c.cursor += 2
			}
			p.pendingEnvelopeShape = shape
			if c.cursor < len(stream) {
				c.sampleIndex = int(stream[c.cursor]) / 2
				c.cursor++
			}

		case b >= 0x20 && b <= 0x3F:
			p.noiseBase = int(b - 0x20)
			c.cursor++

		case b >= 0x40 && b <= 0x4F:
			c.ornamentIndex = int(b - 0x40)
			c.ornamentPosition = 0
			c.cursor++

		case b >= 0x50 && b <= 0xAF:
			c.prevNote = c.note
			c.note = int(b - 0x50)
			c.samplePosition = 0
			c.ornamentPosition = 0
			c.tonAccumulator = 0
			c.currentAmplitudeSliding = 0
			c.resetSlideState()
			c.enabled = true
			c.cursor++
			c.finished = true
			break rowLoop

		case b == 0xB0:
			c.envelopeEnabled = false
			c.ornamentPosition = 0
			c.cursor++

		case b == 0xB1:
			c.cursor++
			if c.cursor < len(stream) {
				c.numberOfNotesToSkip = int(stream[c.cursor])
				c.cursor++
			}

		case b >= 0xB2 && b <= 0xBF:
			shape := b - 0xB1
			c.envelopeEnabled = true
			c.cursor++
			if c.cursor+1 < len(stream) {
				p.envBase = uint16(stream[c.cursor])<<8 | uint16(stream[c.cursor+1])
				c.cursor += 2
			}
			p.pendingEnvelopeShape = shape

		case b == 0xC0:
			c.enabled = false
			c.resetSlideState()
			c.cursor++
			c.finished = true
			break rowLoop

		case b >= 0xC1 && b <= 0xCF:
			c.volume = b - 0xC0
			c.cursor++

		case b == 0xD0:
			c.cursor++
			break rowLoop

		case b >= 0xD1 && b <= 0xEF:
			c.sampleIndex = int(b - 0xD0)
			c.cursor++

		default: // 0xF0-0xFF
			c.ornamentIndex = int(b - 0xF0)
			c.cursor++
			if c.cursor < len(stream) {
				c.sampleIndex = int(stream[c.cursor]) / 2
				c.cursor++
			}
			c.envelopeEnabled = false
		}
	}

	p.consumePostRowEffects(ch, stream, effectStack)
	c.noteSkipCounter = c.numberOfNotesToSkip
}

// consumePostRowEffects pops effect codes in LIFO order (reverse of the
// order they were encountered in the row) and reads each one's parameter
// bytes from wherever the row cursor stopped.
func (p *Player) consumePostRowEffects(ch int, stream []byte, effectStack []uint8) {
	c := &p.channels[ch]

	readByte := func() uint8 {
		if c.cursor >= len(stream) {
			return 0
		}
		v := stream[c.cursor]
		c.cursor++
		return v
	}
	readInt16 := func() int {
		hi := int(int8(readByte()))
		lo := int(readByte())
		return hi<<8 | lo
	}

	for i := len(effectStack) - 1; i >= 0; i-- {
		switch effectStack[i] {
		case 0x01: // simple glissando
			delay := readByte()
			step := readInt16()
			c.tonSlideDelay = int(delay)
			c.tonSlideCount = int(delay)
			c.tonSlideStep = step
			c.simpleGliss = true

		case 0x02: // portamento
			delay := readByte()
			readByte()
			readByte()
			step := readInt16()
			if step < 0 {
				step = -step
			}
			c.tonDelta = int(toneTable[clampNote(c.note)]) - int(toneTable[clampNote(c.prevNote)])
			c.slideToNote = c.note
			c.note = c.prevNote
			if c.tonDelta-c.currentTonSliding < 0 {
				step = -step
			}
			c.tonSlideStep = step
			c.tonSlideDelay = int(delay)
			c.tonSlideCount = int(delay)
			c.portamento = true

		case 0x03: // set sample position
			c.samplePosition = int(readByte())

		case 0x04: // set ornament position
			c.ornamentPosition = int(readByte())

		case 0x05: // vibrato
			onTime := readByte()
			offTime := readByte()
			c.onOffDelay = int(onTime)
			c.offOnDelay = int(offTime)
			c.onOffCounter = int(onTime)
			c.onOffEnabled = true
			c.currentTonSliding = 0
			c.tonSlideStep = 0
			c.tonSlideCount = 0
			c.tonSlideDelay = 0

		case 0x08: // envelope slide
			delay := readByte()
			slide := readInt16()
			p.envSlideDelay = int(delay)
			p.envSlideCounter = int(delay)
			p.envSlideStep = slide

		case 0x09: // set song delay
			d := readByte()
			p.delay = uint8(maxInt(1, int(d)))
		}
	}
}

func clampNote(note int) int {
	return clampInt(note, 0, noteCount-1)
}
