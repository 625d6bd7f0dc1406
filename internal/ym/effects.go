package ym

import "github.com/naorunaoru/ym2149-wa/internal/effect"

// DecodeEffects reads the two effect slots a YM5/YM6 frame carries in R14/
// R15 (legacy formats have no extended effects and always yield {None,
// None}). Slot 1 uses R1/R6/R14; slot 2 uses R3/R8/R15.
func DecodeEffects(frame [registersPerFrame]byte, format Format) (slot1, slot2 effect.Effect) {
	if !format.HasExtendedEffects() {
		return effect.Effect{}, effect.Effect{}
	}

	freq1 := slotFrequency(frame[6]>>5, frame[14])
	freq2 := slotFrequency(frame[8]>>5, frame[15])

	if format == FormatYM6 {
		slot1 = decodeYM6Slot(frame[1]>>4, frame, freq1)
		slot2 = decodeYM6Slot(frame[3]>>4, frame, freq2)
	} else {
		slot1 = decodeYM5SidSlot(frame[1]>>4&0x3, frame, freq1)
		slot2 = decodeYM5DrumSlot(frame[3]>>4&0x3, frame, freq2)
	}
	return slot1, slot2
}

func slotFrequency(prescalerIdx uint8, counter uint8) float64 {
	prescaler := prescalerTable[prescalerIdx&0x7]
	if prescaler == 0 || counter == 0 {
		return 0
	}
	return float64(mfpClockHz / (uint32(prescaler) * uint32(counter)))
}

// decodeYM6Slot implements the YM6 code map for one slot; both slots use
// the same code ranges, with the voice index derived from the code itself.
func decodeYM6Slot(code uint8, frame [registersPerFrame]byte, freq float64) effect.Effect {
	switch {
	case code == 0 || code == 4 || code == 8 || code == 12:
		return effect.Effect{}
	case code >= 1 && code <= 3:
		voice := int(code - 1)
		if freq == 0 {
			return effect.Effect{}
		}
		return effect.Effect{Kind: effect.Sid, Voice: voice, Freq: freq, Volume: frame[8+voice] & 0x0F}
	case code >= 5 && code <= 7:
		voice := int(code - 5)
		if freq == 0 {
			return effect.Effect{}
		}
		return effect.Effect{Kind: effect.DigiDrum, Voice: voice, Freq: freq, DrumIndex: int(frame[8+voice] & 0x1F)}
	case code >= 9 && code <= 11:
		voice := int(code - 9)
		if freq == 0 {
			return effect.Effect{}
		}
		return effect.Effect{Kind: effect.SinusSid, Voice: voice, Freq: freq, Volume: frame[8+voice] & 0x0F}
	case code >= 13 && code <= 15:
		if freq == 0 {
			return effect.Effect{}
		}
		// Per §9(b): the shape is read directly from R13 AND 0x0F,
		// independent of R13's 0xFF "no write this frame" sentinel used by
		// the normal envelope-apply path.
		return effect.Effect{Kind: effect.SyncBuzzer, Freq: freq, EnvShape: frame[13] & 0x0F}
	default:
		return effect.Effect{}
	}
}

func decodeYM5SidSlot(selector uint8, frame [registersPerFrame]byte, freq float64) effect.Effect {
	if selector == 0 || freq == 0 {
		return effect.Effect{}
	}
	voice := int(selector - 1)
	return effect.Effect{Kind: effect.Sid, Voice: voice, Freq: freq, Volume: frame[8+voice] & 0x0F}
}

func decodeYM5DrumSlot(selector uint8, frame [registersPerFrame]byte, freq float64) effect.Effect {
	if selector == 0 || freq == 0 {
		return effect.Effect{}
	}
	voice := int(selector - 1)
	return effect.Effect{Kind: effect.DigiDrum, Voice: voice, Freq: freq, DrumIndex: int(frame[8+voice] & 0x1F)}
}
