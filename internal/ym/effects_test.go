package ym

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naorunaoru/ym2149-wa/internal/effect"
)

func TestDecodeEffectsLegacyFormatsAlwaysNone(t *testing.T) {
	var frame [registersPerFrame]byte
	frame[1] = 0x10 // would be SID code 1 under YM6
	s1, s2 := DecodeEffects(frame, FormatYM3)
	assert.True(t, s1.IsNone())
	assert.True(t, s2.IsNone())
}

func TestDecodeEffectsYM6SidVoice(t *testing.T) {
	var frame [registersPerFrame]byte
	frame[1] = 0x10       // code 1 -> SID voice 0
	frame[6] = 0x20       // prescaler index 1 -> prescaler 4
	frame[14] = 100       // counter
	frame[8] = 0x0C       // volume nibble for voice 0

	s1, _ := DecodeEffects(frame, FormatYM6)
	assert.Equal(t, effect.Sid, s1.Kind)
	assert.Equal(t, 0, s1.Voice)
	assert.Equal(t, uint8(0x0C), s1.Volume)
	assert.InDelta(t, float64(mfpClockHz)/(4*100), s1.Freq, 0.01)
}

func TestDecodeEffectsYM6DigiDrum(t *testing.T) {
	var frame [registersPerFrame]byte
	frame[1] = 0x60 // code 6 -> DigiDrum voice 1
	frame[6] = 0x20
	frame[14] = 50
	frame[9] = 0x1F // drum index nibble for voice 1 (R[8+1])

	s1, _ := DecodeEffects(frame, FormatYM6)
	assert.Equal(t, effect.DigiDrum, s1.Kind)
	assert.Equal(t, 1, s1.Voice)
	assert.Equal(t, 0x1F, s1.DrumIndex)
}

func TestDecodeEffectsYM6SyncBuzzerReadsR13RegardlessOfSentinel(t *testing.T) {
	var frame [registersPerFrame]byte
	frame[1] = 0xD0 // code 13 -> SyncBuzzer
	frame[6] = 0x20
	frame[14] = 50
	frame[13] = 0xFF // sentinel "no write" -- must still be read for shape

	s1, _ := DecodeEffects(frame, FormatYM6)
	assert.Equal(t, effect.SyncBuzzer, s1.Kind)
	assert.Equal(t, uint8(0x0F), s1.EnvShape)
}

func TestDecodeEffectsYM6ReservedCodesAreNone(t *testing.T) {
	var frame [registersPerFrame]byte
	frame[6] = 0x20
	frame[14] = 50
	for _, code := range []uint8{0, 4, 8, 12} {
		frame[1] = code << 4
		s1, _ := DecodeEffects(frame, FormatYM6)
		assert.True(t, s1.IsNone(), "code %d should be none", code)
	}
}

func TestDecodeEffectsZeroPrescalerOrCounterIsNone(t *testing.T) {
	var frame [registersPerFrame]byte
	frame[1] = 0x10 // SID code
	frame[6] = 0x00 // prescaler index 0 -> prescaler 0
	frame[14] = 50

	s1, _ := DecodeEffects(frame, FormatYM6)
	assert.True(t, s1.IsNone())
}

func TestDecodeEffectsYM5SidAndDrumSelectors(t *testing.T) {
	var frame [registersPerFrame]byte
	frame[1] = 0x20 // selector bits [5:4] = 2 -> voice 1
	frame[6] = 0x20
	frame[14] = 50
	frame[9] = 0x07

	frame[3] = 0x10 // selector bits [5:4] = 1 -> voice 0
	// R8 does double duty for voice 0: bits [7:5] select the prescaler,
	// bits [4:0] carry the drum index.
	frame[8] = 0x2B
	frame[15] = 40

	s1, s2 := DecodeEffects(frame, FormatYM5)
	assert.Equal(t, effect.Sid, s1.Kind)
	assert.Equal(t, 1, s1.Voice)
	assert.Equal(t, effect.DigiDrum, s2.Kind)
	assert.Equal(t, 0, s2.Voice)
}
