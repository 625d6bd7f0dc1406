package pt3

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naorunaoru/ym2149-wa/internal/chiperr"
)

// buildMinimal assembles a syntactically valid, empty PT3 file: a header
// with every sample/ornament/pattern pointer left at 0 or pointing at a
// trivial pattern, and a one-entry position list.
func buildMinimal(t *testing.T) []byte {
	t.Helper()
	data := make([]byte, 220)
	copy(data[0:], "ProTracker 3.6r  compilation of  ")
	data[toneTableIDOffset] = 1
	data[delayOffset] = 4
	data[positionCountOff] = 1
	data[loopPositionOffset] = 0
	binary.LittleEndian.PutUint16(data[patternTablePtrOff:], 210)
	// all sample/ornament pointers stay 0 (empty)
	data[positionListOffset] = 0 // position 0 -> pattern slot at patternTablePtr+0
	data[positionListOffset+1] = 0xFF

	// pattern slot at 210: three channel pointers, each terminated streams
	binary.LittleEndian.PutUint16(data[210:], 216)
	binary.LittleEndian.PutUint16(data[212:], 217)
	binary.LittleEndian.PutUint16(data[214:], 218)
	data[216] = 0x00
	data[217] = 0x00
	data[218] = 0x00
	return data
}

func TestParseMinimalModule(t *testing.T) {
	data := buildMinimal(t)
	mod, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 6, mod.Version)
	assert.Equal(t, 1, mod.ToneTableID)
	assert.Equal(t, uint8(4), mod.Delay)
	assert.Equal(t, []int{0}, mod.Positions)
	require.Len(t, mod.Patterns, 1)
	assert.Nil(t, mod.TurboSound)

	pat := mod.PatternAt(0)
	require.NotNil(t, pat)
	assert.Empty(t, pat.Channels[0])
	assert.Empty(t, pat.Channels[1])
	assert.Empty(t, pat.Channels[2])
}

func TestParseRejectsShortFile(t *testing.T) {
	_, err := Parse(make([]byte, 50))
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.MalformedFile))
}

func TestParseRejectsEmptyPositionList(t *testing.T) {
	data := buildMinimal(t)
	data[positionListOffset] = 0xFF
	data[positionCountOff] = 1

	_, err := Parse(data)
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.MalformedFile))
}

func TestParseSampleFramesRoundTrip(t *testing.T) {
	data := buildMinimal(t)
	samplePtr := 219
	data = append(data, make([]byte, 10)...)
	data[samplePtr] = 1    // loop
	data[samplePtr+1] = 2  // length: 2 frames
	frame0 := []byte{0x0C | 0x10 | 0x40, 0x34, 0x12, 0x05 | 0x40}
	frame1 := []byte{0x07 | 0x80, 0xFF, 0xFF, 0x1F | 0x40 | 0x80}
	copy(data[samplePtr+2:], frame0)
	copy(data[samplePtr+6:], frame1)
	binary.LittleEndian.PutUint16(data[samplePointersOff:], uint16(samplePtr))

	mod, err := Parse(data)
	require.NoError(t, err)

	s := mod.Samples[0]
	require.Len(t, s.Frames, 2)

	f0 := s.Frames[0]
	assert.Equal(t, uint8(0x0C), f0.Amplitude)
	assert.True(t, f0.AccumulateTone)
	assert.True(t, f0.AmplitudeSlideEnabled)
	assert.Equal(t, int16(0x1234), f0.ToneOffset)
	assert.True(t, f0.NoiseMask)
	assert.Equal(t, uint8(5), f0.EnvelopeOffset())

	f1 := s.Frames[1]
	assert.True(t, f1.NoiseMask)
	assert.True(t, f1.EnvelopeMask)
	assert.Equal(t, int8(1), f1.AmplitudeSlide())
}

func TestParseOrnamentOffsets(t *testing.T) {
	data := buildMinimal(t)
	ornPtr := 219
	data = append(data, make([]byte, 10)...)
	data[ornPtr] = 0   // loop
	data[ornPtr+1] = 3 // length
	data[ornPtr+2] = 0
	data[ornPtr+3] = 0xFE // -2
	data[ornPtr+4] = 2
	binary.LittleEndian.PutUint16(data[ornamentPointersOff:], uint16(ornPtr))

	mod, err := Parse(data)
	require.NoError(t, err)

	o := mod.Ornaments[0]
	require.Len(t, o.Offsets, 3)
	assert.Equal(t, []int8{0, -2, 2}, o.Offsets)
}

func TestParseRejectsOrnamentLoopBeyondLength(t *testing.T) {
	data := buildMinimal(t)
	ornPtr := 219
	data = append(data, make([]byte, 10)...)
	data[ornPtr] = 5 // loop
	data[ornPtr+1] = 2 // length
	binary.LittleEndian.PutUint16(data[ornamentPointersOff:], uint16(ornPtr))

	_, err := Parse(data)
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.MalformedFile))
}

func TestParseRejectsChannelStreamBeyondSafetyCap(t *testing.T) {
	data := buildMinimal(t)
	huge := make([]byte, maxPatternStreamBytes+10)
	for i := range huge {
		huge[i] = 0x01 // never a terminator
	}
	data = append(data, huge...)
	binary.LittleEndian.PutUint16(data[210:], uint16(len(data)-len(huge)))

	_, err := Parse(data)
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.TooLarge))
}

func TestParseDetectsTurboSound(t *testing.T) {
	first := buildMinimal(t)
	second := buildMinimal(t)
	combined := make([]byte, turboSoundScanStart)
	copy(combined, first)
	combined = append(combined, second...)

	mod, err := Parse(combined)
	require.NoError(t, err)
	require.NotNil(t, mod.TurboSound)
	assert.Equal(t, mod.Version, mod.TurboSound.Version)
}

func TestParseVersionDefaultsWhenSignatureAbsent(t *testing.T) {
	data := buildMinimal(t)
	for i := 0; i < headerLen; i++ {
		data[i] = 0
	}
	mod, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 6, mod.Version)
}
