package ym

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naorunaoru/ym2149-wa/internal/chiperr"
)

func TestParseRejectsUnknownMagic(t *testing.T) {
	_, err := Parse([]byte("XXXX"))
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.InvalidMagic))
}

func TestParseRejectsShortInput(t *testing.T) {
	_, err := Parse([]byte("YM"))
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.InvalidMagic))
}

func TestParseMinimalYM3AllZeroFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("YM3!")
	buf.Write(make([]byte, 14*14)) // 14 frames x 14 registers, all zero

	f, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FormatYM3, f.Header.Format)
	assert.Equal(t, 14, f.Header.FrameCount)
	assert.Equal(t, uint32(defaultMasterClockHz), f.Header.MasterClockHz)
	assert.Equal(t, uint16(defaultFrameRateHz), f.Header.FrameRateHz)

	for _, frame := range f.Frames {
		for _, b := range frame {
			assert.Equal(t, byte(0), b)
		}
	}
}

func TestParseYM3bReadsTrailingLoopFrame(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("YM3b")
	buf.Write(make([]byte, 14*14))
	loop := make([]byte, 4)
	binary.BigEndian.PutUint32(loop, 7)
	buf.Write(loop)

	f, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(7), f.Header.LoopFrame)
	assert.Equal(t, 14, f.Header.FrameCount)
}

func TestParseLegacyRejectsBadFrameAlignment(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("YM2!")
	buf.Write(make([]byte, 10)) // not a multiple of 14

	_, err := Parse(buf.Bytes())
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.MalformedFile))
}

func buildYM6(t *testing.T, frameCount int, interleaved, fourBitDrums bool, frames [][registersPerFrame]byte, digidrums [][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("YM6!")
	buf.WriteString("LeOnArD!")

	header := make([]byte, 22)
	binary.BigEndian.PutUint32(header[0:4], uint32(frameCount))
	var attrs uint32
	if interleaved {
		attrs |= 0x1
	}
	if fourBitDrums {
		attrs |= 0x4
	}
	binary.BigEndian.PutUint32(header[4:8], attrs)
	binary.BigEndian.PutUint16(header[8:10], uint16(len(digidrums)))
	binary.BigEndian.PutUint32(header[10:14], 2000000)
	binary.BigEndian.PutUint16(header[14:16], 50)
	binary.BigEndian.PutUint32(header[16:20], 0)
	binary.BigEndian.PutUint16(header[20:22], 0) // no extra data
	buf.Write(header)

	for _, d := range digidrums {
		size := make([]byte, 4)
		binary.BigEndian.PutUint32(size, uint32(len(d)))
		buf.Write(size)
		buf.Write(d)
	}

	buf.WriteString("song\x00author\x00comment\x00")

	if interleaved {
		for reg := 0; reg < registersPerFrame; reg++ {
			for i := 0; i < frameCount; i++ {
				buf.WriteByte(frames[i][reg])
			}
		}
	} else {
		for i := 0; i < frameCount; i++ {
			buf.Write(frames[i][:])
		}
	}

	buf.WriteString("End!")
	return buf.Bytes()
}

func TestParseYM6SequentialRoundTripsFrames(t *testing.T) {
	frames := [][registersPerFrame]byte{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		{17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32},
	}
	data := buildYM6(t, 2, false, false, frames, nil)

	f, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, FormatYM6, f.Header.Format)
	assert.Equal(t, "song", f.Meta.SongName)
	assert.Equal(t, "author", f.Meta.Author)
	assert.Equal(t, "comment", f.Meta.Comment)
	assert.Equal(t, frames, f.Frames)
	assert.Empty(t, f.Warnings)
}

func TestParseYM6InterleavedDeinterleaves(t *testing.T) {
	frames := [][registersPerFrame]byte{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		{17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32},
		{33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48},
	}
	data := buildYM6(t, 3, true, false, frames, nil)

	f, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, frames, f.Frames)
}

func TestParseYM6FourBitDigidrumExpansion(t *testing.T) {
	packed := []byte{0x01, 0x23, 0xFE}
	data := buildYM6(t, 1, false, true, [][registersPerFrame]byte{{}}, [][]byte{packed})

	f, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, f.Digidrums, 1)
	want := []byte{
		digidrumNibbleTable[0x01],
		digidrumNibbleTable[0x23&0x0F],
		digidrumNibbleTable[0xFE&0x0F],
	}
	assert.Equal(t, want, f.Digidrums[0])
}

func TestParseYM6MissingEndTrailerWarnsNotFails(t *testing.T) {
	data := buildYM6(t, 1, false, false, [][registersPerFrame]byte{{}}, nil)
	data = data[:len(data)-4] // chop off "End!"

	f, err := Parse(data)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Warnings)
}

func TestParseYM6RejectsTooManyFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("YM6!")
	buf.WriteString("LeOnArD!")
	header := make([]byte, 22)
	binary.BigEndian.PutUint32(header[0:4], maxFrameCount+1)
	buf.Write(header)

	_, err := Parse(buf.Bytes())
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.TooLarge))
}

func TestParseYM5RejectsBadSignature(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("YM5!")
	buf.WriteString("NotASign")
	buf.Write(make([]byte, 22))

	_, err := Parse(buf.Bytes())
	require.Error(t, err)
	assert.True(t, chiperr.Is(err, chiperr.InvalidMagic))
}
