package ym

import (
	"encoding/binary"
	"strings"

	"github.com/naorunaoru/ym2149-wa/internal/chiperr"
)

// digidrumNibbleTable expands the 4-bit packed DigiDrum format (YM5/YM6
// attribute bit 2) into 8-bit sample values, matching the exact mapping the
// format's reference players use.
var digidrumNibbleTable = [16]uint8{
	0, 1, 2, 2, 4, 6, 9, 12,
	17, 24, 35, 48, 72, 103, 165, 255,
}

// Parse auto-detects the YM variant from the first four bytes and decodes
// the full file. It fails fast: the first malformed field returns a
// *chiperr.Error before any partial File is built.
func Parse(data []byte) (*File, error) {
	if len(data) < 4 {
		return nil, chiperr.New(chiperr.InvalidMagic, "ym.Parse")
	}

	switch string(data[0:4]) {
	case "YM2!":
		return parseLegacy(data, FormatYM2)
	case "YM3!":
		return parseLegacy(data, FormatYM3)
	case "YM3b":
		return parseLegacy(data, FormatYM3b)
	case "YM5!":
		return parseExtended(data, FormatYM5)
	case "YM6!":
		return parseExtended(data, FormatYM6)
	default:
		return nil, chiperr.New(chiperr.InvalidMagic, "ym.Parse")
	}
}

func parseLegacy(data []byte, format Format) (*File, error) {
	payload := data[4:]
	trailerLen := 0
	if format == FormatYM3b {
		trailerLen = 4
	}
	if len(payload) < trailerLen {
		return nil, chiperr.New(chiperr.MalformedFile, "ym.Parse: legacy payload")
	}

	frameBytes := len(payload) - trailerLen
	if frameBytes%legacyRegistersPerFrame != 0 {
		return nil, chiperr.New(chiperr.MalformedFile, "ym.Parse: legacy frame count")
	}
	frameCount := frameBytes / legacyRegistersPerFrame
	if frameCount > maxFrameCount {
		return nil, chiperr.New(chiperr.TooLarge, "ym.Parse: frame count")
	}

	loopFrame := uint32(0)
	if format == FormatYM3b {
		loopFrame = binary.BigEndian.Uint32(payload[frameBytes : frameBytes+4])
	}

	// Legacy formats interleave all-R0s, then all-R1s, ... across the whole
	// file, same as the "interleaved" YM5/YM6 layout.
	frames := make([][registersPerFrame]byte, frameCount)
	for reg := 0; reg < legacyRegistersPerFrame; reg++ {
		base := reg * frameCount
		for i := 0; i < frameCount; i++ {
			frames[i][reg] = payload[base+i]
		}
	}

	return &File{
		Header: Header{
			Format:        format,
			FrameCount:    frameCount,
			Interleaved:   true,
			MasterClockHz: defaultMasterClockHz,
			FrameRateHz:   defaultFrameRateHz,
			LoopFrame:     loopFrame,
		},
		Frames: frames,
	}, nil
}

const extendedSignature = "LeOnArD!"

func parseExtended(data []byte, format Format) (*File, error) {
	if len(data) < 12+22 {
		return nil, chiperr.New(chiperr.MalformedFile, "ym.Parse: extended header")
	}
	if string(data[4:12]) != extendedSignature {
		return nil, chiperr.New(chiperr.InvalidMagic, "ym.Parse: signature")
	}

	off := 12
	frameCount := int(binary.BigEndian.Uint32(data[off:]))
	off += 4
	attributes := binary.BigEndian.Uint32(data[off:])
	off += 4
	digidrumCount := binary.BigEndian.Uint16(data[off:])
	off += 2
	masterClock := binary.BigEndian.Uint32(data[off:])
	off += 4
	frameRate := binary.BigEndian.Uint16(data[off:])
	off += 2
	loopFrame := binary.BigEndian.Uint32(data[off:])
	off += 4
	extraDataSize := uint32(binary.BigEndian.Uint16(data[off:]))
	off += 2

	if frameCount <= 0 || frameCount > maxFrameCount {
		return nil, chiperr.New(chiperr.TooLarge, "ym.Parse: frame count")
	}

	if off+int(extraDataSize) > len(data) {
		return nil, chiperr.New(chiperr.MalformedFile, "ym.Parse: extra data")
	}
	off += int(extraDataSize)

	interleaved := attributes&0x1 != 0
	fourBitDrums := attributes&0x4 != 0

	digidrums := make([][]byte, 0, digidrumCount)
	for i := 0; i < int(digidrumCount); i++ {
		if off+4 > len(data) {
			return nil, chiperr.New(chiperr.MalformedFile, "ym.Parse: digidrum size")
		}
		size := int(binary.BigEndian.Uint32(data[off:]))
		off += 4
		if size < 0 || off+size > len(data) {
			return nil, chiperr.New(chiperr.MalformedFile, "ym.Parse: digidrum data")
		}
		raw := data[off : off+size]
		off += size

		sample := make([]byte, len(raw))
		if fourBitDrums {
			for j, b := range raw {
				sample[j] = digidrumNibbleTable[b&0x0F]
			}
		} else {
			copy(sample, raw)
		}
		digidrums = append(digidrums, sample)
	}

	songName, off2, err := readCString(data, off)
	if err != nil {
		return nil, err
	}
	author, off3, err := readCString(data, off2)
	if err != nil {
		return nil, err
	}
	comment, off4, err := readCString(data, off3)
	if err != nil {
		return nil, err
	}
	off = off4

	frameDataLen := frameCount * registersPerFrame
	if off+frameDataLen > len(data) {
		return nil, chiperr.New(chiperr.MalformedFile, "ym.Parse: frame data")
	}

	frames := make([][registersPerFrame]byte, frameCount)
	frameData := data[off : off+frameDataLen]
	if interleaved {
		for reg := 0; reg < registersPerFrame; reg++ {
			base := reg * frameCount
			for i := 0; i < frameCount; i++ {
				frames[i][reg] = frameData[base+i]
			}
		}
	} else {
		for i := 0; i < frameCount; i++ {
			copy(frames[i][:], frameData[i*registersPerFrame:(i+1)*registersPerFrame])
		}
	}
	off += frameDataLen

	var warnings []string
	if off+4 > len(data) || string(data[off:off+4]) != "End!" {
		warnings = append(warnings, "missing or malformed \"End!\" trailer")
	}

	return &File{
		Header: Header{
			Format:        format,
			FrameCount:    frameCount,
			Interleaved:   interleaved,
			FourBitDrums:  fourBitDrums,
			MasterClockHz: masterClock,
			FrameRateHz:   frameRate,
			LoopFrame:     loopFrame,
			DigidrumCount: digidrumCount,
			ExtraDataSize: extraDataSize,
		},
		Meta: Meta{
			SongName: songName,
			Author:   author,
			Comment:  comment,
		},
		Digidrums: digidrums,
		Frames:    frames,
		Warnings:  warnings,
	}, nil
}

func readCString(data []byte, off int) (string, int, error) {
	end := off
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end >= len(data) {
		return "", 0, chiperr.New(chiperr.MalformedFile, "ym.Parse: metadata string")
	}
	return strings.TrimRight(string(data[off:end]), "\x00"), end + 1, nil
}
