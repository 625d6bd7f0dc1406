package pt3

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/naorunaoru/ym2149-wa/internal/chiperr"
)

// versionSignatures are the longer header strings carrying a version
// digit, used for version detection.
var versionSignatures = []string{"ProTracker ", "Vortex Tracker "}

// turboSoundSignatures are the short partial signatures scanned for when
// looking for a second, concatenated PT3 module.
var turboSoundSignatures = []string{"ProTr", "Vortex"}

// Parse decodes a PT3 module from raw file bytes, following the layout
// walked structurally the way musclesoft-nin64k/tools/forge/parse.Parse
// walks its own flat byte buffer: a sequence of offset-tracked field reads
// over the header, followed by bounds-checked sub-parsers for the sample
// bank, ornament bank, and pattern table.
func Parse(data []byte) (*Module, error) {
	mod, err := parseModule(data)
	if err != nil {
		return nil, err
	}

	if off, ok := detectTurboSound(data); ok {
		second, err := parseModule(data[off:])
		if err != nil {
			return nil, chiperr.Wrap(chiperr.MalformedFile, "pt3.Parse: turbosound", err)
		}
		mod.TurboSound = second
	}

	return mod, nil
}

func parseModule(data []byte) (*Module, error) {
	if len(data) < minFileSize {
		return nil, chiperr.New(chiperr.MalformedFile, "pt3.Parse: header")
	}

	mod := &Module{
		Version:      detectVersion(data[:headerLen]),
		ToneTableID:  int(data[toneTableIDOffset] & 0x03),
		Delay:        data[delayOffset],
		LoopPosition: int(data[loopPositionOffset]),
	}
	if mod.Delay == 0 {
		mod.Delay = 1
	}

	positionCount := int(data[positionCountOff])
	patternTablePtr := binary.LittleEndian.Uint16(data[patternTablePtrOff:])

	samplePointers := make([]uint16, sampleCount)
	for i := 0; i < sampleCount; i++ {
		samplePointers[i] = binary.LittleEndian.Uint16(data[samplePointersOff+i*2:])
	}
	ornamentPointers := make([]uint16, ornamentCount)
	for i := 0; i < ornamentCount; i++ {
		ornamentPointers[i] = binary.LittleEndian.Uint16(data[ornamentPointersOff+i*2:])
	}

	for i := 0; i < sampleCount; i++ {
		s, err := parseSample(data, samplePointers[i])
		if err != nil {
			return nil, err
		}
		mod.Samples[i] = s
	}
	for i := 0; i < ornamentCount; i++ {
		o, err := parseOrnament(data, ornamentPointers[i])
		if err != nil {
			return nil, err
		}
		mod.Ornaments[i] = o
	}

	positions, err := readPositionList(data, positionCount)
	if err != nil {
		return nil, err
	}
	mod.Positions = positions

	mod.patternIndexByPosition = make(map[int]int)
	for _, pos := range positions {
		if _, ok := mod.patternIndexByPosition[pos]; ok {
			continue
		}
		pat, err := parsePattern(data, patternTablePtr, pos)
		if err != nil {
			return nil, err
		}
		mod.patternIndexByPosition[pos] = len(mod.Patterns)
		mod.Patterns = append(mod.Patterns, pat)
	}

	return mod, nil
}

// detectVersion looks for "ProTracker " or "Vortex Tracker " in the ASCII
// header and reads the version digit that follows (the minor digit when a
// "3.x" form is present, e.g. the 6 of "ProTracker 3.6"), clamped to the
// 3-6 range PT3 files use in practice. Defaults to 6 when no recognizable
// signature is present.
func detectVersion(header []byte) int {
	text := string(header)
	for _, sig := range versionSignatures {
		idx := strings.Index(text, sig)
		if idx < 0 {
			continue
		}
		digitPos := idx + len(sig)
		if digitPos+2 < len(text) && text[digitPos+1] == '.' {
			digitPos += 2
		}
		if digitPos >= len(text) {
			continue
		}
		if v, err := strconv.Atoi(string(text[digitPos])); err == nil {
			if v < 3 {
				return 3
			}
			if v > 6 {
				return 6
			}
			return v
		}
	}
	return 6
}

func readPositionList(data []byte, count int) ([]int, error) {
	if count <= 0 {
		return nil, chiperr.New(chiperr.MalformedFile, "pt3.Parse: empty position list")
	}
	end := positionListOffset + count
	if end > len(data) {
		return nil, chiperr.New(chiperr.MalformedFile, "pt3.Parse: position list")
	}
	positions := make([]int, 0, count)
	for i := 0; i < count; i++ {
		b := data[positionListOffset+i]
		if b == 0xFF {
			break
		}
		positions = append(positions, int(b))
	}
	if len(positions) == 0 {
		return nil, chiperr.New(chiperr.MalformedFile, "pt3.Parse: position list")
	}
	return positions, nil
}

func parseSample(data []byte, ptr uint16) (Sample, error) {
	if ptr == 0 {
		return Sample{}, nil
	}
	idx := int(ptr)
	if idx+2 > len(data) {
		return Sample{}, chiperr.New(chiperr.MalformedFile, "pt3.Parse: sample pointer")
	}
	loop := data[idx]
	length := data[idx+1]
	frameBytes := int(length) * 4
	if idx+2+frameBytes > len(data) {
		return Sample{}, chiperr.New(chiperr.MalformedFile, "pt3.Parse: sample frames")
	}

	frames := make([]SampleFrame, length)
	for i := 0; i < int(length); i++ {
		frames[i] = decodeSampleFrame(data[idx+2+i*4 : idx+2+i*4+4])
	}
	return Sample{Loop: loop, Length: length, Frames: frames}, nil
}

// decodeSampleFrame unpacks a 4-byte envelope frame (see the bit layout
// documented on SampleFrame in types.go).
func decodeSampleFrame(b []byte) SampleFrame {
	return SampleFrame{
		Amplitude:             b[0] & 0x0F,
		AccumulateTone:        b[0]&0x10 != 0,
		AccumulateNoise:       b[0]&0x20 != 0,
		AmplitudeSlideEnabled: b[0]&0x40 != 0,
		amplitudeSlideUp:      b[0]&0x80 != 0,
		ToneOffset:            int16(uint16(b[1]) | uint16(b[2])<<8),
		nField:                b[3] & 0x1F,
		ToneMask:              b[3]&0x20 != 0,
		NoiseMask:             b[3]&0x40 != 0,
		EnvelopeMask:          b[3]&0x80 != 0,
	}
}

func parseOrnament(data []byte, ptr uint16) (Ornament, error) {
	if ptr == 0 {
		return Ornament{}, nil
	}
	idx := int(ptr)
	if idx+2 > len(data) {
		return Ornament{}, chiperr.New(chiperr.MalformedFile, "pt3.Parse: ornament pointer")
	}
	loop := data[idx]
	length := data[idx+1]
	if idx+2+int(length) > len(data) {
		return Ornament{}, chiperr.New(chiperr.MalformedFile, "pt3.Parse: ornament offsets")
	}
	if loop > length {
		return Ornament{}, chiperr.New(chiperr.MalformedFile, "pt3.Parse: ornament loop beyond length")
	}

	offsets := make([]int8, length)
	for i := 0; i < int(length); i++ {
		offsets[i] = int8(data[idx+2+i])
	}
	return Ornament{Loop: loop, Length: length, Offsets: offsets}, nil
}

func parsePattern(data []byte, patternTablePtr uint16, position int) (Pattern, error) {
	slot := int(patternTablePtr) + position*2
	if slot < 0 || slot+6 > len(data) {
		return Pattern{}, chiperr.New(chiperr.MalformedFile, "pt3.Parse: pattern table slot")
	}

	var pat Pattern
	for ch := 0; ch < 3; ch++ {
		ptr := binary.LittleEndian.Uint16(data[slot+ch*2:])
		stream, err := extractChannelStream(data, ptr)
		if err != nil {
			return Pattern{}, err
		}
		pat.Channels[ch] = stream
	}
	return pat, nil
}

func extractChannelStream(data []byte, ptr uint16) ([]byte, error) {
	idx := int(ptr)
	if idx < 0 || idx >= len(data) {
		return nil, chiperr.New(chiperr.MalformedFile, "pt3.Parse: channel pointer")
	}
	end := idx
	for end < len(data) && data[end] != 0 && end-idx < maxPatternStreamBytes {
		end++
	}
	if end-idx >= maxPatternStreamBytes {
		return nil, chiperr.New(chiperr.TooLarge, "pt3.Parse: channel stream exceeds safety cap")
	}
	return data[idx:end], nil
}

// detectTurboSound scans for a second module header starting no earlier
// than turboSoundScanStart, returning its byte offset.
func detectTurboSound(data []byte) (int, bool) {
	if len(data) <= turboSoundScanStart {
		return 0, false
	}
	region := string(data[turboSoundScanStart:])
	best := -1
	for _, sig := range turboSoundSignatures {
		if idx := strings.Index(region, sig); idx >= 0 {
			abs := turboSoundScanStart + idx
			if best == -1 || abs < best {
				best = abs
			}
		}
	}
	if best == -1 || len(data)-best < minFileSize {
		return 0, false
	}
	return best, true
}
