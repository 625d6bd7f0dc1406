package pt3player

import "github.com/naorunaoru/ym2149-wa/internal/pt3"

var zeroFrame pt3.SampleFrame

// frameAt returns the sample's frame at position, or a silent zero frame
// for an empty or out-of-range sample (PT3 samples referenced by an
// unused slot pointer have no frames).
func frameAt(sample *pt3.Sample, position int) pt3.SampleFrame {
	if len(sample.Frames) == 0 {
		return zeroFrame
	}
	if position < 0 || position >= len(sample.Frames) {
		position = 0
	}
	return sample.Frames[position]
}

// ornamentOffsetAt returns the ornament's note offset at position, or 0
// for an empty or out-of-range ornament.
func ornamentOffsetAt(ornament *pt3.Ornament, position int) int {
	if len(ornament.Offsets) == 0 {
		return 0
	}
	if position < 0 || position >= len(ornament.Offsets) {
		position = 0
	}
	return int(ornament.Offsets[position])
}
