package pt3player

import "math"

// noteCount is the span of the tracker's note/tone table: 8 octaves of 12
// semitones, matching the `clamp(note, 0, 95)` invariant in §4.7.
const noteCount = 96

// referenceClockHz is the AY/YM master clock the tone table is generated
// against. Real tracker engines hardcode a table for their target
// machine's clock; this one is generated from equal temperament so any
// note maps to a musically correct period regardless of target hardware
// (bit-exact reproduction of a specific original lookup table is a
// non-goal).
const referenceClockHz = 1773400

// middleCHz is note 0's frequency (C-0 in scientific pitch notation).
const middleCHz = 16.3516

// toneTable maps a clamped note index to a 12-bit AY tone period.
var toneTable [noteCount]uint16

func init() {
	for i := 0; i < noteCount; i++ {
		freq := middleCHz * math.Pow(2, float64(i)/12)
		period := math.Round(referenceClockHz / (16 * freq))
		if period > 0xFFF {
			period = 0xFFF
		}
		toneTable[i] = uint16(period)
	}

	for v := 0; v < 16; v++ {
		for a := 0; a < 16; a++ {
			channelVolumeTable[v][a] = uint8(math.Round(float64(v*a) / 15))
		}
	}
}

// channelVolumeTable scales a sample's per-tick amplitude (0-15) by a
// channel's persistent volume (0-15, set via the 0xC1-0xCF effect) into
// the final 0-15 value written to the PSG's volume register. Values
// generated rather than transcribed from a specific reference table
// (bit-exact reproduction of a specific original lookup table is a
// non-goal); this preserves the monotonic-in-both-axes shape any such
// table has.
var channelVolumeTable [16][16]uint8
