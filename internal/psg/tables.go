package psg

import "math"

// volumeTable is the chip's logarithmic 32-level DAC. Level 0 is silence,
// level 31 is full scale; each entry is 1.5 dB below the next one up
// (3 dB per 4-bit volume register step).
// A 4-bit channel volume register indexes it as level<<1 (even entries
// only); the 32-level envelope generator uses the full range.
var volumeTable [32]float32

func init() {
	const stepDB = 1.5
	for i := range volumeTable {
		if i == 0 {
			volumeTable[i] = 0
			continue
		}
		db := -stepDB * float64(31-i)
		volumeTable[i] = float32(math.Pow(10, db/20))
	}
}

// envShapeRows is the number of envelope table rows: one per value of the
// 4-bit shape register. Each row is generated from the register's ATT bit
// and its membership in continuousShapes, so several rows come out
// identical.
const envShapeRows = 16
const envShapeSteps = 128

// envData[shape] holds one waveform per possible 4-bit shape register value,
// indexed by position+64 (position runs -64..63). Values are levels in
// [0,31], suitable for direct indexing into volumeTable.
//
// Register bits, named after the AY-3-8910 datasheet convention (bit3=CONT,
// bit2=ATT, bit1=ALT, bit0=HOLD) purely to keep the generation code
// self-documenting — this generator's actual waveform shapes are the ones
// specified for this emulator (see DESIGN.md), not a literal reproduction of
// real chip timing for every register combination.
var envData [envShapeRows][envShapeSteps]uint8

// continuousShapes cycles through the 64-step sustain region forever rather
// than holding at a fixed level once the attack ramp completes.
var continuousShapes = map[int]bool{2: true, 4: true, 6: true, 8: true, 10: true, 14: true}

func init() {
	for shape := 0; shape < envShapeRows; shape++ {
		attackUp := (shape>>2)&1 == 1 // ATT bit

		// Attack ramp: position -64..-1, table index 0..63.
		for i := 0; i < 64; i++ {
			var level int
			if attackUp {
				level = i * 31 / 63
			} else {
				level = 31 - i*31/63
			}
			envData[shape][i] = uint8(level)
		}

		// Sustain region: position 0..63, table index 64..127.
		if continuousShapes[shape] {
			// Symmetric triangle touching both 0 and 31 every cycle.
			for j := 0; j < 64; j++ {
				var level int
				if j < 32 {
					level = j * 31 / 31
				} else {
					level = 31 - (j-32)*31/31
				}
				envData[shape][64+j] = uint8(level)
			}
		} else {
			hold := uint8(0)
			if attackUp {
				hold = 31
			}
			for j := 0; j < 64; j++ {
				envData[shape][64+j] = hold
			}
		}
	}
}

// shapeIsContinuous reports whether the given 4-bit envelope shape loops its
// sustain region (true) or holds at a fixed level after the attack ramp
// (false).
func shapeIsContinuous(shape uint8) bool {
	return continuousShapes[int(shape&0xF)]
}

// equalPowerPan returns the left/right gain pair for a pan value in [-1,1],
// using a quarter-cosine law so a centered channel loses no perceived
// loudness relative to a hard-panned one.
func equalPowerPan(pan float32) (left, right float32) {
	// Map [-1,1] to [0,1] then to the quarter turn [0, pi/2].
	theta := float64((pan + 1) / 2) * (math.Pi / 2)
	return float32(math.Cos(theta)), float32(math.Sin(theta))
}
