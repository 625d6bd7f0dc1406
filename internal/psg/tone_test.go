package psg

import "testing"

func TestToneGeneratorTogglesAtPeriod(t *testing.T) {
	var tg toneGenerator
	tg.reset()
	tg.setPeriod(4)

	var outputs []uint8
	for i := 0; i < 8; i++ {
		outputs = append(outputs, tg.tick())
	}

	// Output starts at 0 and flips every 4th tick.
	want := []uint8{0, 0, 0, 1, 1, 1, 1, 0}
	for i, w := range want {
		if outputs[i] != w {
			t.Errorf("tick %d = %d; want %d (full: %v)", i, outputs[i], w, outputs)
		}
	}
}

func TestToneGeneratorZeroPeriodClampedToOne(t *testing.T) {
	var tg toneGenerator
	tg.reset()
	tg.setPeriod(0)

	if tg.period != 1 {
		t.Errorf("period = %d; want 1", tg.period)
	}
}

func TestToneGeneratorPeriodMasksTo12Bits(t *testing.T) {
	var tg toneGenerator
	tg.reset()
	tg.setPeriod(0xFFFF)

	if tg.period != 0x0FFF {
		t.Errorf("period = %#x; want %#x", tg.period, 0x0FFF)
	}
}
