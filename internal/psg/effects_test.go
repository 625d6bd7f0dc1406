package psg

import "testing"

func TestDigidrumPlaysSampleToCompletion(t *testing.T) {
	var d digidrum
	data := []uint8{0, 64, 128, 192, 255}
	d.start(data, 1000, 1000) // step == 1<<15, one sample consumed per call

	var got []uint8
	for d.active {
		s := d.sample()
		got = append(got, uint8(s*255/0.85+0.5))
	}

	if len(got) != len(data) {
		t.Fatalf("played %d samples; want %d", len(got), len(data))
	}
}

func TestDigidrumEmptyDataNeverActivates(t *testing.T) {
	var d digidrum
	d.start(nil, 1000, 44100)
	if d.active {
		t.Errorf("digidrum activated with empty data")
	}
}

func TestSidVoiceSquareGatesFullAndZero(t *testing.T) {
	var s sidVoice
	s.start(100, 44100, 15, false)

	seenHigh, seenLow := false, false
	for i := 0; i < 2000; i++ {
		level := s.gate()
		if level == 15 {
			seenHigh = true
		} else if level == 0 {
			seenLow = true
		} else {
			t.Fatalf("square sid voice produced intermediate level %d", level)
		}
	}
	if !seenHigh || !seenLow {
		t.Errorf("square sid voice did not alternate: high=%v low=%v", seenHigh, seenLow)
	}
}

func TestSidVoiceSinusStaysInRange(t *testing.T) {
	var s sidVoice
	s.start(100, 44100, 15, true)

	for i := 0; i < 2000; i++ {
		level := s.gate()
		if level > 15 {
			t.Fatalf("sinus sid voice level %d out of range", level)
		}
	}
}

func TestSyncBuzzerAdvanceFiresOnMSBTransition(t *testing.T) {
	var b syncBuzzer
	b.start(100, 44100)

	fired := 0
	for i := 0; i < 44100; i++ {
		if b.advance() {
			fired++
		}
	}

	if fired == 0 {
		t.Errorf("sync buzzer never fired over one second at 100Hz")
	}
}

func TestSyncBuzzerInactiveNeverAdvances(t *testing.T) {
	var b syncBuzzer
	if b.advance() {
		t.Errorf("inactive sync buzzer reported a transition")
	}
}

func TestCapFrequencyLimitsToQuarterSampleRate(t *testing.T) {
	got := capFrequency(100000, 44100)
	want := 44100.0 / 4
	if got != want {
		t.Errorf("capFrequency = %v; want %v", got, want)
	}
}
