package psg

// envelopeGenerator drives the chip's single hardware envelope, shared by
// any channel with its "use envelope" volume bit set.
type envelopeGenerator struct {
	period   uint16 // 16-bit, clamped >= 1
	counter  uint16
	position int16 // -64..63
	shape    uint8 // 4-bit
}

func (e *envelopeGenerator) reset() {
	e.period = 1
	e.counter = 0
	e.position = -64
	e.shape = 0
}

func (e *envelopeGenerator) setPeriod(period uint16) {
	if period == 0 {
		period = 1
	}
	e.period = period
}

// setShape writes a new shape register value, which retriggers the
// envelope from the attack-ramp start. A write of the same shape value
// still retriggers — the hardware always resets position on any R13 write.
func (e *envelopeGenerator) setShape(shape uint8) {
	e.shape = shape & 0xF
	e.trigger()
}

// trigger resets the envelope back to the start of its attack ramp, without
// changing the configured shape. Used both by R13 writes and by the Sync
// Buzzer effect.
func (e *envelopeGenerator) trigger() {
	e.position = -64
	e.counter = 0
}

// tick advances the envelope by one internal clock tick.
func (e *envelopeGenerator) tick() {
	e.counter++
	if e.counter < e.period {
		return
	}
	e.counter = 0
	e.position++
	if e.position > 63 {
		e.position = (e.position - 64) % 64
	}
}

// level returns the current output level in [0,31].
func (e *envelopeGenerator) level() uint8 {
	return envData[e.shape][e.position+64]
}
