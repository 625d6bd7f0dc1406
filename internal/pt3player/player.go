package pt3player

import (
	"github.com/naorunaoru/ym2149-wa/internal/pt3"
)

// Player walks a parsed PT3 module tick by tick, turning its bytecode
// into PSG register values. It owns no PSG state itself — internal/replayer
// maps its RegisterFrame output onto a psg.Chip.
type Player struct {
	mod *pt3.Module

	channels        [3]channelState
	currentPosition int
	delay           uint8
	delayCounter    int
	hasLooped       bool
	loop            bool // whether reaching the loop position wraps or ends playback
	finished        bool

	noiseBase int
	envBase   uint16

	envSlideStep    int
	envSlideDelay   int
	envSlideCounter int
	curEnvSlide     int

	pendingEnvelopeShape uint8 // 0xFF sentinel: no shape change pending
}

// New builds a Player positioned at the start of the module.
func New(mod *pt3.Module) *Player {
	p := &Player{
		mod:                  mod,
		delay:                mod.Delay,
		delayCounter:         1,
		pendingEnvelopeShape: 0xFF,
		loop:                 true,
	}
	return p
}

// HasLooped reports whether playback has wrapped around to the loop
// position at least once.
func (p *Player) HasLooped() bool {
	return p.hasLooped
}

// SetLoop controls whether reaching the end of the position list wraps
// back to the module's loop position (the default) or ends playback.
func (p *Player) SetLoop(enabled bool) {
	p.loop = enabled
}

// Finished reports whether playback has reached the end of the position
// list with looping disabled. Once true, Tick no longer advances the
// song position; it keeps returning the final row's register state.
func (p *Player) Finished() bool {
	return p.finished
}

// CurrentPosition returns the module's current position-list index.
func (p *Player) CurrentPosition() int {
	return p.currentPosition
}

func (p *Player) currentPattern() *pt3.Pattern {
	return p.mod.PatternAt(p.mod.Positions[p.currentPosition])
}

// Tick advances playback by one frame and returns the resulting register
// values. Once Finished (loop disabled and the position list exhausted),
// it stops advancing the song position and keeps returning the final
// row's register state.
func (p *Player) Tick() RegisterFrame {
	if !p.finished {
		p.delayCounter--
		if p.delayCounter <= 0 {
			p.processRow()
			p.delayCounter = maxInt(1, int(p.delay))
		}
	}
	return p.generateRegisters()
}

func (p *Player) processRow() {
	readyToAdvance := false
	for ch := range p.channels {
		p.channels[ch].noteSkipCounter--
	}
	for ch := range p.channels {
		c := &p.channels[ch]
		if c.noteSkipCounter > 0 {
			continue
		}
		stream := p.currentPattern().Channels[ch]
		if c.cursor >= len(stream) || stream[c.cursor] == 0x00 {
			readyToAdvance = true
		}
	}

	if readyToAdvance {
		p.advancePosition()
		for ch := range p.channels {
			p.channels[ch].noteSkipCounter = 0
		}
	}

	for ch := range p.channels {
		if p.channels[ch].noteSkipCounter <= 0 {
			p.runPatternInterpreter(ch)
		}
	}
}

func (p *Player) advancePosition() {
	p.currentPosition++
	if p.currentPosition >= len(p.mod.Positions) {
		if !p.loop {
			p.currentPosition = len(p.mod.Positions) - 1
			p.finished = true
			return
		}
		p.currentPosition = p.mod.LoopPosition
		if p.currentPosition >= len(p.mod.Positions) {
			p.currentPosition = 0
		}
		p.hasLooped = true
	}
	for ch := range p.channels {
		p.channels[ch].cursor = 0
		p.channels[ch].finished = false
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
