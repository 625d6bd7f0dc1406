package replayer

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/naorunaoru/ym2149-wa/internal/audiosink"
	"github.com/naorunaoru/ym2149-wa/internal/bus"
	"github.com/naorunaoru/ym2149-wa/internal/effect"
	"github.com/naorunaoru/ym2149-wa/internal/psg"
	"github.com/naorunaoru/ym2149-wa/internal/timing"
)

// State is the Player's transport state, observed by frontends polling
// Status.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// digidrumSource is implemented by replayers whose file carries sampled
// digidrum data (YM only); PT3 files never produce DigiDrum effects.
type digidrumSource interface {
	Digidrum(index int) []byte
}

func (r *ymReplayer) Digidrum(index int) []byte {
	if index < 0 || index >= len(r.file.Digidrums) {
		return nil
	}
	return r.file.Digidrums[index]
}

// ym2149MasterClockHz and pt3MasterClockHz are the two reference clocks
// the supported file formats were authored against: the Atari ST/YM2149
// convention and the ZX Spectrum AY/PT3 convention respectively.
const (
	ym2149MasterClockHz = 2000000
	pt3MasterClockHz    = 1773400
)

// sinkBufferFrames is how many stereo samples the audio actor renders per
// callback.
const sinkBufferFrames = 882

// Status is a snapshot of playback position and state, safe to read
// without blocking either actor goroutine.
type Status struct {
	CurrentFrame int
	TotalFrames  int
	LoopFrame    int
	HasLooped    bool
	State        State
}

// Player owns the PSG chip(s), the chosen Replayer, a frame limiter, and an
// audio sink, and is the single object frontends (internal/uiterm,
// cmd/chiptune) drive. Internally it runs two actors while playing: a
// driver actor that decodes chiptune frames at the file's own frame rate
// and posts register writes onto a bus.Bus, and an audio actor that drains
// the bus immediately before rendering and queuing each buffer. This mirrors
// the real hardware split between a CPU issuing register writes and a PSG
// free-running off its own clock.
type Player struct {
	mu sync.Mutex

	chip       *psg.Chip
	secondChip *psg.Chip
	rep        Replayer
	limiter    timing.Limiter
	audioPace  timing.Limiter
	sink       audiosink.Sink
	bus        *bus.Bus

	lastEffects    [3]effect.Effect
	lastSyncBuzzer effect.Effect
	lastFrame      RegisterFrame
	state          State
	format         FormatInfo
	masterClock    int
	loopEnabled    bool

	masterVolume float32
	pan          [3]float32

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewPlayer builds an idle facade. Load must be called before Play.
// Looping is enabled by default, matching a tracker/register-dump file's
// own loop point; call SetLoopEnabled(false) for a play-once transport.
func NewPlayer(sink audiosink.Sink, limiter timing.Limiter) *Player {
	return &Player{
		sink:         sink,
		limiter:      limiter,
		bus:          bus.New(256),
		masterVolume: 1,
		pan:          [3]float32{-0.6, 0, 0.6},
		loopEnabled:  true,
	}
}

// Load detects the file's format from its magic and prepares a Replayer
// and PSG chip(s) for it.
func (p *Player) Load(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var rep Replayer
	var masterClock int
	switch {
	case looksLikeYM(data):
		rep = newYMReplayer()
		masterClock = ym2149MasterClockHz
	default:
		rep = newPT3Replayer()
		masterClock = pt3MasterClockHz
	}

	if err := rep.Load(data); err != nil {
		return err
	}
	rep.SetLoopEnabled(p.loopEnabled)

	sampleRate := p.sink.SampleRate()
	if sampleRate == 0 {
		sampleRate = 44100
	}

	p.rep = rep
	p.format = rep.SampleFormat()
	p.masterClock = masterClock
	p.chip = psg.New(masterClock, sampleRate)
	p.secondChip = nil
	if p.format.IsTurboSound {
		p.secondChip = psg.New(masterClock, sampleRate)
	}
	for ch := 0; ch < 3; ch++ {
		p.chip.SetPan(ch, p.pan[ch])
		if p.secondChip != nil {
			p.secondChip.SetPan(ch, p.pan[ch])
		}
	}
	p.lastEffects = [3]effect.Effect{}
	p.lastSyncBuzzer = effect.Effect{}
	p.state = StateStopped
	p.limiter.Reset()
	audioRateHz := float64(sampleRate) / float64(sinkBufferFrames)
	p.audioPace = timing.NewAdaptiveLimiter(audioRateHz)

	slog.Info("replayer: loaded file", "frameRate", p.format.FrameRateHz, "turboSound", p.format.IsTurboSound)
	return nil
}

func looksLikeYM(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return strings.HasPrefix(string(data[:4]), "YM")
}

// Play starts (or resumes) the driver and audio actors. It is a no-op if
// already playing.
func (p *Player) Play() {
	p.mu.Lock()
	if p.state == StatePlaying || p.rep == nil {
		p.mu.Unlock()
		return
	}
	p.state = StatePlaying
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh := p.stopCh
	doneCh := p.doneCh
	p.bus.Start()
	p.limiter.Reset()
	p.audioPace.Reset()
	p.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); p.driverLoop(stopCh) }()
	go func() { defer wg.Done(); p.audioLoop(stopCh) }()
	go func() { wg.Wait(); close(doneCh) }()
}

// Pause halts both actors without resetting position.
func (p *Player) Pause() {
	p.mu.Lock()
	if p.state != StatePlaying {
		p.mu.Unlock()
		return
	}
	stopCh := p.stopCh
	doneCh := p.doneCh
	p.mu.Unlock()

	close(stopCh)
	<-doneCh

	p.mu.Lock()
	p.state = StatePaused
	p.bus.Stop()
	p.mu.Unlock()
}

// Stop halts both actors and silences the chip(s).
func (p *Player) Stop() {
	p.mu.Lock()
	wasPlaying := p.state == StatePlaying
	stopCh := p.stopCh
	doneCh := p.doneCh
	p.mu.Unlock()

	if wasPlaying {
		close(stopCh)
		<-doneCh
	}

	p.mu.Lock()
	p.state = StateStopped
	p.bus.Stop()
	if p.chip != nil {
		p.chip.Reset()
	}
	if p.secondChip != nil {
		p.secondChip.Reset()
	}
	p.mu.Unlock()
}

// Seek moves playback to an absolute frame index.
func (p *Player) Seek(frame int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rep == nil {
		return fmt.Errorf("replayer: no file loaded")
	}
	return p.rep.Seek(frame)
}

// SeekTime moves playback to the frame nearest seconds into the file.
func (p *Player) SeekTime(seconds float64) error {
	p.mu.Lock()
	rate := p.format.FrameRateHz
	p.mu.Unlock()
	if rate <= 0 {
		rate = 50
	}
	return p.Seek(int(seconds * float64(rate)))
}

// SetLoopEnabled controls whether the loaded file wraps at its loop point
// (the default) or stops playback there. It takes effect immediately if a
// file is already loaded, and is remembered for any file Load brings in
// afterward.
func (p *Player) SetLoopEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loopEnabled = enabled
	if p.rep != nil {
		p.rep.SetLoopEnabled(enabled)
	}
}

// SetMasterVolume scales every channel's output, clamped to [0,1].
func (p *Player) SetMasterVolume(v float32) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.mu.Lock()
	p.masterVolume = v
	p.mu.Unlock()
}

// SetChannelPan sets one PSG voice's stereo position, clamped to [-1,+1].
func (p *Player) SetChannelPan(ch int, pan float32) {
	if ch < 0 || ch > 2 {
		return
	}
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}

	p.mu.Lock()
	p.pan[ch] = pan
	if p.chip != nil {
		p.chip.SetPan(ch, pan)
	}
	if p.secondChip != nil {
		p.secondChip.SetPan(ch, pan)
	}
	p.mu.Unlock()
}

// ChannelLevels reports the primary chip's last-rendered per-voice peak
// magnitude, for level-meter frontends. Returns zero values before Load.
func (p *Player) ChannelLevels() [3]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chip == nil {
		return [3]float32{}
	}
	return p.chip.ChannelLevels()
}

// LastFrame returns the most recent register frame decoded by the driver
// actor and the PSG master clock it was generated against, for diagnostic
// tools such as internal/debug.Extract.
func (p *Player) LastFrame() (frame RegisterFrame, masterClockHz int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastFrame, p.masterClock
}

// Status reports the current playback position and state.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rep == nil {
		return Status{State: p.state}
	}
	return Status{
		CurrentFrame: p.rep.CurrentFrame(),
		TotalFrames:  p.format.TotalFrames,
		LoopFrame:    p.format.LoopFrame,
		HasLooped:    p.rep.HasLooped(),
		State:        p.state,
	}
}

// driverLoop is the driver actor: one Replayer tick per iteration, paced
// by the limiter at the file's own frame rate, translating the decoded
// frame into register-write and effect-transition Commands posted to the
// bus rather than applied directly.
func (p *Player) driverLoop(stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		p.mu.Lock()
		frame, effects, syncBuzzer, ok := p.rep.NextFrame()
		if !ok {
			p.state = StateStopped
			p.mu.Unlock()
			return
		}

		p.lastFrame = frame
		chip := p.chip
		p.bus.Push(func() { applyFrame(chip, frame) })
		p.postEffectCommands(chip, effects, syncBuzzer)

		if dual, isDual := p.rep.(DualChipReplayer); isDual && p.secondChip != nil {
			if frame2, ok2 := dual.NextFrameSecondChip(); ok2 {
				secondChip := p.secondChip
				p.bus.Push(func() { applyFrame(secondChip, frame2) })
			}
		}
		p.mu.Unlock()

		p.limiter.WaitForNextFrame()
	}
}

// audioLoop is the audio actor: it drains every command the driver has
// posted since the last buffer, then renders and queues exactly one
// buffer's worth of samples. It runs independently of the driver's pacing,
// so a stalled driver simply leaves the chip generating from its
// last-written register state, the same way real hardware would.
func (p *Player) audioLoop(stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		p.bus.Drain()

		p.mu.Lock()
		left, right := p.chip.GenerateStereo(sinkBufferFrames)
		if p.secondChip != nil {
			left2, right2 := p.secondChip.GenerateStereo(sinkBufferFrames)
			mixInto(left, right, left2, right2)
		}
		scaleBuffers(left, right, p.masterVolume)
		sink := p.sink
		p.mu.Unlock()

		if err := sink.Write(left, right); err != nil {
			slog.Error("replayer: audio sink write failed", "error", err)
		}

		p.audioPace.WaitForNextFrame()
	}
}

func scaleBuffers(left, right []float32, volume float32) {
	for i := range left {
		left[i] *= volume
		right[i] *= volume
	}
}

func mixInto(left, right, left2, right2 []float32) {
	for i := range left {
		left[i] = (left[i] + left2[i]) * 0.5
		right[i] = (right[i] + right2[i]) * 0.5
	}
}

func applyFrame(chip *psg.Chip, frame RegisterFrame) {
	chip.WriteRegister(psg.RToneALo, uint8(frame.Tone[0]))
	chip.WriteRegister(psg.RToneAHi, uint8(frame.Tone[0]>>8))
	chip.WriteRegister(psg.RToneBLo, uint8(frame.Tone[1]))
	chip.WriteRegister(psg.RToneBHi, uint8(frame.Tone[1]>>8))
	chip.WriteRegister(psg.RToneCLo, uint8(frame.Tone[2]))
	chip.WriteRegister(psg.RToneCHi, uint8(frame.Tone[2]>>8))
	chip.WriteRegister(psg.RNoise, frame.Noise)
	chip.WriteRegister(psg.RMixer, frame.Mixer)
	chip.WriteRegister(psg.RVolA, frame.Volume[0])
	chip.WriteRegister(psg.RVolB, frame.Volume[1])
	chip.WriteRegister(psg.RVolC, frame.Volume[2])
	chip.WriteRegister(psg.REnvLo, uint8(frame.EnvPeriod))
	chip.WriteRegister(psg.REnvHi, uint8(frame.EnvPeriod>>8))
	if frame.EnvShape != NoEnvelopeShape {
		chip.WriteRegister(psg.REnvShape, uint8(frame.EnvShape))
	}
}

// postEffectCommands posts the Commands that start or stop each voice's
// SID/DigiDrum gate and the chip-global Sync Buzzer as effects begin or
// end, comparing against the previous tick's decoded state per §4.8
// point 1. syncBuzzer arrives out of band from effects (see NextFrame's
// doc comment) so a Sync Buzzer slot can never alias a real voice-0 Sid/
// SinusSid/DigiDrum effect signaled in the file's other slot that frame.
// The comparison itself runs on the driver actor (it only reads
// p.lastEffects/p.lastSyncBuzzer, which only the driver touches); the
// resulting chip calls are deferred onto the bus so they land in the same
// order, relative to this frame's register writes, that the audio actor
// will apply them.
func (p *Player) postEffectCommands(chip *psg.Chip, effects [3]effect.Effect, syncBuzzer effect.Effect) {
	for ch := 0; ch < 3; ch++ {
		ch := ch
		cur := effects[ch]
		prev := p.lastEffects[ch]
		if cur.SameAs(prev) {
			continue
		}

		if prev.Kind == effect.Sid || prev.Kind == effect.SinusSid {
			p.bus.Push(func() { chip.StopSid(ch) })
		} else if prev.Kind == effect.DigiDrum {
			p.bus.Push(func() { chip.StopDigidrum(ch) })
		}

		switch cur.Kind {
		case effect.Sid:
			freq, vol := cur.Freq, cur.Volume
			p.bus.Push(func() { chip.StartSid(ch, freq, vol, false) })
		case effect.SinusSid:
			freq, vol := cur.Freq, cur.Volume
			p.bus.Push(func() { chip.StartSid(ch, freq, vol, true) })
		case effect.DigiDrum:
			if src, ok := p.rep.(digidrumSource); ok {
				data := src.Digidrum(cur.DrumIndex)
				freq := cur.Freq
				p.bus.Push(func() { chip.StartDigidrum(ch, data, freq) })
			}
		}
	}

	if !syncBuzzer.IsNone() {
		if !syncBuzzer.SameAs(p.lastSyncBuzzer) {
			freq, shape := syncBuzzer.Freq, syncBuzzer.EnvShape
			p.bus.Push(func() { chip.StartSyncBuzzer(freq, shape) })
		}
	} else if !p.lastSyncBuzzer.IsNone() {
		p.bus.Push(func() { chip.StopSyncBuzzer() })
	}

	p.lastEffects = effects
	p.lastSyncBuzzer = syncBuzzer
}
