package replayer

import (
	"fmt"

	"github.com/naorunaoru/ym2149-wa/internal/effect"
	"github.com/naorunaoru/ym2149-wa/internal/pt3"
	"github.com/naorunaoru/ym2149-wa/internal/pt3player"
)

// pt3PlayerFrameRateHz is PT3's engine tick rate: one interpreter pass per
// 1/50s video frame, the rate every ZX Spectrum PT3 player is driven at
// regardless of song tempo (tempo only changes how many ticks a row holds).
const pt3PlayerFrameRateHz = 50

// pt3Replayer drives one or two psg.Chip instances (TurboSound) from a
// parsed PT3 module. Unlike YM files, PT3 carries no per-frame effect
// slots and has no native seek; Seek re-simulates from the start. With
// looping enabled (the default) it loops indefinitely; with looping
// disabled, NextFrame returns ok=false once the position list is
// exhausted rather than wrapping to the loop position.
type pt3Replayer struct {
	mod          *pt3.Module
	player       *pt3player.Player
	secondPlayer *pt3player.Player
	frameIndex   int
	loopEnabled  bool
}

func newPT3Replayer() *pt3Replayer {
	return &pt3Replayer{loopEnabled: true}
}

func (r *pt3Replayer) Load(data []byte) error {
	mod, err := pt3.Parse(data)
	if err != nil {
		return fmt.Errorf("replayer: %w", err)
	}
	r.mod = mod
	r.player = pt3player.New(mod)
	r.player.SetLoop(r.loopEnabled)
	r.secondPlayer = nil
	if mod.TurboSound != nil {
		r.secondPlayer = pt3player.New(mod.TurboSound)
		r.secondPlayer.SetLoop(r.loopEnabled)
	}
	r.frameIndex = 0
	return nil
}

// SetLoopEnabled controls whether reaching the module's loop position
// wraps playback (the default) or ends it.
func (r *pt3Replayer) SetLoopEnabled(enabled bool) {
	r.loopEnabled = enabled
	if r.player != nil {
		r.player.SetLoop(enabled)
	}
	if r.secondPlayer != nil {
		r.secondPlayer.SetLoop(enabled)
	}
}

func toReplayerFrame(f pt3player.RegisterFrame) RegisterFrame {
	return RegisterFrame{
		Tone:      f.Tone,
		Noise:     f.Noise,
		Mixer:     f.Mixer,
		Volume:    f.Volume,
		EnvPeriod: f.EnvPeriod,
		EnvShape:  f.EnvShape,
	}
}

func (r *pt3Replayer) NextFrame() (RegisterFrame, [3]effect.Effect, effect.Effect, bool) {
	if r.player.Finished() {
		return RegisterFrame{}, [3]effect.Effect{}, effect.Effect{}, false
	}
	frame := r.player.Tick()
	r.frameIndex++
	return toReplayerFrame(frame), [3]effect.Effect{}, effect.Effect{}, true
}

// NextFrameSecondChip advances the paired TurboSound module's player by
// one frame. ok is false when the module carries no second chip, or once
// that module's own playback has finished with looping disabled.
func (r *pt3Replayer) NextFrameSecondChip() (RegisterFrame, bool) {
	if r.secondPlayer == nil || r.secondPlayer.Finished() {
		return RegisterFrame{}, false
	}
	return toReplayerFrame(r.secondPlayer.Tick()), true
}

func (r *pt3Replayer) CurrentFrame() int { return r.frameIndex }

// LoopFrame and TotalFrames are indeterminate for a looping tracker module
// that has no fixed length; callers should rely on HasLooped instead.
func (r *pt3Replayer) LoopFrame() int { return 0 }

func (r *pt3Replayer) HasLooped() bool {
	return r.player.HasLooped()
}

func (r *pt3Replayer) SampleFormat() FormatInfo {
	return FormatInfo{
		FrameRateHz:  pt3PlayerFrameRateHz,
		TotalFrames:  0,
		LoopFrame:    0,
		IsTurboSound: r.secondPlayer != nil,
	}
}

// Seek re-simulates playback from the beginning since the tracker
// interpreter carries sequential state (pattern cursors, slide counters,
// effect stacks) with no cheap random-access representation.
func (r *pt3Replayer) Seek(frame int) error {
	if frame < 0 {
		return fmt.Errorf("replayer: seek frame %d is negative", frame)
	}
	r.player = pt3player.New(r.mod)
	r.player.SetLoop(r.loopEnabled)
	if r.mod.TurboSound != nil {
		r.secondPlayer = pt3player.New(r.mod.TurboSound)
		r.secondPlayer.SetLoop(r.loopEnabled)
	}
	r.frameIndex = 0
	for i := 0; i < frame; i++ {
		r.player.Tick()
		if r.secondPlayer != nil {
			r.secondPlayer.Tick()
		}
		r.frameIndex++
	}
	return nil
}
