package replayer

import (
	"fmt"

	"github.com/naorunaoru/ym2149-wa/internal/bit"
	"github.com/naorunaoru/ym2149-wa/internal/effect"
	"github.com/naorunaoru/ym2149-wa/internal/ym"
)

// ymReplayer drives a single psg.Chip from a parsed YM register-dump file.
type ymReplayer struct {
	file         *ym.File
	currentFrame int
	hasLooped    bool
	loopEnabled  bool
}

// SetLoopEnabled controls whether reaching the file's trailing loop frame
// wraps playback (the default) or ends it, the same as if the file
// carried no loop point at all.
func (r *ymReplayer) SetLoopEnabled(enabled bool) {
	r.loopEnabled = enabled
}

func newYMReplayer() *ymReplayer {
	return &ymReplayer{loopEnabled: true}
}

func (r *ymReplayer) Load(data []byte) error {
	file, err := ym.Parse(data)
	if err != nil {
		return fmt.Errorf("replayer: %w", err)
	}
	r.file = file
	r.currentFrame = 0
	r.hasLooped = false
	return nil
}

func (r *ymReplayer) NextFrame() (RegisterFrame, [3]effect.Effect, effect.Effect, bool) {
	if r.currentFrame >= len(r.file.Frames) {
		return RegisterFrame{}, [3]effect.Effect{}, effect.Effect{}, false
	}

	raw := r.file.Frames[r.currentFrame]
	frame := RegisterFrame{
		Tone: [3]uint16{
			bit.Combine(raw[1]&0x0F, raw[0]),
			bit.Combine(raw[3]&0x0F, raw[2]),
			bit.Combine(raw[5]&0x0F, raw[4]),
		},
		Noise:     raw[6] & 0x1F,
		Mixer:     raw[7],
		Volume:    [3]uint8{raw[8], raw[9], raw[10]},
		EnvPeriod: bit.Combine(raw[12], raw[11]),
		EnvShape:  NoEnvelopeShape,
	}
	if raw[13] != 0xFF {
		frame.EnvShape = int8(raw[13] & 0x0F)
	}

	var effects [3]effect.Effect
	var syncBuzzer effect.Effect
	slot1, slot2 := ym.DecodeEffects(raw, r.file.Header.Format)
	for _, slot := range [2]effect.Effect{slot1, slot2} {
		if slot.IsNone() {
			continue
		}
		if slot.Kind == effect.SyncBuzzer {
			syncBuzzer = slot
		} else if slot.Voice >= 0 && slot.Voice < 3 {
			effects[slot.Voice] = slot
		}
	}

	r.currentFrame++
	if r.currentFrame >= len(r.file.Frames) {
		loop := int(r.file.Header.LoopFrame)
		if r.loopEnabled && loop >= 0 && loop < len(r.file.Frames) {
			r.currentFrame = loop
			r.hasLooped = true
		}
	}

	return frame, effects, syncBuzzer, true
}

func (r *ymReplayer) CurrentFrame() int { return r.currentFrame }
func (r *ymReplayer) LoopFrame() int    { return int(r.file.Header.LoopFrame) }
func (r *ymReplayer) HasLooped() bool   { return r.hasLooped }

func (r *ymReplayer) SampleFormat() FormatInfo {
	return FormatInfo{
		FrameRateHz:  int(r.file.Header.FrameRateHz),
		TotalFrames:  len(r.file.Frames),
		LoopFrame:    int(r.file.Header.LoopFrame),
		IsTurboSound: false,
	}
}

func (r *ymReplayer) Seek(frame int) error {
	if frame < 0 || frame >= len(r.file.Frames) {
		return fmt.Errorf("replayer: seek frame %d out of range [0,%d)", frame, len(r.file.Frames))
	}
	r.currentFrame = frame
	return nil
}
