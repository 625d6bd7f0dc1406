//go:build sdl2

package audiosink

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// targetQueuedBytes bounds how far ahead of playback Write lets the SDL
// queue grow, the same "don't build unbounded latency" backpressure
// jeebie's own queueAudioSamples applies against GetQueuedAudioSize.
const targetQueuedBytes = 2048 * 4 * 4 // 4096 stereo float32 frames (8 bytes each)

// SDL2Sink queues interleaved stereo float32 samples to a native SDL2
// audio device. The PSG already produces float32 in [-1, 1], so samples
// are queued as-is rather than converted to an integer format.
type SDL2Sink struct {
	device     sdl.AudioDeviceID
	sampleRate int
	buf        []float32
}

// OpenSDL2Sink opens the default audio device at the given sample rate.
func OpenSDL2Sink(sampleRateHz int) (*SDL2Sink, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl audio init: %w", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRateHz),
		Format:   sdl.AUDIO_F32LSB,
		Channels: 2,
		Samples:  512,
	}
	obtained := &sdl.AudioSpec{}
	device, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	sdl.PauseAudioDevice(device, false)
	slog.Info("sdl2 audio sink opened", "freq", obtained.Freq, "samples", obtained.Samples)

	return &SDL2Sink{device: device, sampleRate: int(obtained.Freq)}, nil
}

// Write interleaves left/right and queues them, skipping the push entirely
// once the device already has targetQueuedBytes buffered so playback
// latency doesn't grow unbounded when the caller renders faster than
// real time.
func (s *SDL2Sink) Write(left, right []float32) error {
	if len(left) != len(right) {
		return fmt.Errorf("audiosink: channel length mismatch: %d vs %d", len(left), len(right))
	}
	if len(left) == 0 {
		return nil
	}

	if sdl.GetQueuedAudioSize(s.device) >= targetQueuedBytes {
		return nil
	}

	if cap(s.buf) < len(left)*2 {
		s.buf = make([]float32, len(left)*2)
	}
	s.buf = s.buf[:len(left)*2]
	for i := range left {
		s.buf[i*2] = left[i]
		s.buf[i*2+1] = right[i]
	}

	byteLen := len(s.buf) * 4
	sliceHeader := (*[1 << 30]byte)(unsafe.Pointer(&s.buf[0]))[:byteLen:byteLen]
	if err := sdl.QueueAudio(s.device, sliceHeader); err != nil {
		return fmt.Errorf("queue audio: %w", err)
	}
	return nil
}

func (s *SDL2Sink) SampleRate() int { return s.sampleRate }

func (s *SDL2Sink) Close() error {
	if s.device != 0 {
		sdl.CloseAudioDevice(s.device)
		s.device = 0
	}
	return nil
}
