// Package audiosink provides the playback-destination abstraction
// internal/replayer's Player facade pulls stereo samples into: a native
// SDL2 device for real playback, or a no-op sink for headless rendering
// and tests.
package audiosink

// Sink receives stereo float samples produced by a psg.Chip, as separate
// left and right slices, and is responsible for getting them to an output device (or
// discarding them).
type Sink interface {
	// Write delivers one buffer's worth of samples; left and right are
	// the same length.
	Write(left, right []float32) error
	SampleRate() int
	Close() error
}
