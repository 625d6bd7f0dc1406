//go:build !sdl2

package audiosink

import "fmt"

// SDL2Sink stub for builds without the sdl2 tag.
type SDL2Sink struct{}

// OpenSDL2Sink returns an error indicating SDL2 support was not built in.
func OpenSDL2Sink(sampleRateHz int) (*SDL2Sink, error) {
	return nil, fmt.Errorf("audiosink: built without sdl2 support (rebuild with -tags sdl2)")
}

func (s *SDL2Sink) Write(left, right []float32) error { return fmt.Errorf("audiosink: no sdl2 support") }
func (s *SDL2Sink) SampleRate() int                    { return 0 }
func (s *SDL2Sink) Close() error                       { return nil }
