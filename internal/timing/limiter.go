package timing

import "time"

// Limiter controls frame rate timing for a replayer.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// FrameDuration returns the target duration of a single frame at the given
// frame rate (e.g. 50 Hz for YM files, the PT3 engine's configured tick rate).
func FrameDuration(frameRateHz float64) time.Duration {
	if frameRateHz <= 0 {
		frameRateHz = 50
	}
	return time.Duration(float64(time.Second) / frameRateHz)
}
