package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent frame timing.
// Less accurate than AdaptiveLimiter but simpler and good enough for most cases.
type TickerLimiter struct {
	frameRateHz float64
	ticker      *time.Ticker
	ch          <-chan time.Time
}

func NewTickerLimiter(frameRateHz float64) *TickerLimiter {
	ticker := time.NewTicker(FrameDuration(frameRateHz))
	return &TickerLimiter{
		frameRateHz: frameRateHz,
		ticker:      ticker,
		ch:          ticker.C,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ch
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration(t.frameRateHz))
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
