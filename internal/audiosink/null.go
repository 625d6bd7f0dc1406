package audiosink

// NullSink discards samples. Used for headless rendering and tests where
// only the register stream or channel levels matter, not actual audio.
type NullSink struct {
	sampleRate   int
	framesWritten int
}

// NewNullSink returns a sink that reports sampleRateHz but drops all audio.
func NewNullSink(sampleRateHz int) *NullSink {
	return &NullSink{sampleRate: sampleRateHz}
}

func (s *NullSink) Write(left, right []float32) error {
	s.framesWritten += len(left)
	return nil
}

func (s *NullSink) SampleRate() int { return s.sampleRate }

// FramesWritten reports the total number of stereo frames passed to Write,
// useful for tests asserting a replayer ran to completion.
func (s *NullSink) FramesWritten() int { return s.framesWritten }

func (s *NullSink) Close() error { return nil }
