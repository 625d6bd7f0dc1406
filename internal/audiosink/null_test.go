package audiosink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naorunaoru/ym2149-wa/internal/audiosink"
)

func TestNullSinkCountsFramesWritten(t *testing.T) {
	s := audiosink.NewNullSink(44100)
	assert.Equal(t, 44100, s.SampleRate())

	left := make([]float32, 512)
	right := make([]float32, 512)
	assert.NoError(t, s.Write(left, right))
	assert.NoError(t, s.Write(left, right))

	assert.Equal(t, 1024, s.FramesWritten())
	assert.NoError(t, s.Close())
}
