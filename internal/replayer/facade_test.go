package replayer

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naorunaoru/ym2149-wa/internal/audiosink"
	"github.com/naorunaoru/ym2149-wa/internal/timing"
)

// buildMinimalPT3 assembles a one-pattern, one-sample, always-looping PT3
// file playing a single note on channel A forever, mirroring the fixture
// internal/pt3player's own tests build.
func buildMinimalPT3(t *testing.T) []byte {
	t.Helper()
	const base = 260
	data := make([]byte, base+6)
	copy(data, "ProTracker 3.6r  compilation of  ")
	data[99] = 0
	data[100] = 3
	data[101] = 1
	data[102] = 0
	binary.LittleEndian.PutUint16(data[103:], base)
	data[201] = 0
	data[202] = 0xFF

	channelA := []byte{0xCF, 0xD1, 0x50 + 48}
	slot := base
	aPtr := slot + 6
	bPtr := aPtr + len(channelA) + 1
	cPtr := bPtr + 1
	binary.LittleEndian.PutUint16(data[slot:], uint16(aPtr))
	binary.LittleEndian.PutUint16(data[slot+2:], uint16(bPtr))
	binary.LittleEndian.PutUint16(data[slot+4:], uint16(cPtr))

	data = append(data, channelA...)
	data = append(data, 0x00)
	data = append(data, 0x00)
	data = append(data, 0x00)

	sampPtr := len(data)
	binary.LittleEndian.PutUint16(data[107:], uint16(sampPtr))
	data = append(data, []byte{0, 1, 0x0F, 0x00, 0x00, 0x00}...)

	return data
}

func TestPlayerLoadDetectsPT3Format(t *testing.T) {
	p := NewPlayer(audiosink.NewNullSink(44100), timing.NewNoOpLimiter())
	require.NoError(t, p.Load(buildMinimalPT3(t)))

	status := p.Status()
	assert.Equal(t, StateStopped, status.State)
}

func TestPlayerPlayThenStopReachesStoppedState(t *testing.T) {
	p := NewPlayer(audiosink.NewNullSink(44100), timing.NewNoOpLimiter())
	require.NoError(t, p.Load(buildMinimalPT3(t)))

	p.Play()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, StatePlaying, p.Status().State)

	p.Stop()
	assert.Equal(t, StateStopped, p.Status().State)
}

func TestPlayerPauseThenPlayResumesWithoutReset(t *testing.T) {
	p := NewPlayer(audiosink.NewNullSink(44100), timing.NewNoOpLimiter())
	require.NoError(t, p.Load(buildMinimalPT3(t)))

	p.Play()
	time.Sleep(5 * time.Millisecond)
	p.Pause()
	assert.Equal(t, StatePaused, p.Status().State)

	framesAtPause := p.Status().CurrentFrame

	p.Play()
	time.Sleep(5 * time.Millisecond)
	p.Stop()

	assert.GreaterOrEqual(t, p.Status().CurrentFrame, framesAtPause)
}

func TestPlayerSetChannelPanClampsRange(t *testing.T) {
	p := NewPlayer(audiosink.NewNullSink(44100), timing.NewNoOpLimiter())
	require.NoError(t, p.Load(buildMinimalPT3(t)))

	p.SetChannelPan(0, 5)
	assert.Equal(t, float32(1), p.pan[0])

	p.SetChannelPan(0, -5)
	assert.Equal(t, float32(-1), p.pan[0])
}

func TestPlayerSeekTimeConvertsSecondsToFrames(t *testing.T) {
	p := NewPlayer(audiosink.NewNullSink(44100), timing.NewNoOpLimiter())
	require.NoError(t, p.Load(buildMinimalPT3(t)))

	require.NoError(t, p.SeekTime(1.0))
	assert.Equal(t, 50, p.Status().CurrentFrame)
}
