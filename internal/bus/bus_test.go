package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naorunaoru/ym2149-wa/internal/bus"
)

func TestDrainAppliesQueuedCommandsInOrder(t *testing.T) {
	b := bus.New(8)
	b.Start()

	var order []int
	b.Push(func() { order = append(order, 1) })
	b.Push(func() { order = append(order, 2) })
	b.Push(func() { order = append(order, 3) })

	b.Drain()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDrainIsNoOpWhenEmpty(t *testing.T) {
	b := bus.New(4)
	b.Start()
	assert.NotPanics(t, func() { b.Drain() })
}

func TestPushBeforeStartIsDropped(t *testing.T) {
	b := bus.New(4)
	ran := false
	b.Push(func() { ran = true })
	b.Start()
	b.Drain()
	assert.False(t, ran)
}

func TestStopDrainsPendingCommandsWithoutRunningThem(t *testing.T) {
	b := bus.New(4)
	b.Start()

	ran := false
	b.Push(func() { ran = true })
	b.Stop()

	assert.Equal(t, 0, b.Pending())
	assert.False(t, ran)
}

func TestPushOverflowPanics(t *testing.T) {
	b := bus.New(1)
	b.Start()
	b.Push(func() {})
	assert.Panics(t, func() { b.Push(func() {}) })
}
