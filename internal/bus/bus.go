// Package bus decouples the replayer's musical tick rate from the audio
// actor's fixed-size buffer callback rate: the driver actor decodes one
// chiptune frame and posts the register writes and effect transitions it
// implies; the audio actor drains everything pending immediately before it
// renders the next buffer, so a write issued in frame N is never visible
// later than the audio actor's next callback.
package bus

// Command is one unit of work the audio actor applies to a psg.Chip (or a
// pair of them, for TurboSound) before rendering a buffer — typically a
// register write or an effect start/stop closing over the chip it targets.
type Command func()

// Bus is a single-producer (driver actor), single-consumer (audio actor)
// queue of Commands.
type Bus struct {
	commands chan Command
	running  bool
}

// New creates a Bus with room for bufferSize pending commands.
func New(bufferSize int) *Bus {
	return &Bus{commands: make(chan Command, bufferSize)}
}

// Start begins accepting pushed commands.
func (b *Bus) Start() {
	b.running = true
}

// Stop halts acceptance and drains anything left queued.
func (b *Bus) Stop() {
	b.running = false
	for {
		select {
		case <-b.commands:
		default:
			return
		}
	}
}

// Push enqueues cmd. It never blocks the driver actor: a full buffer means
// the audio actor has stalled well beyond what any sane buffer size should
// allow, which is a bug elsewhere, not something worth blocking on.
func (b *Bus) Push(cmd Command) {
	if !b.running {
		return
	}
	select {
	case b.commands <- cmd:
	default:
		panic("bus: command queue overflow")
	}
}

// Drain executes every command currently queued, in order, without
// blocking for more to arrive. The audio actor calls this immediately
// before rendering each buffer.
func (b *Bus) Drain() {
	for {
		select {
		case cmd := <-b.commands:
			cmd()
		default:
			return
		}
	}
}

// Pending reports how many commands are queued, for diagnostics.
func (b *Bus) Pending() int {
	return len(b.commands)
}
