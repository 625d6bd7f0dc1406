// Package uiterm renders a tcell terminal view of a replayer.Player:
// transport state, a position progress bar, and per-voice level meters.
// Grounded on jeebie's own tcell backend (jeebie/backend/terminal), scaled
// down from a full framebuffer renderer to the small fixed layout a
// chiptune player needs.
package uiterm

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/naorunaoru/ym2149-wa/internal/replayer"
)

const (
	meterWidth  = 40
	refreshRate = 30 * time.Millisecond
)

// View owns the terminal screen and polls a Player to redraw it.
type View struct {
	screen tcell.Screen
	player *replayer.Player
	quit   chan struct{}
}

// New initializes a tcell screen for player.
func New(player *replayer.Player) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("uiterm: init terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("uiterm: init terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &View{screen: screen, player: player, quit: make(chan struct{})}, nil
}

// Close tears down the terminal screen.
func (v *View) Close() {
	v.screen.Fini()
}

// Run redraws at refreshRate and handles keyboard transport controls
// (space: play/pause, s: stop, arrows: seek, q/Ctrl-C: quit) until the
// user quits. It blocks until then; when playback stops on its own the
// view stays open and shows the stopped state.
func (v *View) Run() {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-v.quit:
			return
		case ev := <-events:
			if v.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.render()
		}
	}
}

func (v *View) handleEvent(ev tcell.Event) (shouldQuit bool) {
	keyEv, ok := ev.(*tcell.EventKey)
	if !ok {
		if _, resized := ev.(*tcell.EventResize); resized {
			v.screen.Sync()
		}
		return false
	}

	switch {
	case keyEv.Key() == tcell.KeyCtrlC, keyEv.Rune() == 'q':
		return true
	case keyEv.Rune() == ' ':
		status := v.player.Status()
		if status.State == replayer.StatePlaying {
			v.player.Pause()
		} else {
			v.player.Play()
		}
	case keyEv.Rune() == 's':
		v.player.Stop()
	case keyEv.Key() == tcell.KeyRight:
		v.seekRelative(5)
	case keyEv.Key() == tcell.KeyLeft:
		v.seekRelative(-5)
	}
	return false
}

func (v *View) seekRelative(deltaSeconds float64) {
	status := v.player.Status()
	frameRate := 50.0
	if status.TotalFrames > 0 {
		frameRate = float64(status.TotalFrames)
	}
	target := float64(status.CurrentFrame)/frameRate + deltaSeconds
	if target < 0 {
		target = 0
	}
	if err := v.player.SeekTime(target); err != nil {
		slog.Warn("uiterm: seek failed", "error", err)
	}
}

func (v *View) render() {
	v.screen.Clear()
	status := v.player.Status()
	levels := v.player.ChannelLevels()

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	drawText(v.screen, 1, 1, style, fmt.Sprintf("state: %s", status.State))

	if status.TotalFrames > 0 {
		drawText(v.screen, 1, 2, style, fmt.Sprintf("frame: %d / %d", status.CurrentFrame, status.TotalFrames))
		drawProgressBar(v.screen, 1, 3, meterWidth, float64(status.CurrentFrame)/float64(status.TotalFrames))
	} else {
		drawText(v.screen, 1, 2, style, fmt.Sprintf("frame: %d (looping)", status.CurrentFrame))
	}

	voiceNames := [3]string{"A", "B", "C"}
	for ch := 0; ch < 3; ch++ {
		y := 5 + ch
		drawText(v.screen, 1, y, style, voiceNames[ch])
		drawProgressBar(v.screen, 3, y, meterWidth, float64(levels[ch]))
	}

	drawText(v.screen, 1, 9, tcell.StyleDefault.Foreground(tcell.ColorGray), "space: play/pause  s: stop  left/right: seek  q: quit")

	v.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func drawProgressBar(screen tcell.Screen, x, y, width int, fraction float64) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	barStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	emptyStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for i := 0; i < width; i++ {
		ch := '░'
		style := emptyStyle
		if i < filled {
			ch = '█'
			style = barStyle
		}
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
