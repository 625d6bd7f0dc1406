package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/naorunaoru/ym2149-wa/internal/audiosink"
	"github.com/naorunaoru/ym2149-wa/internal/debug"
	"github.com/naorunaoru/ym2149-wa/internal/replayer"
	"github.com/naorunaoru/ym2149-wa/internal/timing"
	"github.com/naorunaoru/ym2149-wa/internal/uiterm"
)

func main() {
	app := cli.NewApp()
	app.Name = "chiptune"
	app.Description = "A YM2149/AY-3-8910 PSG emulator and YM/PT3 chiptune player"
	app.Usage = "chiptune [options] <file.ym|file.pt3>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "sink",
			Usage: "Audio output: sdl2 or null",
			Value: "sdl2",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without opening an audio device (implies --sink=null)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Stop after N frames (0 = run until the file ends, or loops once if --loop)",
			Value: 0,
		},
		cli.BoolTFlag{
			Name:  "loop",
			Usage: "Loop playback when the file reaches its loop point (use --loop=false to play once and stop)",
		},
		cli.IntFlag{
			Name:  "seek",
			Usage: "Seek to this frame before playing",
			Value: 0,
		},
		cli.Float64Flag{
			Name:  "seek-time",
			Usage: "Seek to this many seconds before playing",
		},
		cli.Float64Flag{
			Name:  "volume",
			Usage: "Master volume, 0..1",
			Value: 1,
		},
		cli.Float64Flag{
			Name:  "pan-a",
			Usage: "Channel A stereo pan, -1..1",
			Value: -0.6,
		},
		cli.Float64Flag{
			Name:  "pan-b",
			Usage: "Channel B stereo pan, -1..1",
			Value: 0,
		},
		cli.Float64Flag{
			Name:  "pan-c",
			Usage: "Channel C stereo pan, -1..1",
			Value: 0.6,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Log register writes and effect transitions at debug level",
		},
		cli.StringFlag{
			Name:  "ui",
			Usage: "Frontend: terminal or none",
			Value: "none",
		},
	}
	app.Action = runPlayer

	if err := app.Run(os.Args); err != nil {
		slog.Error("chiptune: error running player", "error", err)
		os.Exit(1)
	}
}

func runPlayer(c *cli.Context) error {
	if c.Bool("debug") {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		slog.SetDefault(slog.New(handler))
	}

	path := c.String("file")
	if path == "" {
		if c.NArg() > 0 {
			path = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no chiptune file provided")
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sink, err := openSink(c)
	if err != nil {
		return err
	}
	defer sink.Close()

	limiter := timing.NewAdaptiveLimiter(50)
	player := replayer.NewPlayer(sink, limiter)
	if err := player.Load(data); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	player.SetLoopEnabled(c.BoolT("loop"))
	player.SetMasterVolume(float32(c.Float64("volume")))
	player.SetChannelPan(0, float32(c.Float64("pan-a")))
	player.SetChannelPan(1, float32(c.Float64("pan-b")))
	player.SetChannelPan(2, float32(c.Float64("pan-c")))

	if t := c.Float64("seek-time"); t > 0 {
		if err := player.SeekTime(t); err != nil {
			return err
		}
	} else if f := c.Int("seek"); f > 0 {
		if err := player.Seek(f); err != nil {
			return err
		}
	}

	slog.Info("chiptune: playing", "file", path)
	player.Play()

	if c.Bool("debug") {
		go logRegisterSnapshots(player)
	}

	if c.String("ui") == "terminal" {
		view, err := uiterm.New(player)
		if err != nil {
			return err
		}
		defer view.Close()
		view.Run()
		player.Stop()
		return nil
	}

	maxFrames := c.Int("frames")
	for {
		status := player.Status()
		if status.State == replayer.StateStopped {
			break
		}
		if maxFrames > 0 && status.CurrentFrame >= maxFrames {
			break
		}
		if c.BoolT("loop") && status.HasLooped && maxFrames == 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	player.Stop()
	return nil
}

// logRegisterSnapshots logs a decoded view of the chip's current register
// state a few times a second until playback stops, for --debug runs.
func logRegisterSnapshots(player *replayer.Player) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if player.Status().State != replayer.StatePlaying {
			return
		}
		frame, masterClockHz := player.LastFrame()
		snap := debug.Extract(debug.RegisterSource{
			Tone:      frame.Tone,
			Noise:     frame.Noise,
			Mixer:     frame.Mixer,
			Volume:    frame.Volume,
			EnvPeriod: frame.EnvPeriod,
			EnvShape:  frame.EnvShape,
		}, masterClockHz, player.ChannelLevels())

		slog.Debug("chiptune: register snapshot",
			"a", snap.Channels[0].Note, "b", snap.Channels[1].Note, "c", snap.Channels[2].Note,
			"envShape", snap.EnvShape)
	}
}

func openSink(c *cli.Context) (audiosink.Sink, error) {
	sinkName := c.String("sink")
	if c.Bool("headless") {
		sinkName = "null"
	}

	switch sinkName {
	case "null":
		return audiosink.NewNullSink(44100), nil
	case "sdl2":
		sink, err := audiosink.OpenSDL2Sink(44100)
		if err != nil {
			return nil, fmt.Errorf("opening sdl2 sink: %w", err)
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown sink %q (want sdl2 or null)", sinkName)
	}
}
