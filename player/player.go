// Package player plays a run-length encoded animation on a display at a fixed frame rate.
package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/oled/rle"
)

// ErrNoFrames is returned for a stream without a single complete frame.
var ErrNoFrames = errors.New("player: stream has no frames")

// Screen is a display with a raw framebuffer.
type Screen interface {
	// Bounds is the display bounding box.
	Bounds() image.Rectangle

	// Framebuffer returns the raw framebuffer, one byte per column strip of 8 pixels.
	Framebuffer() []byte

	// Refresh pushes the framebuffer to the display.
	Refresh(context.Context) error
}

// Config is the playback configuration.
type Config struct {
	// Rate in frames per second.
	Rate int

	// Frames is the number of frames in the animation, use 0 to count them in the stream.
	Frames int

	// SourceWidth is the width of a frame in source pixels.
	SourceWidth int

	// Budget is the maximum time one tick may spend decoding and refreshing.
	Budget time.Duration

	// Heartbeat pin, toggled every tick (optional).
	Heartbeat gpio.PinOut

	// Logger for playback events, defaults to [slog.Default].
	Logger *slog.Logger
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Rate:        30,
	SourceWidth: 32,
	Budget:      time.Second,
}

// State is the playback position.
type State struct {
	// Offset is the decode cursor, the stream offset of the next frame.
	Offset int

	// Frame counts all frames shown since start.
	Frame uint64

	// Index is the number of frames shown in the current loop.
	Index int

	// Loops counts restarts from the beginning of the stream.
	Loops int
}

// Player decodes one frame into the screen framebuffer on every tick.
type Player struct {
	screen    Screen
	decoder   *rle.Decoder
	stream    []byte
	frames    int
	period    time.Duration
	budget    time.Duration
	heartbeat gpio.PinOut
	level     gpio.Level
	log       *slog.Logger
	state     State
	playing   bool
}

// New prepares playback of stream on screen. The stream is checked to consist of
// whole frames only.
func New(screen Screen, stream []byte, config *Config) (*Player, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	if config.Rate <= 0 {
		config.Rate = DefaultConfig.Rate
	}
	if config.SourceWidth <= 0 {
		config.SourceWidth = DefaultConfig.SourceWidth
	}
	if config.Budget <= 0 {
		config.Budget = DefaultConfig.Budget
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	decoder, err := rle.NewDecoder(screen.Bounds().Dx(), config.SourceWidth)
	if err != nil {
		return nil, err
	}

	offsets, err := rle.Scan(stream, len(screen.Framebuffer()), decoder.Scale)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	if len(offsets) == 0 {
		return nil, ErrNoFrames
	}

	frames := config.Frames
	switch {
	case frames == 0:
		frames = len(offsets)
	case frames < 0 || frames > len(offsets):
		return nil, fmt.Errorf("player: %d frames configured, stream has %d", frames, len(offsets))
	}

	return &Player{
		screen:    screen,
		decoder:   decoder,
		stream:    stream,
		frames:    frames,
		period:    time.Second / time.Duration(config.Rate),
		budget:    config.Budget,
		heartbeat: config.Heartbeat,
		log:       config.Logger.With("pkg", "player"),
	}, nil
}

// Frames is the number of frames played per loop.
func (p *Player) Frames() int {
	return p.frames
}

// State returns the current playback position.
func (p *Player) State() State {
	return p.state
}

// Playing reports if at least one tick has run.
func (p *Player) Playing() bool {
	return p.playing
}

// Tick shows the next frame: it decodes the frame at the cursor into the
// framebuffer, refreshes the screen and toggles the heartbeat. After the last
// frame playback starts over from the beginning of the stream.
//
// Tick must not be called concurrently, the player state and framebuffer are
// owned by the caller for the duration of the call.
func (p *Player) Tick(ctx context.Context) (err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	p.playing = true
	if p.state.Index >= p.frames || p.state.Offset >= len(p.stream) {
		p.state.Offset = 0
		p.state.Index = 0
		p.state.Loops++
		p.log.Info("restart", "loops", p.state.Loops, "frame", p.state.Frame)
	}

	next, err := p.decoder.Decode(p.screen.Framebuffer(), p.stream, p.state.Offset)
	if err != nil {
		return fmt.Errorf("player: frame %d: %w", p.state.Index, err)
	}
	if err = p.screen.Refresh(ctx); err != nil {
		return fmt.Errorf("player: frame %d: %w", p.state.Index, err)
	}
	p.log.Debug("frame", "index", p.state.Index, "offset", p.state.Offset, "next", next)

	p.state.Offset = next
	p.state.Index++
	p.state.Frame++

	if p.heartbeat != nil {
		p.level = !p.level
		if err = p.heartbeat.Out(p.level); err != nil {
			return fmt.Errorf("player: heartbeat: %w", err)
		}
	}
	return nil
}

// Run ticks at the configured frame rate until ctx is done or a tick fails. A
// tick that takes longer than the frame period delays the next one; missed ticks
// are dropped.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	p.log.Info("playing", "frames", p.frames, "bytes", len(p.stream), "period", p.period)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Tick(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.log.Error("tick failed", "error", err)
				return err
			}
		}
	}
}
