package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/player"
)

func main() {
	i2cDeviceFlag := flag.Int("i2c-dev", oled.DefaultI2CConfig.Device, "I²C device number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(oled.DefaultI2CConfig.Addr), "I²C device address")
	i2cSpeedFlag := flag.Uint("i2c-speed", uint(oled.DefaultI2CConfig.Speed/physic.KiloHertz), "I²C bus speed in kHz")
	fpsFlag := flag.Int("fps", player.DefaultConfig.Rate, "Frames per second")
	framesFlag := flag.Int("frames", 0, "Number of frames in the animation (default: count frames in the stream)")
	sourceWidthFlag := flag.Int("source-width", player.DefaultConfig.SourceWidth, "Animation width in source pixels")
	heartbeatFlag := flag.String("heartbeat", "", "Heartbeat GPIO pin, toggled every frame")
	splashFlag := flag.String("splash", "", "Splash text shown before playback")
	splashTimeFlag := flag.Duration("splash-time", 2*time.Second, "Splash duration")
	debugFlag := flag.Bool("debug", os.Getenv("DISPLAY_DEBUG") != "", "Enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <stream>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	oled.SetLogger(log)

	stream, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal(err)
	}

	if _, err = host.Init(); err != nil {
		fatal(err)
	}

	var heartbeat gpio.PinOut
	if *heartbeatFlag != "" {
		pin := gpioreg.ByName(*heartbeatFlag)
		if pin == nil {
			fatal(fmt.Errorf("invalid heartbeat pin %q", *heartbeatFlag))
		}
		heartbeat = pin
	}

	conn, err := oled.OpenI2C(&oled.I2CConfig{
		Device: *i2cDeviceFlag,
		Addr:   uint8(*i2cAddrFlag),
		Speed:  physic.Frequency(*i2cSpeedFlag) * physic.KiloHertz,
	})
	if err != nil {
		fatal(err)
	}
	log.Info("using connection", "conn", conn)

	output, err := oled.NewSSD1306(conn, nil)
	if err != nil {
		_ = conn.Close()
		fatal(err)
	}
	defer output.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = output.Init(ctx); err != nil {
		fatal(err)
	}
	log.Info("using driver", "driver", output)

	if *splashFlag != "" {
		draw.Splash(output, *splashFlag, pixel.On)
		if err = output.Refresh(ctx); err != nil {
			fatal(err)
		}
		select {
		case <-ctx.Done():
		case <-time.After(*splashTimeFlag):
		}
	}

	p, err := player.New(output, stream, &player.Config{
		Rate:        *fpsFlag,
		Frames:      *framesFlag,
		SourceWidth: *sourceWidthFlag,
		Heartbeat:   heartbeat,
		Logger:      log,
	})
	if err != nil {
		fatal(err)
	}

	fmt.Println("hit control-c to stop...")
	if err = p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
	log.Info("stopped", "frames", p.State().Frame, "loops", p.State().Loops)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
