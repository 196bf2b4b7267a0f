package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
)

func main() {
	i2cDeviceFlag := flag.Int("i2c-dev", oled.DefaultI2CConfig.Device, "I²C device number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(oled.DefaultI2CConfig.Addr), "I²C device address")
	i2cSpeedFlag := flag.Uint("i2c-speed", uint(oled.DefaultI2CConfig.Speed/physic.KiloHertz), "I²C bus speed in kHz")
	contrastFlag := flag.Uint("contrast", 0, "Contrast level (default: controller default)")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	conn, err := oled.OpenI2C(&oled.I2CConfig{
		Device: *i2cDeviceFlag,
		Addr:   uint8(*i2cAddrFlag),
		Speed:  physic.Frequency(*i2cSpeedFlag) * physic.KiloHertz,
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using connection: %s\n", conn)

	output, err := oled.NewSSD1306(conn, &oled.Config{Contrast: uint8(*contrastFlag)})
	if err != nil {
		_ = conn.Close()
		fatal(err)
	}
	defer output.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = output.Init(ctx); err != nil {
		fatal(err)
	}
	fmt.Printf("using driver: %s\n", output)

	var (
		offset int
		ticker = time.NewTicker(50 * time.Millisecond)
		r      = output.Bounds()
		inner  = r.Inset(1)
		face   = draw.Face(draw.DefaultFontSize)
	)
	defer ticker.Stop()
	defer face.Close()

	// Every column strip is a whole byte, a moving diagonal pattern exercises all pages and bits.
	fmt.Println("hit control-c to stop...")
	for {
		output.Clear()
		draw.Border(output, r, pixel.On)
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			for x := inner.Min.X; x < inner.Max.X; x++ {
				if (x+y+offset)%4 == 0 {
					output.Set(x, y, pixel.On)
				}
			}
		}
		draw.Text(output, image.Pt(4, r.Max.Y-4), face, fmt.Sprintf("%d", offset), pixel.On)

		if err = output.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			fatal(err)
		}

		offset++
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
