package oled

import (
	"context"
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/BeatGlow/oled/pixel"
)

const (
	ssd1306DefaultWidth  = 128
	ssd1306DefaultHeight = 64
)

// SSD1306 is a driver for the Solomon Systech SSD1306 OLED controller, using page addressing mode.
//
// The display is an [image/draw.Image]; drawing only changes the framebuffer until the next Refresh.
type SSD1306 struct {
	*pixel.PageImage
	c           Conn
	contrast    byte
	initialized bool
	halted      bool
}

var _ drivers.Displayer = (*SSD1306)(nil)

// NewSSD1306 sets up a driver with a blank framebuffer. Nothing is sent to the
// controller until Init.
func NewSSD1306(c Conn, config *Config) (*SSD1306, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = ssd1306DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1306DefaultHeight
	}
	if config.Width != ssd1306DefaultWidth || config.Height != ssd1306DefaultHeight {
		return nil, fmt.Errorf("oled: SSD1306 unsupported size %dx%d", config.Width, config.Height)
	}

	d := &SSD1306{
		PageImage: pixel.NewPageImage(config.Width, config.Height),
		c:         c,
		contrast:  config.Contrast,
	}
	if d.contrast == 0 {
		d.contrast = contrastDefault
	}
	return d, nil
}

func (d *SSD1306) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1306 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

// Init sends the initialization sequence and blanks the display. It must be
// called exactly once, before the first Refresh.
func (d *SSD1306) Init(ctx context.Context) (err error) {
	if d.initialized {
		return ErrInitialized
	}

	multiplexRatio := byte(d.Rect.Dy() - 1)
	for _, p := range [][]byte{
		commands(setDisplayOff),
		command(setMemoryMode, memoryModePage),
		commands(setPageStart),
		command(setMultiplexRatio, multiplexRatio),
		command(setDisplayOffset, displayOffsetZero),
		commands(setStartLine, setSegmentNormal, setComScanInc),
		command(setComPins, comPinsAlternate),
		command(setContrast, d.contrast),
		commands(setDisplayAllOnResume, setNormalDisplay),
		command(setDisplayClockDiv, clockDivDefault),
		command(setVComDetect, vcomDeselect077),
		command(setPrecharge, prechargeDefault),
		command(setChargePump, chargePumpEnable),
		commands(setDisplayOn),
	} {
		if err = d.c.Transact(ctx, p...); err != nil {
			return fmt.Errorf("oled: init: %w", err)
		}
	}

	d.initialized = true
	d.halted = false
	return d.Refresh(ctx)
}

// Refresh mirrors the whole framebuffer onto the display, page by page.
func (d *SSD1306) Refresh(ctx context.Context) (err error) {
	if !d.initialized {
		return ErrNotInitialized
	}

	for page := 0; page < d.Pages(); page++ {
		for _, cmd := range []byte{
			setPageStart | byte(page&0x7),
			setLowColumn | 0x0,  //nolint:staticcheck
			setHighColumn | 0x0, //nolint:staticcheck
		} {
			if err = d.c.Transact(ctx, controlCommand, cmd); err != nil {
				return fmt.Errorf("oled: page %d: %w", page, err)
			}
		}
		if err = d.c.StreamPage(ctx, d.Page(page)); err != nil {
			return fmt.Errorf("oled: page %d: %w", page, err)
		}
	}
	return nil
}

// Framebuffer returns the raw framebuffer, see [pixel.PageImage] for its layout.
func (d *SSD1306) Framebuffer() []byte {
	return d.Pix
}

// Show toggles the display on or off.
func (d *SSD1306) Show(ctx context.Context, show bool) error {
	if show {
		return d.c.Transact(ctx, commands(setDisplayOn)...)
	}
	return d.c.Transact(ctx, commands(setDisplayOff)...)
}

// SetContrast adjusts the contrast level.
func (d *SSD1306) SetContrast(ctx context.Context, level uint8) error {
	if err := d.c.Transact(ctx, command(setContrast, level)...); err != nil {
		return err
	}
	d.contrast = level
	return nil
}

// Close switches the display off and closes the connection.
func (d *SSD1306) Close() error {
	if d.initialized && !d.halted {
		if err := d.Show(context.Background(), false); err != nil {
			_ = d.c.Close()
			return err
		}
		d.halted = true
	}
	return d.c.Close()
}

// Size is the display size, for TinyGo drivers.Displayer.
func (d *SSD1306) Size() (x, y int16) {
	return int16(d.Rect.Dx()), int16(d.Rect.Dy())
}

// SetPixel sets a pixel, for TinyGo drivers.Displayer.
func (d *SSD1306) SetPixel(x, y int16, c color.RGBA) {
	d.Set(int(x), int(y), c)
}

// Display refreshes the display, for TinyGo drivers.Displayer.
func (d *SSD1306) Display() error {
	return d.Refresh(context.Background())
}
