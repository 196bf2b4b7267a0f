// Package oled drives a SSD1306 monochrome OLED display over I²C.
package oled

import (
	"errors"
	"log/slog"
	"os"
)

var (
	debug  bool
	logger = slog.Default().With("pkg", "oled")
)

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// SetLogger replaces the logger used for bus level debug output, which is
// enabled with the DISPLAY_DEBUG environment variable.
func SetLogger(l *slog.Logger) {
	logger = l.With("pkg", "oled")
}

// Errors
var (
	ErrInitialized    = errors.New("oled: display already initialized")
	ErrNotInitialized = errors.New("oled: display not initialized")
)

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Contrast level, use 0 for the default.
	Contrast uint8
}
