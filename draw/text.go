package draw

import (
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the text size in points at 72 DPI, so one point is one pixel.
const DefaultFontSize = 12

var goRegular *truetype.Font

func init() {
	var err error
	if goRegular, err = truetype.Parse(goregular.TTF); err != nil {
		panic("draw: parse Go regular font: " + err.Error())
	}
}

// Face returns a Go regular font face of the given size.
func Face(size float64) font.Face {
	return truetype.NewFace(goRegular, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Text draws s with its baseline starting at pt.
func Text(dst Image, pt image.Point, face font.Face, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y),
	}
	d.DrawString(s)
}

// Splash draws a bordered screen with s centered on it.
func Splash(dst Image, s string, c color.Color) {
	var (
		r    = dst.Bounds()
		face = Face(DefaultFontSize)
	)
	defer face.Close()

	Border(dst, r, c)

	var (
		width   = font.MeasureString(face, s).Ceil()
		metrics = face.Metrics()
		height  = (metrics.Ascent + metrics.Descent).Ceil()
		x       = r.Min.X + (r.Dx()-width)/2
		y       = r.Min.Y + (r.Dy()-height)/2 + metrics.Ascent.Ceil()
	)
	Text(dst, image.Pt(x, y), face, s, c)
}
