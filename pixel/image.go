package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/oled/draw"
)

// PageHeight is the number of pixel rows in one page.
const PageHeight = 8

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// PageImage is a 1-bit per pixel monochrome image stored in pages.
//
// Each page is a horizontal band of 8 rows. Within a page every byte holds one
// vertical column strip, with the least significant bit at the top. Pages follow
// each other in Pix, so Pix is exactly what the controller expects to receive.
type PageImage struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels, Pages() * Stride bytes.
	Pix []byte

	// Stride is the number of bytes in one page, equal to the image width.
	Stride int
}

// NewPageImage allocates a zeroed image; the height is rounded up to whole pages.
func NewPageImage(w, h int) *PageImage {
	pages := (h + PageHeight - 1) / PageHeight
	return &PageImage{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, pages*w),
		Stride: w,
	}
}

func (p *PageImage) Bounds() image.Rectangle {
	return p.Rect
}

func (p *PageImage) ColorModel() color.Model {
	return MonoModel
}

// Pages is the number of pages.
func (p *PageImage) Pages() int {
	if p.Stride == 0 {
		return 0
	}
	return len(p.Pix) / p.Stride
}

// Page returns the bytes of page n, sharing storage with Pix.
func (p *PageImage) Page(n int) []byte {
	off := n * p.Stride
	return p.Pix[off : off+p.Stride : off+p.Stride]
}

// PixOffset is the index in Pix of the byte holding pixel (x, y).
func (p *PageImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)/PageHeight*p.Stride + (x - p.Rect.Min.X)
}

func (p *PageImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	bit := byte(1) << uint((y-p.Rect.Min.Y)%PageHeight)
	return Mono{
		On: p.Pix[p.PixOffset(x, y)]&bit != 0,
	}
}

func (p *PageImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	var (
		pos = p.PixOffset(x, y)
		bit = byte(1) << uint((y-p.Rect.Min.Y)%PageHeight)
	)
	if monoModel(c).(Mono).On {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *PageImage) Fill(c color.Color) {
	value := monoModel(c).(Mono).Byte()
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

func (p *PageImage) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}
