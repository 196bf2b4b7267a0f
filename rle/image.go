package rle

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/BeatGlow/oled/pixel"
)

// FrameFromImage renders img into a framebuffer of pages × width bytes that
// [Encode] accepts. The image is scaled to a grid of width/scale by pages source
// pixels and thresholded to monochrome.
func FrameFromImage(img image.Image, width, pages, scale int) []byte {
	var (
		cols  = width / scale
		grid  = image.NewGray(image.Rect(0, 0, cols, pages))
		frame = make([]byte, width*pages)
	)
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), img, img.Bounds(), draw.Src, nil)

	for row := 0; row < pages; row++ {
		for col := 0; col < cols; col++ {
			var (
				v   = pixel.MonoModel.Convert(grid.GrayAt(col, row)).(pixel.Mono).Byte()
				off = row*width + col*scale
			)
			fill(frame[off:off+scale], v)
		}
	}
	return frame
}
