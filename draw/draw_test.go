package draw

import (
	"image"
	"image/color"
	"testing"
)

func TestBorder(t *testing.T) {
	dst := image.NewGray(image.Rect(0, 0, 16, 8))
	Border(dst, dst.Bounds(), color.White)

	for _, pt := range []image.Point{{0, 0}, {15, 0}, {0, 7}, {15, 7}, {8, 0}, {0, 4}} {
		if v := dst.GrayAt(pt.X, pt.Y).Y; v != 0xff {
			t.Errorf("expected border pixel %s to be set, got %#02x", pt, v)
		}
	}
	if v := dst.GrayAt(8, 4).Y; v != 0 {
		t.Errorf("expected inner pixel to be clear, got %#02x", v)
	}

	t.Run("clipped", func(it *testing.T) {
		dst := image.NewGray(image.Rect(0, 0, 4, 4))
		Border(dst, image.Rect(-10, -10, 100, 100), color.White)
		if v := dst.GrayAt(3, 3).Y; v != 0xff {
			it.Errorf("expected clipped corner to be set, got %#02x", v)
		}
	})
}

func TestSplash(t *testing.T) {
	dst := image.NewGray(image.Rect(0, 0, 128, 64))
	Splash(dst, "Bad Apple", color.White)

	var lit int
	for y := 2; y < 62; y++ {
		for x := 2; x < 126; x++ {
			if dst.GrayAt(x, y).Y > 0x80 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected text pixels inside the border")
	}
	if v := dst.GrayAt(0, 0).Y; v != 0xff {
		t.Errorf("expected border, got %#02x", v)
	}
}
