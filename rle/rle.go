// Package rle decodes and encodes run-length encoded monochrome animation frames.
//
// A stream is a sequence of run lengths, one byte each, without header or frame
// markers. Every frame starts with an off run and the colour alternates with each
// run, so only the transitions are stored. A run counts source pixels; each source
// pixel covers Scale consecutive framebuffer bytes of either 0x00 or 0xFF. Frames
// end once their runs fill exactly one framebuffer.
package rle

import (
	"errors"
	"fmt"
)

// Framebuffer byte values.
const (
	Off byte = 0x00
	On  byte = 0xff
)

// MaxRun is the longest run a single byte can store. Longer runs are split by an
// empty run of the other colour.
const MaxRun = 0xff

// Errors
var (
	ErrShortStream  = errors.New("rle: stream ends before the frame is complete")
	ErrOverrun      = errors.New("rle: run overruns the frame")
	ErrNotEncodable = errors.New("rle: frame is not encodable")
)

// Decoder decodes frames for one display geometry.
type Decoder struct {
	// Scale is the number of framebuffer bytes per source pixel.
	Scale int
}

// NewDecoder returns a decoder that scales sourceWidth pixels up to displayWidth bytes.
func NewDecoder(displayWidth, sourceWidth int) (*Decoder, error) {
	if displayWidth <= 0 || sourceWidth <= 0 {
		return nil, fmt.Errorf("rle: invalid widths %d and %d", displayWidth, sourceWidth)
	}
	if displayWidth%sourceWidth != 0 {
		return nil, fmt.Errorf("rle: display width %d is not a multiple of source width %d", displayWidth, sourceWidth)
	}
	return &Decoder{Scale: displayWidth / sourceWidth}, nil
}

// Decode clears dst and fills it with the frame starting at cursor in stream. It
// returns the cursor of the next frame.
//
// On error dst holds the partially decoded frame.
func (d *Decoder) Decode(dst, stream []byte, cursor int) (next int, err error) {
	for i := range dst {
		dst[i] = Off
	}

	var (
		color = Off
		i     int
	)
	for i < len(dst) {
		if cursor < 0 || cursor >= len(stream) {
			return cursor, fmt.Errorf("%w: at offset %d, %d of %d bytes decoded", ErrShortStream, cursor, i, len(dst))
		}
		n := int(stream[cursor]) * d.Scale
		cursor++

		if i+n > len(dst) {
			fill(dst[i:], color)
			return cursor, fmt.Errorf("%w: run of %d bytes at offset %d, %d bytes left", ErrOverrun, n, cursor-1, len(dst)-i)
		}
		fill(dst[i:i+n], color)
		i += n

		color = ^color
	}
	return cursor, nil
}

func fill(p []byte, v byte) {
	for i := range p {
		p[i] = v
	}
}

// Scan walks stream and returns the offset of every frame, for frames of frameSize
// framebuffer bytes. The stream must end on a frame boundary.
func Scan(stream []byte, frameSize, scale int) (offsets []int, err error) {
	if frameSize <= 0 || scale <= 0 {
		return nil, fmt.Errorf("rle: invalid frame size %d and scale %d", frameSize, scale)
	}
	var cursor int
	for cursor < len(stream) {
		offsets = append(offsets, cursor)

		var n int
		for n < frameSize {
			if cursor >= len(stream) {
				return offsets, fmt.Errorf("%w: frame %d at offset %d", ErrShortStream, len(offsets)-1, offsets[len(offsets)-1])
			}
			n += int(stream[cursor]) * scale
			cursor++
		}
		if n != frameSize {
			return offsets, fmt.Errorf("%w: frame %d at offset %d decodes to %d bytes", ErrOverrun, len(offsets)-1, offsets[len(offsets)-1], n)
		}
	}
	return offsets, nil
}

// Encode appends the runs of frame to dst. Every group of scale bytes in frame
// must be all Off or all On.
func Encode(dst, frame []byte, scale int) ([]byte, error) {
	if scale <= 0 || len(frame)%scale != 0 {
		return dst, fmt.Errorf("%w: %d bytes do not divide into groups of %d", ErrNotEncodable, len(frame), scale)
	}

	var (
		color = Off
		run   int
	)
	for i := 0; i < len(frame); i += scale {
		v := frame[i]
		if v != Off && v != On {
			return dst, fmt.Errorf("%w: byte %d is %#02x", ErrNotEncodable, i, v)
		}
		for j := i + 1; j < i+scale; j++ {
			if frame[j] != v {
				return dst, fmt.Errorf("%w: byte %d differs from its group", ErrNotEncodable, j)
			}
		}

		if v != color {
			dst = appendRun(dst, run)
			color, run = v, 0
		}
		run++
	}
	if len(frame) > 0 {
		dst = appendRun(dst, run)
	}
	return dst, nil
}

func appendRun(dst []byte, run int) []byte {
	for run > MaxRun {
		dst = append(dst, MaxRun, 0)
		run -= MaxRun
	}
	return append(dst, byte(run))
}
