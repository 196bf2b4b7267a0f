// Command rle-encode converts a sequence of image frames into a run-length encoded animation stream.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"

	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/rle"
)

func main() {
	widthFlag := flag.Int("width", 128, "Display width")
	heightFlag := flag.Int("height", 64, "Display height")
	sourceWidthFlag := flag.Int("source-width", 32, "Animation width in source pixels")
	outputFlag := flag.String("o", "frames.rle", "Output stream file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <frame>...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	decoder, err := rle.NewDecoder(*widthFlag, *sourceWidthFlag)
	if err != nil {
		fatal(err)
	}

	var (
		pages = (*heightFlag + pixel.PageHeight - 1) / pixel.PageHeight
		names = flag.Args()
	)

	var stream []byte
	for n, name := range names {
		img, err := load(name)
		if err != nil {
			fatal(err)
		}
		frame := rle.FrameFromImage(img, *widthFlag, pages, decoder.Scale)
		if stream, err = rle.Encode(stream, frame, decoder.Scale); err != nil {
			fatal(fmt.Errorf("frame %d (%s): %w", n, filepath.Base(name), err))
		}
	}

	// Validate the result the same way the player does.
	offsets, err := rle.Scan(stream, *widthFlag*pages, decoder.Scale)
	if err != nil {
		fatal(err)
	}
	if err = os.WriteFile(*outputFlag, stream, 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %d frames (%d bytes) to %s\n", len(offsets), len(stream), *outputFlag)
}

func load(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
