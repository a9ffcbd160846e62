package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Rendering is deterministic: fixed canvas width, fixed line height, and
// per-line truncation, so the same text always produces the same image.
const (
	canvasWidth  = 840
	lineHeight   = 14
	maxLineChars = 120
	marginX      = 8
	marginY      = 6
)

// RenderText draws text as a monospace raster image and writes it as a PNG.
// It is a visual aid only; callers treat failure as non-fatal.
func RenderText(text string, path string) error {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if len(line) > maxLineChars {
			lines[i] = line[:maxLineChars]
		}
	}

	height := len(lines)*lineHeight + 2*marginY
	if height < lineHeight+2*marginY {
		height = lineHeight + 2*marginY
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0x33, G: 0xff, B: 0x66, A: 0xff}),
		Face: face,
	}

	for i, line := range lines {
		drawer.Dot = fixed.P(marginX, marginY+(i+1)*lineHeight-3)
		drawer.DrawString(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create render file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode render: %w", err)
	}
	return nil
}
