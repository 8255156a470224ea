// Package charts renders the analysis figures. Chart bodies come from
// go-chart; the fixed annotation panels and multi-panel composites are drawn
// directly onto the decoded image, since go-chart has no notion of
// figure-relative text.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var annotationFace = basicfont.Face7x13

// drawText draws a string at pixel position (x, y baseline).
func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// textWidth measures a string in pixels for right alignment.
func textWidth(text string, face font.Face) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Ceil()
}

// annotateRel draws lines at figure-relative coordinates. relX is measured
// from the left edge, relY from the bottom edge (matching the historical
// figure layout), and each following line sits relStep lower.
func annotateRel(img *image.RGBA, lines []string, relX, relY, relStep float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	x := int(relX * float64(w))
	for i, line := range lines {
		y := int((1 - (relY - float64(i)*relStep)) * float64(h))
		drawText(img, line, x, y, color.Black, annotationFace)
	}
}

// decodeRGBA turns rendered chart bytes back into a drawable image.
func decodeRGBA(data []byte) (*image.RGBA, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

// composeRow lays panels left to right on a white canvas with headerHeight
// pixels of space above for title and summary text.
func composeRow(panels []*image.RGBA, headerHeight int) *image.RGBA {
	width, height := 0, 0
	for _, p := range panels {
		width += p.Bounds().Dx()
		if p.Bounds().Dy() > height {
			height = p.Bounds().Dy()
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height+headerHeight))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	x := 0
	for _, p := range panels {
		r := image.Rect(x, headerHeight, x+p.Bounds().Dx(), headerHeight+p.Bounds().Dy())
		draw.Draw(out, r, p, p.Bounds().Min, draw.Src)
		x += p.Bounds().Dx()
	}
	return out
}

// writePNG encodes img to path, creating parent directories and replacing
// any existing file.
func writePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
