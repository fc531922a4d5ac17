package render

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Frame dimensions for vertical lesson video.
const (
	Width  = 1080
	Height = 1920
)

type canvas struct {
	img *image.RGBA
}

func newCanvas(bg color.Color) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &canvas{img: img}
}

func (c *canvas) fillRect(r image.Rectangle, fill color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(fill), image.Point{}, draw.Src)
}

// text draws s with its top edge at y, measured from the face ascent.
func (c *canvas) text(face font.Face, s string, x, y int, fill color.Color) {
	baseline := fixed.I(y) + face.Metrics().Ascent
	c.drawAt(face, s, fixed.I(x), baseline, fill)
}

// centeredText draws s horizontally centered with its ink box vertically
// centered on cy.
func (c *canvas) centeredText(face font.Face, s string, cy int, fill color.Color) {
	bounds, advance := font.BoundString(face, s)
	x := (fixed.I(Width) - advance) / 2
	inkMid := (bounds.Min.Y + bounds.Max.Y) / 2
	c.drawAt(face, s, x, fixed.I(cy)-inkMid, fill)
}

// centeredTextTop draws s horizontally centered with its top edge at y.
func (c *canvas) centeredTextTop(face font.Face, s string, y int, fill color.Color) {
	advance := font.MeasureString(face, s)
	x := (fixed.I(Width) - advance) / 2
	c.drawAt(face, s, x, fixed.I(y)+face.Metrics().Ascent, fill)
}

func (c *canvas) drawAt(face font.Face, s string, x, baseline fixed.Int26_6, fill color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(fill),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: baseline},
	}
	d.DrawString(s)
}

func writeJPEG(path string, img image.Image, quality int) error {
	return writeImage(path, func(w *bufio.Writer) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	})
}

func writePNG(path string, img image.Image) error {
	return writeImage(path, func(w *bufio.Writer) error {
		return png.Encode(w, img)
	})
}

func writeImage(path string, encode func(*bufio.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	bw := bufio.NewWriterSize(f, 1<<20)
	if err := encode(bw); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
