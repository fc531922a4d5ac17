package render

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bartender/internal/logging"
)

const (
	placeholderQuality = 92
	placeholderFooter  = "AI Bartender Teacher"
)

var (
	placeholderBackground = color.RGBA{245, 245, 245, 255}
	placeholderLabel      = color.RGBA{20, 20, 20, 255}
	placeholderFooterInk  = color.RGBA{90, 90, 90, 255}
)

// Options configures rendering.
type Options struct {
	Fonts   *Fonts
	Workers int
	Logger  *slog.Logger
}

func (o Options) fonts() *Fonts {
	if o.Fonts != nil {
		return o.Fonts
	}
	return LoadFonts("", "")
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// PlaceholderName returns the file name of placeholder frame i (1-based).
func PlaceholderName(i int) string {
	return fmt.Sprintf("step_%d.jpg", i)
}

// Placeholders renders n numbered frames into dir and returns their paths in
// step order. n <= 0 renders nothing.
func Placeholders(ctx context.Context, n int, dir string, opts Options) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	fonts := opts.fonts()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, PlaceholderName(i+1))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return renderPlaceholder(fonts, i+1, paths[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render placeholders: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Debug("placeholders rendered",
			logging.Int("count", n),
			logging.String("dir", dir),
			logging.String("font_source", fonts.Source()),
		)
	}
	return paths, nil
}

func renderPlaceholder(fonts *Fonts, step int, path string) error {
	c := newCanvas(placeholderBackground)
	c.centeredText(fonts.Face(120, true), fmt.Sprintf("Step %d", step), Height/3, placeholderLabel)
	c.centeredTextTop(fonts.Face(48, false), placeholderFooter, Height-140, placeholderFooterInk)
	return writeJPEG(path, c.img, placeholderQuality)
}
