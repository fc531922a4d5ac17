package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// CardFileName is the file name used for the recipe card inside a workspace.
const CardFileName = "recipe_card.png"

const cardFooter = "Enjoy responsibly."

var (
	cardBackground = color.RGBA{245, 241, 236, 255}
	cardInk        = color.RGBA{35, 35, 35, 255}
	cardAccent     = color.RGBA{120, 79, 44, 255}
	cardTitleInk   = color.RGBA{255, 255, 255, 255}
	cardFooterInk  = color.RGBA{100, 100, 100, 255}
)

// Card renders recipe as a PNG at path. Identical inputs produce identical
// bytes.
func Card(recipe Recipe, path string, opts Options) error {
	recipe = recipe.normalized()
	fonts := opts.fonts()
	title := fonts.Face(70, false)
	body := fonts.Face(38, false)
	small := fonts.Face(30, false)

	c := newCanvas(cardBackground)
	c.fillRect(image.Rect(0, 0, Width, 200), cardAccent)
	c.text(title, recipe.Title, 60, 60, cardTitleInk)

	y := 260
	c.text(body, "Ingredients", 60, y, cardInk)
	y += 60
	for _, line := range recipe.Ingredients {
		c.text(small, "• "+line, 80, y, cardInk)
		y += 46
	}

	y += 30
	c.text(body, "Method", 60, y, cardInk)
	y += 60
	for i, line := range recipe.Method {
		c.text(small, fmt.Sprintf("%d. %s", i+1, line), 80, y, cardInk)
		y += 46
	}

	c.text(small, cardFooter, 60, Height-100, cardFooterInk)

	if err := writePNG(path, c.img); err != nil {
		return fmt.Errorf("render card: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("recipe card rendered",
			"title", recipe.Title,
			"ingredients", len(recipe.Ingredients),
			"method_steps", len(recipe.Method),
			"font_source", fonts.Source(),
		)
	}
	return nil
}

func trimLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
