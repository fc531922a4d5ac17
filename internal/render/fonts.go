package render

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Font sources reported by Fonts.Source.
const (
	SourceTrueType  = "truetype"
	SourceGoFont    = "gofont"
	SourceBasicFont = "basicfont"
)

// Fonts holds parsed regular and bold typefaces. Parsed fonts are safe to
// share; faces built from them are not, so callers ask for a face per canvas.
type Fonts struct {
	regular *sfnt.Font
	bold    *sfnt.Font
	source  string
}

// LoadFonts parses the TrueType files at regularPath and boldPath, falling back
// to the embedded Go fonts and finally to basicfont. It never fails.
func LoadFonts(regularPath, boldPath string) *Fonts {
	regular, errRegular := parseFontFile(regularPath)
	bold, errBold := parseFontFile(boldPath)
	if errRegular == nil && errBold == nil {
		return &Fonts{regular: regular, bold: bold, source: SourceTrueType}
	}
	if errRegular == nil && bold == nil {
		return &Fonts{regular: regular, bold: regular, source: SourceTrueType}
	}
	if goFonts := embeddedGoFonts(); goFonts != nil {
		return goFonts
	}
	return &Fonts{source: SourceBasicFont}
}

var (
	goFontsOnce sync.Once
	goFonts     *Fonts
)

func embeddedGoFonts() *Fonts {
	goFontsOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			return
		}
		goFonts = &Fonts{regular: regular, bold: bold, source: SourceGoFont}
	})
	return goFonts
}

func parseFontFile(path string) (*sfnt.Font, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return opentype.Parse(data)
}

// Source reports which tier of the fallback chain supplied the fonts.
func (f *Fonts) Source() string {
	if f == nil {
		return SourceBasicFont
	}
	return f.source
}

// Face returns a new face at size points (72 DPI, so points equal pixels).
func (f *Fonts) Face(size float64, bold bool) font.Face {
	if f == nil {
		return basicfont.Face7x13
	}
	typeface := f.regular
	if bold && f.bold != nil {
		typeface = f.bold
	}
	if typeface == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(typeface, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
