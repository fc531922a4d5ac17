package storyboard

import (
	"strings"

	"bartender/internal/language"
)

const (
	// DefaultName is the lesson name used when a request omits one.
	DefaultName = "Forest Whisperer"
	// DefaultLanguage is the narration language used when a request omits one.
	DefaultLanguage = "English"
	// DefaultSpec is the recipe spec used when a request omits one.
	DefaultSpec = "vodka 1.5 oz, maraschino 0.5 oz, cranberry 1 oz, lemon 0.5 oz; shake hard; fine strain; coupe; lemon twist"
	// DefaultClosingLine replaces a blank closing line in narration scripts.
	DefaultClosingLine = "Cheers!"
)

// Step is one narrated beat of a lesson.
type Step struct {
	Number    int    `json:"step_number" yaml:"step_number"`
	Narration string `json:"narration" yaml:"narration"`
	Caption   string `json:"caption" yaml:"caption"`
}

// Text returns the caption, falling back to the narration, trimmed.
func (s Step) Text() string {
	if caption := strings.TrimSpace(s.Caption); caption != "" {
		return caption
	}
	return strings.TrimSpace(s.Narration)
}

// Storyboard is the structured lesson returned by the language model.
type Storyboard struct {
	CocktailName string `json:"cocktail_name" yaml:"cocktail_name"`
	Language     string `json:"language" yaml:"language"`
	Steps        []Step `json:"steps" yaml:"steps"`
	ClosingLine  string `json:"closing_line" yaml:"closing_line"`
}

// Closing returns the trimmed closing line, or DefaultClosingLine when blank.
func (s Storyboard) Closing() string {
	if closing := strings.TrimSpace(s.ClosingLine); closing != "" {
		return closing
	}
	return DefaultClosingLine
}

// NarrationScript joins every step narration and the closing line with
// newlines, ready to hand to speech synthesis.
func (s Storyboard) NarrationScript() string {
	lines := make([]string, 0, len(s.Steps)+1)
	for _, step := range s.Steps {
		lines = append(lines, step.Narration)
	}
	lines = append(lines, s.Closing())
	return strings.Join(lines, "\n")
}

// Request describes the lesson to draft.
type Request struct {
	Name     string `json:"name"`
	Spec     string `json:"spec"`
	Language string `json:"language"`
}

// Defaults describes the fallbacks applied to blank request fields.
type Defaults struct {
	Name     string
	Spec     string
	Language string
}

// WithDefaults fills blank fields from d, then from the package defaults.
// Language codes such as "es" or "spa" are resolved to their display name.
func (r Request) WithDefaults(d Defaults) Request {
	r.Name = firstNonBlank(r.Name, d.Name, DefaultName)
	r.Spec = firstNonBlank(r.Spec, d.Spec, DefaultSpec)
	r.Language = language.Resolve(firstNonBlank(r.Language, d.Language, DefaultLanguage))
	return r
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
