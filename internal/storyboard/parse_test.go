package storyboard

import (
	"errors"
	"strings"
	"testing"

	"bartender/internal/services"
)

const validReply = `{
  "cocktail_name": "Forest Whisperer",
  "language": "English",
  "steps": [
    {"step_number": 1, "narration": "Chill a coupe.", "caption": "Chill the glass"},
    {"step_number": 2, "narration": "Shake with ice.", "caption": ""}
  ],
  "closing_line": "Cheers!"
}`

func TestParseAcceptsFencedReply(t *testing.T) {
	sb, err := Parse("```json\n" + validReply + "\n```")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sb.CocktailName != "Forest Whisperer" || len(sb.Steps) != 2 {
		t.Fatalf("unexpected storyboard %#v", sb)
	}
	if sb.Steps[1].Text() != "Shake with ice." {
		t.Fatalf("expected narration fallback, got %q", sb.Steps[1].Text())
	}
}

func TestParseAllowsZeroSteps(t *testing.T) {
	sb, err := Parse(`{"cocktail_name":"x","language":"English","steps":[],"closing_line":"Bye"}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(sb.Steps) != 0 || sb.NarrationScript() != "Bye" {
		t.Fatalf("unexpected storyboard %#v", sb)
	}
}

func TestParseRejectsSchemaDeviations(t *testing.T) {
	cases := map[string]string{
		"empty":          "   ",
		"not json":       "Here is your lesson!",
		"unknown key":    `{"cocktail_name":"x","language":"en","steps":[],"closing_line":"y","mood":"fun"}`,
		"missing steps":  `{"cocktail_name":"x","language":"en","closing_line":"y"}`,
		"null steps":     `{"cocktail_name":"x","language":"en","steps":null,"closing_line":"y"}`,
		"missing close":  `{"cocktail_name":"x","language":"en","steps":[]}`,
		"step missing":   `{"cocktail_name":"x","language":"en","steps":[{"step_number":1,"narration":"n"}],"closing_line":"y"}`,
		"step zero":      `{"cocktail_name":"x","language":"en","steps":[{"step_number":0,"narration":"n","caption":"c"}],"closing_line":"y"}`,
		"wrong type":     `{"cocktail_name":"x","language":"en","steps":[{"step_number":"1","narration":"n","caption":"c"}],"closing_line":"y"}`,
		"trailing value": `{"cocktail_name":"x","language":"en","steps":[],"closing_line":"y"} {}`,
		"array":          `[]`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatal("expected parse failure")
			}
			if !errors.Is(err, services.ErrGeneration) {
				t.Fatalf("expected ErrGeneration, got %v", err)
			}
		})
	}
}

func TestParseMissingKeysAreNamed(t *testing.T) {
	_, err := Parse(`{"steps":[]}`)
	if err == nil || !strings.Contains(err.Error(), "cocktail_name, language, closing_line") {
		t.Fatalf("expected missing key list, got %v", err)
	}
}

func TestNarrationScriptDefaultsClosing(t *testing.T) {
	sb := Storyboard{Steps: []Step{{Number: 1, Narration: "one"}, {Number: 2, Narration: "two"}}, ClosingLine: "  "}
	if got := sb.NarrationScript(); got != "one\ntwo\nCheers!" {
		t.Fatalf("unexpected narration script %q", got)
	}
}
