package storyboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"bartender/internal/services"
	"bartender/internal/services/llm"
)

// wire mirrors Storyboard with pointer fields so missing keys are detectable.
type wire struct {
	CocktailName *string    `json:"cocktail_name"`
	Language     *string    `json:"language"`
	Steps        []wireStep `json:"steps"`
	ClosingLine  *string    `json:"closing_line"`
}

type wireStep struct {
	Number    *int    `json:"step_number"`
	Narration *string `json:"narration"`
	Caption   *string `json:"caption"`
}

// Parse strictly decodes a model reply into a Storyboard. A surrounding code
// fence is tolerated; anything else that deviates from the schema fails with
// services.ErrGeneration.
func Parse(text string) (Storyboard, error) {
	body := strings.TrimSpace(llm.StripCodeFence(text))
	if body == "" {
		return Storyboard{}, parseError("empty storyboard response", nil)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()
	var raw wire
	if err := dec.Decode(&raw); err != nil {
		return Storyboard{}, parseError("decode storyboard json: "+llm.SummarizeSnippet(body), err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Storyboard{}, parseError("unexpected data after storyboard object", nil)
	}

	var missing []string
	if raw.CocktailName == nil {
		missing = append(missing, "cocktail_name")
	}
	if raw.Language == nil {
		missing = append(missing, "language")
	}
	if raw.Steps == nil {
		missing = append(missing, "steps")
	}
	if raw.ClosingLine == nil {
		missing = append(missing, "closing_line")
	}
	if len(missing) > 0 {
		return Storyboard{}, parseError("missing keys: "+strings.Join(missing, ", "), nil)
	}

	sb := Storyboard{
		CocktailName: strings.TrimSpace(*raw.CocktailName),
		Language:     strings.TrimSpace(*raw.Language),
		ClosingLine:  *raw.ClosingLine,
		Steps:        make([]Step, 0, len(raw.Steps)),
	}
	for idx, step := range raw.Steps {
		if step.Number == nil || step.Narration == nil || step.Caption == nil {
			return Storyboard{}, parseError(fmt.Sprintf("step %d: step_number, narration, and caption are required", idx+1), nil)
		}
		if *step.Number <= 0 {
			return Storyboard{}, parseError(fmt.Sprintf("step %d: step_number must be positive, got %d", idx+1, *step.Number), nil)
		}
		sb.Steps = append(sb.Steps, Step{Number: *step.Number, Narration: *step.Narration, Caption: *step.Caption})
	}
	return sb, nil
}

func parseError(message string, err error) error {
	return services.Wrap(services.ErrGeneration, "storyboard", "parse", message, err)
}
