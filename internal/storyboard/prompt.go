package storyboard

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("storyboard").Parse(`You are an AI mixology teacher.
Create a short storyboard for a {{.Seconds}}-second VERTICAL TikTok lesson about making
the cocktail "{{.Name}}" ({{.Spec}}).

Return ONLY JSON in this schema (no extra text):
{
  "cocktail_name": "string",
  "language": "{{.Language}}",
  "steps": [
    {"step_number": 1, "narration": "spoken line under 9s", "caption": "<= 60 chars"}
  ],
  "closing_line": "short sign-off"
}
`))

// BuildPrompt renders the storyboard prompt for req and a lesson length in seconds.
func BuildPrompt(req Request, seconds int) string {
	if seconds <= 0 {
		seconds = 60
	}
	var b strings.Builder
	_ = promptTemplate.Execute(&b, struct {
		Request
		Seconds int
	}{Request: req, Seconds: seconds})
	return b.String()
}
