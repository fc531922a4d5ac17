package subtitles

import (
	"strconv"
	"strings"

	"bartender/internal/storyboard"
)

// Cue is a single subtitle entry. Index is the 1-based emission order.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// BuildCues lays out one cue per step followed by the closing cue.
func BuildCues(steps []storyboard.Step, closing string, total float64) []Cue {
	intervals := Allocate(total, len(steps))
	cues := make([]Cue, 0, len(intervals))
	for idx, step := range steps {
		cues = append(cues, Cue{
			Index: idx + 1,
			Start: intervals[idx].Start,
			End:   intervals[idx].End,
			Text:  step.Text(),
		})
	}
	last := intervals[len(intervals)-1]
	cues = append(cues, Cue{
		Index: len(cues) + 1,
		Start: last.Start,
		End:   last.End,
		Text:  strings.TrimSpace(closing),
	})
	return cues
}

// Build renders the SRT document for steps and closing over total seconds.
func Build(steps []storyboard.Step, closing string, total float64) string {
	return Render(BuildCues(steps, closing, total))
}

// BuildStoryboard renders the SRT document for a storyboard.
func BuildStoryboard(sb storyboard.Storyboard, total float64) string {
	return Build(sb.Steps, sb.ClosingLine, total)
}

// Render serializes cues, separating them with a single blank line.
func Render(cues []Cue) string {
	blocks := make([]string, 0, len(cues))
	for _, cue := range cues {
		var b strings.Builder
		b.WriteString(strconv.Itoa(cue.Index))
		b.WriteString("\n00:")
		b.WriteString(FormatTimestamp(cue.Start))
		b.WriteString(" --> 00:")
		b.WriteString(FormatTimestamp(cue.End))
		b.WriteByte('\n')
		b.WriteString(cue.Text)
		b.WriteByte('\n')
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}
