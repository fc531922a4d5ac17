package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const timeTolerance = 0.0015

// CountCues counts lines that consist solely of ASCII digits once trimmed.
// Empty or malformed documents count as zero.
func CountCues(doc string) int {
	count := 0
	for _, line := range strings.Split(doc, "\n") {
		if isIndexLine(line) {
			count++
		}
	}
	return count
}

func isIndexLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] < '0' || line[i] > '9' {
			return false
		}
	}
	return true
}

// Parse reads an SRT document into cues. Blank input yields no cues.
func Parse(doc string) ([]Cue, error) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	var cues []Cue
	for _, block := range strings.Split(strings.TrimSpace(doc), "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("cue %d: incomplete block", len(cues)+1)
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, fmt.Errorf("cue %d: invalid index %q", len(cues)+1, lines[0])
		}
		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			return nil, fmt.Errorf("cue %d: missing timing arrow", index)
		}
		start, err := parseTimestamp(parts[0])
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", index, err)
		}
		end, err := parseTimestamp(parts[1])
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", index, err)
		}
		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}
	return cues, nil
}

// Validate checks doc for format issues and, when total is positive, that the
// cues tile [0, total]. An empty slice means the document passed.
func Validate(doc string, total float64) []string {
	cues, err := Parse(doc)
	if err != nil {
		return []string{fmt.Sprintf("invalid_timestamp: %v", err)}
	}
	if len(cues) == 0 {
		return []string{"empty_subtitle_file"}
	}

	var issues []string
	prevEnd := 0.0
	for idx, cue := range cues {
		if cue.Index != idx+1 {
			issues = append(issues, fmt.Sprintf("index_out_of_order: cue %d has index %d", idx+1, cue.Index))
		}
		if cue.End < cue.Start {
			issues = append(issues, fmt.Sprintf("invalid_timestamp: cue %d ends before it starts", cue.Index))
		}
		if math.Abs(cue.Start-prevEnd) > timeTolerance {
			issues = append(issues, fmt.Sprintf("non_contiguous: cue %d starts at %.3fs, previous ended at %.3fs", cue.Index, cue.Start, prevEnd))
		}
		prevEnd = cue.End
	}
	if total > 0 {
		if delta := prevEnd - total; math.Abs(delta) > timeTolerance {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.3fs", delta))
		}
	}
	return issues
}
