package subtitles

import "math"

// DefaultTotal is the fixed lesson length in seconds.
const DefaultTotal = 60.0

// Interval is a half-open time span in seconds.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// Allocate splits total into steps+1 equal contiguous intervals. Negative step
// counts are treated as zero, a non-positive total yields zero-width
// intervals at 0, and the final interval always ends exactly at total.
func Allocate(total float64, steps int) []Interval {
	if steps < 0 {
		steps = 0
	}
	count := steps + 1
	out := make([]Interval, count)
	if total <= 0 || math.IsNaN(total) {
		return out
	}
	width := total / float64(count)
	start := 0.0
	for i := range out {
		end := math.Min(total, float64(i+1)*width)
		if i == count-1 {
			end = total
		}
		out[i] = Interval{Start: start, End: end}
		start = end
	}
	return out
}
