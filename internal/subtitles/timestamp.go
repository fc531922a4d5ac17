package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTimestamp renders seconds as MM:SS,mmm. Negative input clamps to zero,
// minutes are unbounded, and a millisecond value that rounds up to 1000 is
// carried into the seconds.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := math.Floor(seconds)
	millis := int64(math.Round((seconds - whole) * 1000))
	secs := int64(whole)
	if millis >= 1000 {
		secs++
		millis -= 1000
	}
	return fmt.Sprintf("%02d:%02d,%03d", secs/60, secs%60, millis)
}

// parseTimestamp accepts HH:MM:SS,mmm and MM:SS,mmm (comma or period).
func parseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 || len(timeParts[1]) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	clock := strings.Split(timeParts[0], ":")
	if len(clock) < 2 || len(clock) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	total := 0
	for idx, part := range clock {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		if idx == len(clock)-1 && n >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q: seconds out of range", value)
		}
		total = total*60 + n
	}
	millis, err := strconv.Atoi(timeParts[1])
	if err != nil || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(total) + float64(millis)/1000, nil
}
