package compose

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame geometry every input is normalized to.
const (
	FrameWidth  = 1080
	FrameHeight = 1920
)

// Plan is everything BuildArgs needs to describe one encode.
type Plan struct {
	Inputs       []string
	PerAsset     float64
	Audio        string
	Output       string
	Normalize    bool
	VideoCodec   string
	AudioBitrate string
	FrameRate    int
}

// BuildArgs returns the ffmpeg argument vector (without the program name).
// Each input is looped for PerAsset seconds, inputs are concatenated in order,
// and an audio track, when present, is mapped explicitly and ends the output
// at the shorter stream.
func BuildArgs(plan Plan) []string {
	n := len(plan.Inputs)
	duration := formatSeconds(plan.PerAsset)
	args := make([]string, 0, 6*n+20)
	args = append(args, "-y")
	for _, input := range plan.Inputs {
		args = append(args, "-loop", "1", "-t", duration, "-i", input)
	}
	if plan.Audio != "" {
		args = append(args, "-i", plan.Audio)
	}
	args = append(args, "-filter_complex", FilterGraph(n, plan.Normalize), "-map", "[outv]")
	if plan.Audio != "" {
		args = append(args,
			"-map", strconv.Itoa(n)+":a",
			"-c:a", "aac",
			"-b:a", valueOr(plan.AudioBitrate, "192k"),
			"-shortest",
		)
	}
	frameRate := plan.FrameRate
	if frameRate <= 0 {
		frameRate = 30
	}
	args = append(args,
		"-c:v", valueOr(plan.VideoCodec, "libx264"),
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(frameRate),
		plan.Output,
	)
	return args
}

// FilterGraph builds the concat filter for n video inputs. With normalize set,
// each input is first scaled and padded to the frame size.
func FilterGraph(n int, normalize bool) string {
	var b strings.Builder
	if normalize {
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b,
				"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[v%d];",
				i, FrameWidth, FrameHeight, FrameWidth, FrameHeight, i)
		}
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "[v%d]", i)
		}
	} else {
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "[%d:v]", i)
		}
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=0[outv]", n)
	return b.String()
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
