package compose

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildArgsWithAudio(t *testing.T) {
	got := BuildArgs(Plan{
		Inputs:   []string{"card.png", "step_1.jpg"},
		PerAsset: 30,
		Audio:    "audio.wav",
		Output:   "out.mp4",
	})
	want := []string{
		"-y",
		"-loop", "1", "-t", "30", "-i", "card.png",
		"-loop", "1", "-t", "30", "-i", "step_1.jpg",
		"-i", "audio.wav",
		"-filter_complex", "[0:v][1:v]concat=n=2:v=1:a=0[outv]",
		"-map", "[outv]",
		"-map", "2:a", "-c:a", "aac", "-b:a", "192k", "-shortest",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-r", "30",
		"out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected argv\n got: %q\nwant: %q", got, want)
	}
}

func TestBuildArgsWithoutAudio(t *testing.T) {
	got := BuildArgs(Plan{
		Inputs:     []string{"a.png", "b.jpg", "c.jpg"},
		PerAsset:   20,
		Output:     "out.mp4",
		VideoCodec: "libx265",
		FrameRate:  24,
	})
	joined := strings.Join(got, " ")
	for _, flag := range []string{"-shortest", "-c:a", "aac"} {
		if strings.Contains(joined, flag) {
			t.Fatalf("audio flag %q present without audio: %s", flag, joined)
		}
	}
	if !strings.HasSuffix(joined, "-c:v libx265 -pix_fmt yuv420p -r 24 out.mp4") {
		t.Fatalf("unexpected tail: %s", joined)
	}
}

func TestBuildArgsFractionalDuration(t *testing.T) {
	got := BuildArgs(Plan{Inputs: []string{"a", "b", "c", "d", "e", "f", "g"}, PerAsset: 60.0 / 7, Output: "o"})
	if got[4] != "8.571428571428571" {
		t.Fatalf("expected full precision duration, got %q", got[4])
	}
}

func TestFilterGraphNormalize(t *testing.T) {
	got := FilterGraph(2, true)
	want := "[0:v]scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2,setsar=1[v0];" +
		"[1:v]scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2,setsar=1[v1];" +
		"[v0][v1]concat=n=2:v=1:a=0[outv]"
	if got != want {
		t.Fatalf("unexpected graph\n got: %s\nwant: %s", got, want)
	}
}

func TestOutputTail(t *testing.T) {
	if got := outputTail([]byte("short"), 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := outputTail([]byte("line one\nline two\nlast"), 12); got != "last" {
		t.Fatalf("expected tail trimmed to line start, got %q", got)
	}
}
