package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Width: 1080, Height: 1920, FrameRate: "30/1"},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "60.000000", Size: "1000"},
	}
	video, ok := result.VideoStream()
	if !ok || video.Width != 1080 || video.FramesPerSecond() != 30 {
		t.Fatalf("unexpected video stream %#v", video)
	}
	if !result.HasAudio() {
		t.Fatal("expected audio stream")
	}
	if result.DurationSeconds() != 60 || result.SizeBytes() != 1000 {
		t.Fatalf("unexpected format helpers: %v %d", result.DurationSeconds(), result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if _, ok := result.VideoStream(); ok {
		t.Fatal("expected no video stream")
	}
	if (Stream{FrameRate: "0/0"}).FramesPerSecond() != 0 {
		t.Fatal("expected zero fps for 0/0")
	}
}

func TestInspectWithStubBinary(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n{\"streams\":[{\"codec_type\":\"video\",\"width\":1080,\"height\":1920}],\"format\":{\"duration\":\"12.5\"}}\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Inspect(context.Background(), stub, "/tmp/lesson.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if seconds := result.DurationSeconds(); seconds != 12.5 {
		t.Fatalf("expected 12.5, got %v", seconds)
	}
	if result.HasAudio() {
		t.Fatal("expected no audio stream")
	}
}

func TestInspectFailureIncludesStderr(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'no such file' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(context.Background(), stub, "missing.mp4"); err == nil {
		t.Fatal("expected failure")
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected empty path failure")
	}
}
