package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bartender/internal/logging"
	"bartender/internal/render"
	"bartender/internal/services"
	"bartender/internal/testsupport"
)

const threeCueSRT = `1
00:00:00,000 --> 00:00:20,000
Step 1: Chill the glass

2
00:00:20,000 --> 00:00:40,000
Step 2: Shake

3
00:00:40,000 --> 00:01:00,000
Cheers!
`

func newTestOrchestrator(t *testing.T, ffmpegBody string) *Orchestrator {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(testsupport.BaseDir(cfg), "bin")
	testsupport.WriteScript(t, filepath.Join(binDir, "ffmpeg"), ffmpegBody)
	testsupport.WriteScript(t, filepath.Join(binDir, "ffprobe"), testsupport.FakeFFprobe)
	settings := SettingsFromConfig(cfg)
	settings.FFmpegBinary = filepath.Join(binDir, "ffmpeg")
	settings.FFprobeBinary = filepath.Join(binDir, "ffprobe")
	return NewOrchestrator(settings, logging.NewNop())
}

func readArgs(t *testing.T, output string) []string {
	t.Helper()
	data, err := os.ReadFile(output + ".args")
	if err != nil {
		t.Fatalf("read recorded argv: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestComposeRendersPlaceholderPerCue(t *testing.T) {
	orch := newTestOrchestrator(t, testsupport.FakeFFmpeg)
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	result, err := orch.Compose(context.Background(), Request{Workspace: ws, Subtitles: threeCueSRT, Title: "negroni"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(result.Assets) != 4 {
		t.Fatalf("expected card plus three placeholders, got %v", result.Assets)
	}
	if filepath.Base(result.Assets[0]) != "recipe_card.png" {
		t.Fatalf("expected card first, got %s", result.Assets[0])
	}
	for i, asset := range result.Assets[1:] {
		if want := filepath.Join(ws.Tmp, render.PlaceholderName(i+1)); asset != want {
			t.Fatalf("asset %d = %s, want %s", i+1, asset, want)
		}
	}
	if result.PerAsset != 15 {
		t.Fatalf("expected 15s per asset, got %v", result.PerAsset)
	}
	if result.ProbedDuration != 60 {
		t.Fatalf("expected probed duration 60, got %v", result.ProbedDuration)
	}
	if result.Output != filepath.Join(ws.Root, OutputFileName) {
		t.Fatalf("unexpected output %s", result.Output)
	}
	if data, err := os.ReadFile(ws.SubtitlePath()); err != nil || string(data) != threeCueSRT {
		t.Fatalf("caption file not stored: %v", err)
	}

	args := readArgs(t, result.Output)
	joined := strings.Join(args, " ")
	if strings.Count(joined, "-t 15 -i") != 4 {
		t.Fatalf("expected four 15s inputs: %s", joined)
	}
	if strings.Contains(joined, "-shortest") {
		t.Fatalf("unexpected audio mapping without audio: %s", joined)
	}
}

func TestComposeFallsBackToDefaultPlaceholderCount(t *testing.T) {
	orch := newTestOrchestrator(t, testsupport.FakeFFmpeg)
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	result, err := orch.Compose(context.Background(), Request{Workspace: ws})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(result.Assets) != 7 {
		t.Fatalf("expected card plus six placeholders, got %d", len(result.Assets))
	}
	if got := readArgs(t, result.Output)[4]; got != "8.571428571428571" {
		t.Fatalf("unexpected per-asset duration %q", got)
	}
}

func TestComposeUsesUploadsAndAudio(t *testing.T) {
	orch := newTestOrchestrator(t, testsupport.FakeFFmpeg)
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	first, _ := ws.SaveAsset("b.jpg", strings.NewReader("x"))
	second, _ := ws.SaveAsset("a.jpg", strings.NewReader("y"))
	audio, _ := ws.SaveAudio("voice.wav", strings.NewReader("RIFF"))

	result, err := orch.Compose(context.Background(), Request{
		Workspace: ws,
		Images:    []string{first, second},
		Audio:     audio,
		Subtitles: threeCueSRT,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(result.Assets) != 3 || result.Assets[1] != first || result.Assets[2] != second {
		t.Fatalf("expected uploads in request order after card, got %v", result.Assets)
	}
	if _, err := os.Stat(filepath.Join(ws.Tmp, "step_1.jpg")); !os.IsNotExist(err) {
		t.Fatal("placeholders rendered despite uploads")
	}
	joined := strings.Join(readArgs(t, result.Output), " ")
	if !strings.Contains(joined, "-i "+audio) || !strings.Contains(joined, "-map 3:a") || !strings.Contains(joined, "-shortest") {
		t.Fatalf("audio not mapped: %s", joined)
	}
}

func TestComposeReportsFFmpegFailure(t *testing.T) {
	orch := newTestOrchestrator(t, "echo 'Invalid data found when processing input' >&2\nexit 1")
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	_, err = orch.Compose(context.Background(), Request{Workspace: ws, Subtitles: threeCueSRT})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestComposeRejectsEmptyOutput(t *testing.T) {
	orch := newTestOrchestrator(t, "exit 0")
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	_, err = orch.Compose(context.Background(), Request{Workspace: ws})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestComposeEncodeTimeout(t *testing.T) {
	orch := newTestOrchestrator(t, "exec sleep 5")
	orch.settings.EncodeTimeout = 100 * time.Millisecond
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	_, err = orch.Compose(context.Background(), Request{Workspace: ws, Subtitles: threeCueSRT})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestComposeRequiresWorkspace(t *testing.T) {
	orch := newTestOrchestrator(t, testsupport.FakeFFmpeg)
	if _, err := orch.Compose(context.Background(), Request{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type recordingRunner struct {
	binary string
	args   []string
}

func (r *recordingRunner) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	r.binary = binary
	r.args = args
	return nil, os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
}

func TestComposeWithInjectedRunner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	settings := SettingsFromConfig(cfg)
	settings.FFprobeBinary = ""
	runner := &recordingRunner{}
	orch := NewOrchestrator(settings, nil, WithRunner(runner))
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	result, err := orch.Compose(context.Background(), Request{Workspace: ws, Subtitles: threeCueSRT})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if runner.binary != "ffmpeg" || runner.args[0] != "-y" {
		t.Fatalf("unexpected invocation %s %v", runner.binary, runner.args)
	}
	if result.ProbedDuration != 0 {
		t.Fatalf("expected probe skipped, got %v", result.ProbedDuration)
	}
}

func TestComposeRejectsNarrationWithoutAudio(t *testing.T) {
	orch := newTestOrchestrator(t, testsupport.FakeFFmpeg)
	videoOnly := filepath.Join(t.TempDir(), "ffprobe")
	testsupport.WriteScript(t, videoOnly, `cat <<'JSON'
{"streams":[{"codec_type":"video","width":1080,"height":1920}],"format":{"duration":"60.0"}}
JSON`)
	orch.settings.FFprobeBinary = videoOnly
	ws, err := orch.NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Cleanup() })

	audio, _ := ws.SaveAudio("voice.wav", strings.NewReader("not audio"))
	_, err = orch.Compose(context.Background(), Request{Workspace: ws, Audio: audio, Subtitles: threeCueSRT})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "has no audio stream") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, statErr := os.Stat(ws.OutputPath()); !os.IsNotExist(statErr) {
		t.Fatal("ffmpeg ran despite rejected narration")
	}
}
