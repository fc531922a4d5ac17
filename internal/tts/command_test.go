package tts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"bartender/internal/services"
	"bartender/internal/testsupport"
)

func TestParseTemplateDefault(t *testing.T) {
	argv, err := ParseTemplate(`edge-tts --voice '{voice}' --text "{text}" --write-media {out}`)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	want := []string{"edge-tts", "--voice", "{voice}", "--text", "{text}", "--write-media", "{out}"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv = %q, want %q", argv, want)
	}
}

func TestParseTemplateRejectsEmpty(t *testing.T) {
	if _, err := ParseTemplate("   "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestExpandKeepsTextAsSingleArgument(t *testing.T) {
	cmd, err := NewCommand(`say --voice={voice} --text "{text}" -o {out}`, 0, nil)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	text := `Shake hard; rm -rf / && echo "$HOME"`
	got := cmd.Expand("in.txt", "out.wav", "en-GB", text)
	want := []string{"say", "--voice=en-GB", "--text", text, "-o", "out.wav"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("argv = %q, want %q", got, want)
	}
	if cmd.Binary() != "say" {
		t.Fatalf("unexpected binary %q", cmd.Binary())
	}
}

func TestCommandSynthesizeReadsOutput(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-tts")
	// Copies the input text into the output file so the audio echoes the text.
	testsupport.WriteScript(t, script, `in=$1; voice=$2; out=$3
printf '%s:' "$voice" > "$out"
cat "$in" >> "$out"`)

	cmd, err := NewCommand(script+" {in} {voice} {out}", time.Minute, nil)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	cmd.tempDir = dir
	audio, err := cmd.Synthesize(context.Background(), "Cheers!", "en-US-AriaNeural")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "en-US-AriaNeural:Cheers!" {
		t.Fatalf("unexpected audio %q", audio)
	}
	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "bartender-tts-") {
			t.Fatalf("temp dir %s not removed", entry.Name())
		}
	}
}

func TestCommandSynthesizeFailures(t *testing.T) {
	dir := t.TempDir()
	failing := filepath.Join(dir, "failing")
	testsupport.WriteScript(t, failing, "echo 'voice not found' >&2\nexit 3")
	silent := filepath.Join(dir, "silent")
	testsupport.WriteScript(t, silent, ": > \"$1\"")

	tests := []struct {
		name     string
		template string
		want     error
	}{
		{name: "non-zero exit", template: failing + " {out}", want: services.ErrSynthesis},
		{name: "empty output", template: silent + " {out}", want: services.ErrSynthesis},
		{name: "missing program", template: filepath.Join(dir, "absent") + " {out}", want: services.ErrSynthesis},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := NewCommand(tc.template, time.Minute, nil)
			if err != nil {
				t.Fatalf("NewCommand: %v", err)
			}
			if _, err := cmd.Synthesize(context.Background(), "hello", "v"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCommandSynthesizeTimeout(t *testing.T) {
	script := filepath.Join(t.TempDir(), "slow")
	testsupport.WriteScript(t, script, "exec sleep 5")
	cmd, err := NewCommand(script, 100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	if _, err := cmd.Synthesize(context.Background(), "hello", "v"); !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestCommandSynthesizeRunsInVoiceScopedDir(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-tts")
	testsupport.WriteScript(t, script, `basename "$PWD" > "$1"`)

	cmd, err := NewCommand(script+" {out}", time.Minute, nil)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	cmd.tempDir = dir
	audio, err := cmd.Synthesize(context.Background(), "Cheers!", "en-US AriaNeural")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if name := strings.TrimSpace(string(audio)); !strings.HasPrefix(name, "bartender-tts-en-us_arianeural-") {
		t.Fatalf("unexpected working dir %q", name)
	}
}
