package storyboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bartender/internal/services"
)

type stubCompleter struct {
	reply  string
	err    error
	prompt string
}

func (s *stubCompleter) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestGeneratorAppliesDefaultsToPrompt(t *testing.T) {
	stub := &stubCompleter{reply: validReply}
	gen := NewGenerator(stub, Defaults{Language: "Italian"}, 60, nil)

	sb, err := gen.Generate(context.Background(), Request{Name: "Negroni"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(sb.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(sb.Steps))
	}
	for _, want := range []string{`the cocktail "Negroni" (` + DefaultSpec + `)`, `"language": "Italian"`, "60-second VERTICAL"} {
		if !strings.Contains(stub.prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, stub.prompt)
		}
	}
}

func TestGeneratorCategorizesFailures(t *testing.T) {
	gen := NewGenerator(&stubCompleter{err: errors.New("http 500")}, Defaults{}, 60, nil)
	if _, err := gen.Generate(context.Background(), Request{}); !errors.Is(err, services.ErrGeneration) {
		t.Fatalf("expected ErrGeneration for transport failure, got %v", err)
	}

	gen = NewGenerator(&stubCompleter{reply: "sorry, no"}, Defaults{}, 60, nil)
	if _, err := gen.Generate(context.Background(), Request{}); !errors.Is(err, services.ErrGeneration) {
		t.Fatalf("expected ErrGeneration for bad reply, got %v", err)
	}

	if _, err := NewGenerator(nil, Defaults{}, 60, nil).Generate(context.Background(), Request{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration without completer, got %v", err)
	}
}

func TestGeneratorCancelledContextIsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := NewGenerator(&stubCompleter{err: context.Canceled}, Defaults{}, 60, nil)
	if _, err := gen.Generate(ctx, Request{}); !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestWriteReadFileRoundTripsYAMLAndJSON(t *testing.T) {
	sb, err := Parse(validReply)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dir := t.TempDir()
	for _, name := range []string{"lesson.yaml", "nested/lesson.json"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(sb, path); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile %s: %v", name, err)
		}
		if got.CocktailName != sb.CocktailName || len(got.Steps) != 2 || got.Steps[0].Caption != "Chill the glass" {
			t.Fatalf("%s: unexpected storyboard %#v", name, got)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "lesson.yaml"))
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if !strings.Contains(string(data), "step_number: 1") {
		t.Fatalf("expected snake_case yaml keys, got:\n%s", data)
	}
}

func TestReadFileRejectsNonPositiveYAMLStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - step_number: 0\n    narration: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRequestWithDefaultsResolvesLanguageCodes(t *testing.T) {
	tests := []struct {
		req      Request
		defaults Defaults
		want     string
	}{
		{Request{Language: "es"}, Defaults{}, "Spanish"},
		{Request{}, Defaults{Language: "deu"}, "German"},
		{Request{}, Defaults{}, DefaultLanguage},
		{Request{Language: "tagalog"}, Defaults{}, "Tagalog"},
	}
	for _, tt := range tests {
		if got := tt.req.WithDefaults(tt.defaults).Language; got != tt.want {
			t.Errorf("WithDefaults(%+v, %+v).Language = %q, want %q", tt.req, tt.defaults, got, tt.want)
		}
	}
}
