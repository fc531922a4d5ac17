package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bartender/internal/config"
	"bartender/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass with a 1 byte minimum, got: %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, 1<<62); result.Passed {
		t.Fatal("expected failure for an impossible minimum")
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for a missing path")
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 30: "5.0 GiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func geminiServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"API key not valid"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"finishReason": "STOP",
				"content":      map[string]any{"parts": []any{map[string]any{"text": text}}},
			}},
		})
	}))
}

func TestCheckLLM(t *testing.T) {
	ok := geminiServer(t, http.StatusOK, `{"ok":true}`)
	defer ok.Close()
	if result := CheckLLM(context.Background(), config.LLM{APIKey: "k", BaseURL: ok.URL, Model: "m"}); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	denied := geminiServer(t, http.StatusUnauthorized, "")
	defer denied.Close()
	if result := CheckLLM(context.Background(), config.LLM{APIKey: "bad", BaseURL: denied.URL}); result.Passed {
		t.Fatal("expected failure for rejected key")
	}

	if result := CheckLLM(context.Background(), config.LLM{}); result.Passed || result.Detail != "API key missing" {
		t.Fatalf("expected missing key failure, got %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReportsEveryCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithScript("edge-tts", "exit 0"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if r.Name == "Work directory space" {
			continue
		}
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	want := "Work directory,Work directory space,Log directory,Storyboard LLM key,Speech synthesis"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("checks = %s, want %s", got, want)
	}
}

func TestRunAll_MissingWorkDirFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := Failed(RunAll(context.Background(), cfg))
	if len(results) == 0 || results[0].Name != "Work directory" {
		t.Fatalf("expected work directory failure first, got %+v", results)
	}
}

func TestWorkDirDefaultsToTemp(t *testing.T) {
	cfg := config.Default()
	if got := WorkDir(&cfg); got != os.TempDir() {
		t.Fatalf("expected temp dir, got %s", got)
	}
}

func TestCheckTTSConfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTTSTemplate("bartender-missing-tts {out}"))
	if result := CheckTTSConfigured(cfg); result.Passed {
		t.Fatalf("expected failure without engines, got %+v", result)
	}
	cfg.TTS.ElevenLabsAPIKey = "key"
	if result := CheckTTSConfigured(cfg); !result.Passed || result.Detail != "elevenlabs" {
		t.Fatalf("expected elevenlabs engine, got %+v", result)
	}
}
