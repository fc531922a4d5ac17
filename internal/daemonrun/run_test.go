package daemonrun

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bartender/internal/config"
	"bartender/internal/logging"
	"bartender/internal/logs"
	"bartender/internal/server"
	"bartender/internal/testsupport"
)

func TestBuildRequiresLLMKey(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLLMKey(""))
	if _, err := Build(cfg, logging.NewNop(), "test"); err == nil {
		t.Fatal("expected error without language model key")
	}
}

func TestBuildServesHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	d, err := Build(cfg, logging.NewNop(), "1.2.3")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Close()

	addr := d.Status(ctx).Address
	if addr == "" {
		t.Fatal("expected bound address")
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + addr + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health server.Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Version != "1.2.3" {
		t.Fatalf("version = %q", health.Version)
	}
	if health.Limiter == nil || health.Limiter.Capacity != int64(cfg.Server.MaxConcurrentJobs) {
		t.Fatalf("unexpected limiter stats: %+v", health.Limiter)
	}
	if health.FontSource == "" {
		t.Fatal("expected font source")
	}
}

func TestEnsureCurrentLogPointer(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "bartender-a.log")
	second := filepath.Join(dir, "bartender-b.log")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte(filepath.Base(path)), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := ensureCurrentLogPointer(dir, first); err != nil {
		t.Fatalf("first pointer: %v", err)
	}
	if err := ensureCurrentLogPointer(dir, second); err != nil {
		t.Fatalf("second pointer: %v", err)
	}
	data, err := os.ReadFile(logs.CurrentPath(dir))
	if err != nil {
		t.Fatalf("read pointer: %v", err)
	}
	if string(data) != "bartender-b.log" {
		t.Fatalf("pointer resolves to %q", data)
	}
}

func TestWritePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bartender.pid")
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		t.Fatal("expected pid contents")
	}
}

func TestWriteTimeoutCoversQueueAndEncode(t *testing.T) {
	cfg := config.Default()
	cfg.Render.EncodeTimeoutSeconds = 120
	cfg.Server.QueueTimeoutSeconds = 30
	if got, want := writeTimeout(&cfg), 3*time.Minute+30*time.Second; got != want {
		t.Fatalf("writeTimeout = %v, want %v", got, want)
	}
	cfg.Render.EncodeTimeoutSeconds = 0
	if got := writeTimeout(&cfg); got != 0 {
		t.Fatalf("expected server default for unbounded encodes, got %v", got)
	}
}
