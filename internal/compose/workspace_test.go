package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWorkspaceLayout(t *testing.T) {
	base := t.TempDir()
	ws, err := NewWorkspace(base)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(ws.Root), "bartender_") || filepath.Dir(ws.Root) != base {
		t.Fatalf("unexpected root %s", ws.Root)
	}
	for _, dir := range []string{ws.Assets, ws.Tmp, ws.Captions} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
	other, err := NewWorkspace(base)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if other.Root == ws.Root {
		t.Fatal("expected distinct workspaces")
	}

	if err := ws.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(ws.Root); !os.IsNotExist(err) {
		t.Fatalf("expected root removed, got %v", err)
	}
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("second Cleanup: %v", err)
	}
}

func TestWorkspaceWritesEmptySubtitles(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	path, err := ws.WriteSubtitles("")
	if err != nil {
		t.Fatalf("WriteSubtitles: %v", err)
	}
	if filepath.Base(path) != "lesson.srt" {
		t.Fatalf("unexpected path %s", path)
	}
	if data, err := os.ReadFile(path); err != nil || len(data) != 0 {
		t.Fatalf("expected empty file, got %q (%v)", data, err)
	}
}

func TestWorkspaceSaveAssetSanitizesAndDedupes(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	first, err := ws.SaveAsset("../../etc/step.png", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("SaveAsset: %v", err)
	}
	if filepath.Dir(first) != ws.Assets {
		t.Fatalf("asset escaped assets dir: %s", first)
	}
	second, err := ws.SaveAsset("step.png", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("SaveAsset: %v", err)
	}
	if first == second {
		t.Fatal("expected colliding upload to get a new name")
	}
	if data, _ := os.ReadFile(first); string(data) != "one" {
		t.Fatalf("first upload overwritten: %q", data)
	}
}

func TestWorkspaceSaveAudioKeepsExtension(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	path, err := ws.SaveAudio("narration.mp3", strings.NewReader("id3"))
	if err != nil {
		t.Fatalf("SaveAudio: %v", err)
	}
	if path != filepath.Join(ws.Root, "audio.mp3") {
		t.Fatalf("unexpected audio path %s", path)
	}
}
