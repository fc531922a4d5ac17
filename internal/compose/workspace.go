package compose

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"bartender/internal/textutil"
)

const (
	workspacePrefix  = "bartender_"
	subtitleFileName = "lesson.srt"
	// OutputFileName is the name of the encoded lesson video.
	OutputFileName = "lesson_final.mp4"
)

// Workspace is the per-request scratch directory tree.
type Workspace struct {
	ID       string
	Root     string
	Assets   string
	Tmp      string
	Captions string
}

// NewWorkspace creates base/bartender_{uuid} with assets, tmp, and captions
// subdirectories. An empty base uses the system temp directory.
func NewWorkspace(base string) (*Workspace, error) {
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	id := uuid.NewString()
	root := filepath.Join(base, workspacePrefix+id)
	ws := &Workspace{
		ID:       id,
		Root:     root,
		Assets:   filepath.Join(root, "assets"),
		Tmp:      filepath.Join(root, "tmp"),
		Captions: filepath.Join(root, "captions"),
	}
	for _, dir := range []string{ws.Assets, ws.Tmp, ws.Captions} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = os.RemoveAll(root)
			return nil, fmt.Errorf("create workspace: %w", err)
		}
	}
	return ws, nil
}

// SubtitlePath returns captions/lesson.srt.
func (w *Workspace) SubtitlePath() string {
	return filepath.Join(w.Captions, subtitleFileName)
}

// OutputPath returns the encoded video location.
func (w *Workspace) OutputPath() string {
	return filepath.Join(w.Root, OutputFileName)
}

// WriteSubtitles stores doc as captions/lesson.srt, even when empty.
func (w *Workspace) WriteSubtitles(doc string) (string, error) {
	path := w.SubtitlePath()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write subtitles: %w", err)
	}
	return path, nil
}

// SaveAsset copies r into assets/ under a sanitized form of name. Colliding
// names get a numeric suffix so upload order is preserved.
func (w *Workspace) SaveAsset(name string, r io.Reader) (string, error) {
	return w.save(w.Assets, textutil.SanitizeUploadName(name, "upload"), r)
}

// SaveAudio copies r into the workspace root as the narration track.
func (w *Workspace) SaveAudio(name string, r io.Reader) (string, error) {
	ext := filepath.Ext(textutil.SanitizeUploadName(name, "audio.wav"))
	if ext == "" {
		ext = ".wav"
	}
	return w.save(w.Root, "audio"+ext, r)
}

func (w *Workspace) save(dir, name string, r io.Reader) (string, error) {
	path := uniquePath(filepath.Join(dir, name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := path[:len(path)-len(ext)]
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// Cleanup removes the workspace tree. It is safe to call more than once.
func (w *Workspace) Cleanup() error {
	if w == nil || w.Root == "" {
		return nil
	}
	return os.RemoveAll(w.Root)
}
