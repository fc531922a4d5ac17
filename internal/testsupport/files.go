package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScript writes an executable /bin/sh script with body to path.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

// FakeFFmpeg is a shell body for an ffmpeg stub that records its argv, one
// argument per line, next to the output file and then writes a few bytes to
// the output path (the last argument).
const FakeFFmpeg = `for last; do :; done
printf '%s\n' "$@" > "$last.args"
printf 'mp4' > "$last"`

// FakeFFprobe is a shell body for an ffprobe stub that reports a 60 second
// 1080x1920 video with one audio stream.
const FakeFFprobe = `cat <<'JSON'
{"streams":[{"codec_type":"video","width":1080,"height":1920,"r_frame_rate":"30/1"},{"codec_type":"audio"}],"format":{"duration":"60.000000","size":"3"}}
JSON`
