package shaderwatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsShaderFile(t *testing.T) {
	tests := map[string]bool{
		"/tmp/shaders/triangle.vert":  true,
		"triangle.frag":               true,
		"/tmp/shaders/triangle.frag~": false,
		"/tmp/shaders/.triangle.swp":  false,
		"/tmp/shaders/notes.txt":      false,
	}
	for path, want := range tests {
		if got := IsShaderFile(path); got != want {
			t.Errorf("IsShaderFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Skipf("inotify unavailable: %v", err)
	}
	defer w.Close()
	go w.Run()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "triangle.frag"), []byte("void main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload signalled after the fragment shader was written")
	}

	select {
	case <-w.Reloads:
		t.Error("a second reload was signalled for a single shader write")
	case <-time.After(300 * time.Millisecond):
	}
}
