package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/learngl/learngl/lib/rendering/shaders"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	writeFile(t, good, "window: {width: 800, height: 600, title: \"Learn OpenGL\", resizable: true}\n")

	unknown := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknown, "window: {fixed_size: true}\n")

	shaderDir := filepath.Join(dir, "shaders")
	if err := os.Mkdir(shaderDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(shaderDir, shaders.VertexShaderName), "#version {{.GLSLVersion}} core\nvoid main() {}\n")
	writeFile(t, filepath.Join(shaderDir, shaders.FragmentShaderName), "#version {{.GLSLVersion}} core\n{{.Tint}}\n")
	badShaders := filepath.Join(dir, "bad-shaders.yaml")
	writeFile(t, badShaders, "shader_dir: shaders\n")

	tests := []struct {
		name  string
		files []string
		code  int
		want  []string
	}{
		{"valid", []string{good}, 0, []string{good + ": config valid!", `Window: 800x600 "Learn OpenGL"`}},
		{"unknown key", []string{unknown}, 1, []string{unknown + ": config invalid:"}},
		{"shader template", []string{badShaders}, 1, []string{badShaders + ": config invalid:", shaderDir + " shaders"}},
		{"mixed", []string{good, unknown}, 1, []string{good + ": config valid!", unknown + ": config invalid:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := validate(&out, tt.files); code != tt.code {
				t.Errorf("validate() = %d, want %d\n%s", code, tt.code, out.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output does not contain %q:\n%s", want, out.String())
				}
			}
		})
	}
}
