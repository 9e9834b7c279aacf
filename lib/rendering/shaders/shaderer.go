package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"
)

const (
	VertexShaderName   = "triangle.vert"
	FragmentShaderName = "triangle.frag"
)

// The built-in fragment shader is kept as it was first written: the version
// directive lacks its '#', FragColor is never declared as an output, and a
// stray "0" follows the closing brace. It does not compile.
//
//go:embed *.frag *.vert
var templateDir embed.FS

type Shaderer struct {
	templates *template.Template
	dir       string
}

// NewShaderer loads the shader templates from dir, or the built-in ones when
// dir is empty.
func NewShaderer(dir string) (*Shaderer, error) {
	s := &Shaderer{dir: dir}

	var err error
	if dir == "" {
		s.templates, err = template.ParseFS(templateDir, "*.frag", "*.vert")
	} else {
		s.templates, err = template.ParseFiles(
			filepath.Join(dir, VertexShaderName),
			filepath.Join(dir, FragmentShaderName),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse shader templates: %w", err)
	}
	return s, nil
}

// ShaderData contains stuff that gets passed to the shader templates
type ShaderData struct {
	GLSLVersion int
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template %s: %w", name, err)
	}

	return b.String(), nil
}

// Sources renders the vertex and fragment shader.
func (s *Shaderer) Sources(data *ShaderData) (vertex, fragment string, err error) {
	vertex, err = s.GetShaderSource(VertexShaderName, data)
	if err != nil {
		return "", "", err
	}
	fragment, err = s.GetShaderSource(FragmentShaderName, data)
	if err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}

func (s *Shaderer) Origin() string {
	if s.dir == "" {
		return "built-in"
	}
	return s.dir
}
