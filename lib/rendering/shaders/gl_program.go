package shaders

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/learngl/learngl/lib/metrics"
	"github.com/learngl/learngl/lib/rendering"
)

// Stage is the result of compiling one shader object.
type Stage struct {
	Name     string
	Compiled bool
	Log      string
}

// Program is a linked (or failed to link) shader program. Compile and link
// failures are recorded here and logged, never returned as errors: the
// program object exists either way and the render loop keeps using it.
type Program struct {
	ID      uint32
	Vertex  Stage
	Frag    Stage
	Linked  bool
	LinkLog string
}

// OK reports whether both stages compiled and the program linked.
func (p *Program) OK() bool {
	return p.Vertex.Compiled && p.Frag.Compiled && p.Linked
}

func (p *Program) Delete(dev rendering.Device) {
	if p.ID != 0 {
		dev.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// BuildGLProgram renders the shader sources and builds them into a program.
func BuildGLProgram(dev rendering.Device, shaderer *Shaderer, data *ShaderData) (*Program, error) {
	vertexShader, fragmentShader, err := shaderer.Sources(data)
	if err != nil {
		return nil, fmt.Errorf("could not render %s shaders: %w", shaderer.Origin(), err)
	}

	return BuildProgram(dev, vertexShader, fragmentShader), nil
}

// BuildProgram compiles both sources, links them into a new program and
// releases the shader objects. Every step runs even when an earlier one
// failed.
func BuildProgram(dev rendering.Device, vertexShaderSource, fragmentShaderSource string) *Program {
	logger := slog.Default().With(slog.String("module", "shaders"))
	p := &Program{}

	var vertexShader, fragmentShader uint32
	vertexShader, p.Vertex = compileShader(dev, logger, vertexShaderSource, gl.VERTEX_SHADER)
	fragmentShader, p.Frag = compileShader(dev, logger, fragmentShaderSource, gl.FRAGMENT_SHADER)

	p.ID = dev.CreateProgram()
	dev.AttachShader(p.ID, vertexShader)
	dev.AttachShader(p.ID, fragmentShader)
	dev.LinkProgram(p.ID)

	p.Linked = dev.ProgramLinked(p.ID)
	if !p.Linked {
		p.LinkLog = dev.ProgramInfoLog(p.ID, rendering.InfoLogLimit)
		logger.Error("ERROR::SHADER::PROGRAM::LINKING_FAILED\n" + p.LinkLog)
		metrics.ProgramLinkFailures.Inc()
	} else {
		logger.Debug("Shader program linked", slog.Uint64("program", uint64(p.ID)))
	}

	dev.DeleteShader(vertexShader)
	dev.DeleteShader(fragmentShader)

	return p
}

func compileShader(dev rendering.Device, logger *slog.Logger, source string, shaderType uint32) (uint32, Stage) {
	stage := Stage{Name: stageName(shaderType)}

	shader := dev.CreateShader(shaderType)
	dev.ShaderSource(shader, source)
	dev.CompileShader(shader)

	stage.Compiled = dev.ShaderCompiled(shader)
	if !stage.Compiled {
		stage.Log = dev.ShaderInfoLog(shader, rendering.InfoLogLimit)
		logger.Error(fmt.Sprintf("ERROR::SHADER::%s::COMPILATION_FAILED\n%s", stage.Name, stage.Log))
		metrics.ShaderCompileFailures.WithLabelValues(stage.Name).Inc()
	}

	return shader, stage
}

func stageName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "VERTEX"
	case gl.FRAGMENT_SHADER:
		return "FRAGMENT"
	default:
		return fmt.Sprintf("0x%x", shaderType)
	}
}
