package rendering

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

const f32 = 4

// GLDevice issues calls on the OpenGL context current on this thread.
type GLDevice struct{}

var _ Device = GLDevice{}

func (GLDevice) CreateShader(kind uint32) uint32 {
	return gl.CreateShader(kind)
}

func (GLDevice) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source)
	size := int32(len(source))
	gl.ShaderSource(shader, 1, csources, &size)
	free()
}

func (GLDevice) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (GLDevice) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (GLDevice) ShaderInfoLog(shader uint32, limit int) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	logLength = clampLogLength(logLength, limit)
	if logLength == 0 {
		return ""
	}

	clog := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(clog))
	return strings.TrimRight(clog, "\x00")
}

func (GLDevice) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (GLDevice) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (GLDevice) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (GLDevice) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (GLDevice) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (GLDevice) ProgramInfoLog(program uint32, limit int) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	logLength = clampLogLength(logLength, limit)
	if logLength == 0 {
		return ""
	}

	logmsg := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logmsg))
	return strings.TrimRight(logmsg, "\x00")
}

func (GLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (GLDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (GLDevice) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (GLDevice) BindBuffer(target, buffer uint32) {
	gl.BindBuffer(target, buffer)
}

func (GLDevice) BufferData(target uint32, data []float32, usage uint32) {
	gl.BufferData(target, len(data)*f32, gl.Ptr(data), usage)
}

func (GLDevice) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (GLDevice) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (GLDevice) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (GLDevice) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (GLDevice) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (GLDevice) VertexAttribPointer(index uint32, size int32, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, gl.FLOAT, false, stride, offset)
}

func (GLDevice) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (GLDevice) Clear(mask uint32) {
	gl.Clear(mask)
}

func (GLDevice) DrawArrays(mode uint32, first, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (GLDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

// clampLogLength turns the driver's log length, which counts the
// terminating NUL, into a buffer size of at most limit.
func clampLogLength(logLength int32, limit int) int32 {
	if limit > 0 && int(logLength) > limit {
		return int32(limit)
	}
	return logLength
}
