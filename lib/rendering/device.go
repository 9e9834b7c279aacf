package rendering

// InfoLogLimit caps the diagnostic text read back from the driver for a
// failed compile or link.
const InfoLogLimit = 512

// Device is the part of the OpenGL API this program calls. GLDevice
// forwards to the real driver; renderingtest.Device records calls.
type Device interface {
	CreateShader(kind uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32, limit int) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32, limit int) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []float32, usage uint32)
	DeleteBuffer(buffer uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, stride int32, offset uintptr)

	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	DrawArrays(mode uint32, first, count int32)
	Viewport(x, y, width, height int32)
}
