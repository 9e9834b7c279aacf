// Package renderingtest provides a recording rendering.Device for tests
// that run without an OpenGL context.
package renderingtest

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/learngl/learngl/lib/rendering"
)

type Shader struct {
	Kind     uint32
	Source   string
	Compiled bool
	Log      string
	Deleted  bool
}

type Program struct {
	Attached []uint32
	Linked   bool
	Log      string
	Deleted  bool
}

// Upload is one BufferData call, with the buffer that was bound at the time.
type Upload struct {
	Target uint32
	Bound  uint32
	Data   []float32
	Usage  uint32
}

type Attrib struct {
	Size    int32
	Stride  int32
	Offset  uintptr
	Enabled bool
	Buffer  uint32
}

// Device records every call and emulates just enough of a driver to check
// shader sources, buffer bindings and draw state.
type Device struct {
	Calls []string

	Shaders  map[uint32]*Shader
	Programs map[uint32]*Program
	Buffers  map[uint32][]float32
	Uploads  []Upload
	Attribs  map[uint32]*Attrib

	BoundBuffer    uint32
	BoundVAO       uint32
	CurrentProgram uint32

	ClearColour  [4]float32
	Clears       int
	DrawCalls    int
	ViewportRect [4]int32

	DeletedBuffers []uint32
	DeletedVAOs    []uint32

	// Errors holds the GL error codes raised, in order.
	Errors []uint32

	nextID uint32
}

var _ rendering.Device = (*Device)(nil)

func New() *Device {
	return &Device{
		Shaders:  make(map[uint32]*Shader),
		Programs: make(map[uint32]*Program),
		Buffers:  make(map[uint32][]float32),
		Attribs:  make(map[uint32]*Attrib),
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// Count returns how many recorded calls start with name.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name || strings.HasPrefix(c, name+"(") {
			n++
		}
	}
	return n
}

func (d *Device) CreateShader(kind uint32) uint32 {
	id := d.id()
	d.Shaders[id] = &Shader{Kind: kind}
	d.record("CreateShader(%d)", kind)
	return id
}

func (d *Device) ShaderSource(shader uint32, source string) {
	d.Shaders[shader].Source = source
	d.record("ShaderSource(%d)", shader)
}

func (d *Device) CompileShader(shader uint32) {
	s := d.Shaders[shader]
	errs := CheckSource(s.Kind, s.Source)
	s.Compiled = len(errs) == 0
	s.Log = strings.Join(errs, "\n")
	d.record("CompileShader(%d)", shader)
}

func (d *Device) ShaderCompiled(shader uint32) bool {
	return d.Shaders[shader].Compiled
}

func (d *Device) ShaderInfoLog(shader uint32, limit int) string {
	return truncate(d.Shaders[shader].Log, limit)
}

func (d *Device) DeleteShader(shader uint32) {
	d.Shaders[shader].Deleted = true
	d.record("DeleteShader(%d)", shader)
}

func (d *Device) CreateProgram() uint32 {
	id := d.id()
	d.Programs[id] = &Program{}
	d.record("CreateProgram")
	return id
}

func (d *Device) AttachShader(program, shader uint32) {
	p := d.Programs[program]
	p.Attached = append(p.Attached, shader)
	d.record("AttachShader(%d, %d)", program, shader)
}

func (d *Device) LinkProgram(program uint32) {
	p := d.Programs[program]
	d.record("LinkProgram(%d)", program)

	var errs []string
	stages := map[uint32]bool{}
	for _, id := range p.Attached {
		s := d.Shaders[id]
		stages[s.Kind] = true
		if !s.Compiled {
			errs = append(errs, "error: linking with uncompiled/unspecialized shader")
		}
	}
	if !stages[gl.VERTEX_SHADER] {
		errs = append(errs, "error: program lacks a vertex shader")
	}
	if !stages[gl.FRAGMENT_SHADER] {
		errs = append(errs, "error: program lacks a fragment shader")
	}
	p.Linked = len(errs) == 0
	p.Log = strings.Join(errs, "\n")
}

func (d *Device) ProgramLinked(program uint32) bool {
	return d.Programs[program].Linked
}

func (d *Device) ProgramInfoLog(program uint32, limit int) string {
	return truncate(d.Programs[program].Log, limit)
}

func (d *Device) UseProgram(program uint32) {
	d.CurrentProgram = program
	d.record("UseProgram(%d)", program)
}

func (d *Device) DeleteProgram(program uint32) {
	d.Programs[program].Deleted = true
	d.record("DeleteProgram(%d)", program)
}

func (d *Device) GenBuffer() uint32 {
	id := d.id()
	d.record("GenBuffer")
	return id
}

func (d *Device) BindBuffer(target, buffer uint32) {
	d.BoundBuffer = buffer
	d.record("BindBuffer(%d, %d)", target, buffer)
}

func (d *Device) BufferData(target uint32, data []float32, usage uint32) {
	d.record("BufferData(%d)", len(data))
	d.Uploads = append(d.Uploads, Upload{
		Target: target,
		Bound:  d.BoundBuffer,
		Data:   append([]float32(nil), data...),
		Usage:  usage,
	})
	if d.BoundBuffer == 0 {
		d.Errors = append(d.Errors, gl.INVALID_OPERATION)
		return
	}
	d.Buffers[d.BoundBuffer] = append([]float32(nil), data...)
}

func (d *Device) DeleteBuffer(buffer uint32) {
	delete(d.Buffers, buffer)
	d.DeletedBuffers = append(d.DeletedBuffers, buffer)
	d.record("DeleteBuffer(%d)", buffer)
}

func (d *Device) GenVertexArray() uint32 {
	id := d.id()
	d.record("GenVertexArray")
	return id
}

func (d *Device) BindVertexArray(vao uint32) {
	d.BoundVAO = vao
	d.record("BindVertexArray(%d)", vao)
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.DeletedVAOs = append(d.DeletedVAOs, vao)
	d.record("DeleteVertexArray(%d)", vao)
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	a, ok := d.Attribs[index]
	if !ok {
		a = &Attrib{}
		d.Attribs[index] = a
	}
	a.Enabled = true
	d.record("EnableVertexAttribArray(%d)", index)
}

func (d *Device) VertexAttribPointer(index uint32, size int32, stride int32, offset uintptr) {
	a, ok := d.Attribs[index]
	if !ok {
		a = &Attrib{}
		d.Attribs[index] = a
	}
	a.Size = size
	a.Stride = stride
	a.Offset = offset
	a.Buffer = d.BoundBuffer
	d.record("VertexAttribPointer(%d)", index)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.ClearColour = [4]float32{r, g, b, a}
	d.record("ClearColor")
}

func (d *Device) Clear(mask uint32) {
	d.Clears++
	d.record("Clear(%d)", mask)
}

func (d *Device) DrawArrays(mode uint32, first, count int32) {
	d.DrawCalls++
	d.record("DrawArrays(%d, %d, %d)", mode, first, count)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.ViewportRect = [4]int32{x, y, width, height}
	d.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
}

// truncate mimics glGet*InfoLog with a buffer of limit bytes, one of which
// holds the terminating NUL.
func truncate(log string, limit int) string {
	if limit > 0 && len(log) > limit-1 {
		return log[:limit-1]
	}
	return log
}
