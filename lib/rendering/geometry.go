package rendering

import (
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Triangle is the one piece of geometry: bottom left, bottom right, top.
var Triangle = [3]mgl32.Vec3{
	{-0.5, -0.5, 0},
	{0.5, -0.5, 0},
	{0, 0, 0.5},
}

// PositionAttrib is the vertex shader input the positions feed
// (layout (location = 0) in vec3 aPos).
const PositionAttrib = 0

// TriangleVertices returns the triangle as 9 packed floats, x y z per vertex.
func TriangleVertices() []float32 {
	vertices := make([]float32, 0, len(Triangle)*3)
	for _, v := range Triangle {
		vertices = append(vertices, v.X(), v.Y(), v.Z())
	}
	return vertices
}

type Geometry struct {
	VBO   uint32
	VAO   uint32
	Count int32

	// Wired is set when the buffer is bound and described to the vertex
	// shader, so it can actually be drawn.
	Wired bool
}

// UploadTriangle creates a buffer and transfers the triangle into it as
// static draw data.
//
// Without wire the buffer is generated but never bound, and no vertex
// attribute is configured: the transfer lands on whatever ARRAY_BUFFER is
// bound (none, in a fresh context) and nothing can be drawn. With wire a
// vertex array is set up so that Draw renders the triangle.
func UploadTriangle(dev Device, wire bool) *Geometry {
	logger := slog.Default().With(slog.String("module", "rendering"))
	vertices := TriangleVertices()

	g := &Geometry{Count: int32(len(Triangle)), Wired: wire}
	if wire {
		g.VAO = dev.GenVertexArray()
		dev.BindVertexArray(g.VAO)
	}

	g.VBO = dev.GenBuffer()
	if wire {
		dev.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	}
	dev.BufferData(gl.ARRAY_BUFFER, vertices, gl.STATIC_DRAW)

	if wire {
		dev.VertexAttribPointer(PositionAttrib, 3, 3*f32, 0)
		dev.EnableVertexAttribArray(PositionAttrib)
		logger.Debug("Triangle uploaded and wired", slog.Uint64("vbo", uint64(g.VBO)), slog.Uint64("vao", uint64(g.VAO)))
	} else {
		logger.Warn("Triangle buffer is not bound and has no vertex attributes, it will not be drawn", slog.Uint64("vbo", uint64(g.VBO)))
	}
	return g
}

// Draw issues the draw call for a wired geometry. It does nothing otherwise
// and reports whether a draw call was made.
func (g *Geometry) Draw(dev Device) bool {
	if !g.Wired {
		return false
	}
	dev.BindVertexArray(g.VAO)
	dev.DrawArrays(gl.TRIANGLES, 0, g.Count)
	return true
}

func (g *Geometry) Delete(dev Device) {
	if g.VAO != 0 {
		dev.DeleteVertexArray(g.VAO)
		g.VAO = 0
	}
	if g.VBO != 0 {
		dev.DeleteBuffer(g.VBO)
		g.VBO = 0
	}
	g.Wired = false
}
