package preset

import (
	"math"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Shape is a custom filled polygon drawable: a preset can configure a
// fixed pool of these (spec.md §4.10), each independently positioned,
// sized, colored and rotated from per-frame expression outputs.
type Shape struct {
	vao, vbo uint32
}

// NewShape allocates the vertex buffer for a shape. Geometry is
// respecified every frame since a shape's side count and position can
// change per frame.
func NewShape() *Shape {
	s := &Shape{}
	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &s.vbo)
	return s
}

// ShapeParams carries the per-frame expression outputs a shape reads to
// position and color itself; fields mirror the original preset grammar's
// "shape" variable prefixes (x, y, rad, ang, r, g, b, a, sides).
type ShapeParams struct {
	X, Y       float32
	Radius     float32
	Angle      float32
	R, G, B, A float32
	Sides      int
}

// Draw tessellates a regular polygon fan from p and issues the draw call
// against whatever framebuffer is currently bound.
func (s *Shape) Draw(p ShapeParams) {
	if p.Sides < 3 {
		p.Sides = 3
	}
	if p.Sides > 100 {
		p.Sides = 100
	}
	verts := make([]float32, 0, (p.Sides+2)*2)
	verts = append(verts, p.X, p.Y)
	for i := 0; i <= p.Sides; i++ {
		theta := float64(p.Angle) + 2*math.Pi*float64(i)/float64(p.Sides)
		verts = append(verts, p.X+p.Radius*float32(math.Cos(theta)), p.Y+p.Radius*float32(math.Sin(theta)))
	}

	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)
	gl.BindVertexArray(0)

	drawFlat(s.vao, int32(len(verts)/2), gl.TRIANGLE_FAN, p.R, p.G, p.B, p.A)
}

func (s *Shape) close() {
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteBuffers(1, &s.vbo)
}
