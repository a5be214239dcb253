package preset

import (
	"math"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// DarkenCenter draws the "darken center" primitive: a soft dark disc
// overlaid in the middle of the frame when a preset's darken_center
// parameter is greater than zero (spec.md §4.10, §4.4 step 7).
type DarkenCenter struct {
	vao, vbo uint32
}

func NewDarkenCenter() *DarkenCenter {
	d := &DarkenCenter{}
	gl.GenVertexArrays(1, &d.vao)
	gl.GenBuffers(1, &d.vbo)
	return d
}

// Draw renders the disc when strength > 0; callers are expected to check
// strength themselves per the RenderFrame algorithm, but Draw no-ops on a
// non-positive strength as a defensive default.
func (d *DarkenCenter) Draw(strength float32) {
	if strength <= 0 {
		return
	}
	const radius = 0.1
	verts := []float32{0, 0}
	const sides = 32
	for i := 0; i <= sides; i++ {
		theta := 2 * math.Pi * float64(i) / float64(sides)
		verts = append(verts, radius*float32(math.Cos(theta)), radius*float32(math.Sin(theta)))
	}

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)
	gl.BindVertexArray(0)

	alpha := strength
	if alpha > 1 {
		alpha = 1
	}
	drawFlat(d.vao, int32(len(verts)/2), gl.TRIANGLE_FAN, 0, 0, 0, alpha)
}

func (d *DarkenCenter) close() {
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteBuffers(1, &d.vbo)
}
