package preset

import "github.com/go-gl/gl/v3.3-core/gl"

// Border draws the preset's inner/outer border frame (spec.md §4.10), a
// pair of nested rectangles around the edge of the viewport.
type Border struct {
	vao, vbo uint32
}

func NewBorder() *Border {
	b := &Border{}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	return b
}

// BorderParams mirrors the original grammar's outer/inner border
// thickness and color knobs.
type BorderParams struct {
	OuterThickness, InnerThickness float32
	OuterR, OuterG, OuterB, OuterA float32
	InnerR, InnerG, InnerB, InnerA float32
}

func (b *Border) Draw(p BorderParams) {
	b.drawRing(1-p.OuterThickness, 1, p.OuterR, p.OuterG, p.OuterB, p.OuterA)
	b.drawRing(1-p.OuterThickness-p.InnerThickness, 1-p.OuterThickness, p.InnerR, p.InnerG, p.InnerB, p.InnerA)
}

func (b *Border) drawRing(inner, outer float32, r, g, bb, a float32) {
	verts := []float32{
		-outer, -outer, -inner, -inner,
		outer, -outer, inner, -inner,
		outer, outer, inner, inner,
		-outer, outer, -inner, inner,
		-outer, -outer, -inner, -inner,
	}
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)
	gl.BindVertexArray(0)

	drawFlat(b.vao, int32(len(verts)/2), gl.TRIANGLE_STRIP, r, g, bb, a)
}

func (b *Border) close() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}
