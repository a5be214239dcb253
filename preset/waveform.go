package preset

import "github.com/go-gl/gl/v3.3-core/gl"

// Waveform draws one audio-driven polyline (spec.md §4.10). A preset
// keeps a pool of custom waveforms plus exactly one default waveform
// rendered unconditionally.
type Waveform struct {
	vao, vbo uint32
}

func NewWaveform() *Waveform {
	w := &Waveform{}
	gl.GenVertexArrays(1, &w.vao)
	gl.GenBuffers(1, &w.vbo)
	return w
}

// WaveformParams carries the sample buffer and styling a waveform reads
// from per-frame expression outputs and the current audio frame.
type WaveformParams struct {
	Samples    []float32 // interleaved x,y already computed by the caller
	R, G, B, A float32
}

func (w *Waveform) Draw(p WaveformParams) {
	if len(p.Samples) < 4 {
		return
	}
	gl.BindVertexArray(w.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(p.Samples)*4, gl.Ptr(p.Samples), gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)
	gl.BindVertexArray(0)

	drawFlat(w.vao, int32(len(p.Samples)/2), gl.LINE_STRIP, p.R, p.G, p.B, p.A)
}

func (w *Waveform) close() {
	gl.DeleteVertexArrays(1, &w.vao)
	gl.DeleteBuffers(1, &w.vbo)
}
