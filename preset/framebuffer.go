package preset

import "github.com/go-gl/gl/v3.3-core/gl"

// target is a single texture-backed color render target, the building block of the ping-pong framebuffer described in
// spec.md §3/§4.4. Unlike the teacher's pboRenderer (which round-trips
// frames back to the CPU through a pixel-pack buffer for encoding), a
// preset's ping-pong buffers stay entirely on the GPU: each frame samples
// the previous frame's texture directly.
type target struct {
	fbo, tex uint32
}

func newTarget(w, h int32) target {
	var t target
	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.tex)

	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.tex, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

func (t *target) close() {
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.tex)
}

// PingPong is the two-buffer main render target a preset draws its warp
// and composite passes into: the buffer written this frame becomes the
// source texture sampled as "main"/the previous frame's image next frame.
// A second, transient color attachment (spec.md §3's "attachment slot at
// index 1") holds a host-supplied motion-vector UV map for the duration
// of the warp draw only.
type PingPong struct {
	w, h    int32
	bufs    [2]target
	current int

	firstFrame bool
}

// NewPingPong allocates both buffers at the given resolution. The first
// frame drawn into a freshly allocated PingPong is always "first frame"
// (spec.md §4.4 step 2).
func NewPingPong(w, h int) *PingPong {
	pp := &PingPong{w: int32(w), h: int32(h), firstFrame: true}
	pp.bufs[0] = newTarget(pp.w, pp.h)
	pp.bufs[1] = newTarget(pp.w, pp.h)
	return pp
}

// BindForWrite binds the buffer that should receive this frame's draw
// calls and sets the viewport to its size; it does not clear it.
func (pp *PingPong) BindForWrite() {
	t := &pp.bufs[pp.current]
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, pp.w, pp.h)
}

// BindPreviousForWrite binds the *other* buffer for write, the target
// the final composite pass writes into per spec.md §4.4 step 9 ("current
// FBO as read source and previous FBO as draw target") so that Flip
// makes the freshly composited image the next frame's "current".
func (pp *PingPong) BindPreviousForWrite() {
	t := &pp.bufs[1-pp.current]
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, pp.w, pp.h)
}

// AttachMotionVectorUV attaches tex as color attachment 1 on whichever
// buffer is currently bound, so the warp draw can additionally write a
// motion-vector result (spec.md §4.4 step 5). A no-op if tex is 0 (no
// host-supplied UV map).
func (pp *PingPong) AttachMotionVectorUV(tex uint32) {
	if tex == 0 {
		return
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT1, gl.TEXTURE_2D, tex, 0)
	bufs := [2]uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1}
	gl.DrawBuffers(2, &bufs[0])
}

// DetachMotionVectorUV detaches slot 1 again; the UV map only needs to
// be bound for the single warp draw call that consumes it.
func (pp *PingPong) DetachMotionVectorUV(tex uint32) {
	if tex == 0 {
		return
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT1, gl.TEXTURE_2D, 0, 0)
	bufs := [1]uint32{gl.COLOR_ATTACHMENT0}
	gl.DrawBuffers(1, &bufs[0])
}

// FirstFrame reports whether no frame has been drawn since construction
// or the last resize.
func (pp *PingPong) FirstFrame() bool { return pp.firstFrame }

// ClearFirstFrame marks the first-post-resize frame as having been
// drawn (spec.md §4.4 step 10).
func (pp *PingPong) ClearFirstFrame() { pp.firstFrame = false }

// ResizeIfNeeded reallocates both buffers when w/h differ from the
// current resolution, marking "first frame" again, and reports whether a
// resize happened (spec.md §4.4 step 2).
func (pp *PingPong) ResizeIfNeeded(w, h int) bool {
	if int32(w) == pp.w && int32(h) == pp.h {
		return false
	}
	pp.Resize(w, h)
	return true
}

// PreviousTexture returns the texture name of the buffer written last
// frame, the "main"/previous-frame sampler input to the warp shader.
func (pp *PingPong) PreviousTexture() uint32 {
	return pp.bufs[1-pp.current].tex
}

// CurrentTexture returns the texture name of the buffer written this
// frame, used by the final composite pass and by anything that samples
// "main" immediately after a render without flipping.
func (pp *PingPong) CurrentTexture() uint32 {
	return pp.bufs[pp.current].tex
}

// Flip advances to the next buffer, making the one just written the new
// "previous frame" source.
func (pp *PingPong) Flip() {
	pp.current = 1 - pp.current
}

// Resize reallocates both buffers at a new resolution, discarding their
// contents. Presets resize their main texture when the host window
// changes size.
func (pp *PingPong) Resize(w, h int) {
	pp.bufs[0].close()
	pp.bufs[1].close()
	pp.w, pp.h = int32(w), int32(h)
	pp.bufs[0] = newTarget(pp.w, pp.h)
	pp.bufs[1] = newTarget(pp.w, pp.h)
	pp.current = 0
	pp.firstFrame = true
}

// Close releases both buffers.
func (pp *PingPong) Close() {
	pp.bufs[0].close()
	pp.bufs[1].close()
}
