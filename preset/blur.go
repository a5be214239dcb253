package preset

import "github.com/go-gl/gl/v3.3-core/gl"

// BlurChain holds the three persistent, successively smaller textures
// shaders can sample as "blur1"/"blur2"/"blur3" (spec.md §3's "three
// persistent blur textures keyed by level (Low/Medium/High)",
// GLOSSARY "Blur chain"). The pack carries no concrete blur-kernel
// fragment source to ground a faithful multi-tap implementation on, so
// each level is produced by downsampling the previous one through
// linear-filtered minification, a standard cheap stand-in for a real
// separable blur (see DESIGN.md).
type BlurChain struct {
	levels [3]target
	w, h   [3]int32
}

// NewBlurChain allocates the three levels at half, quarter and eighth
// the given resolution.
func NewBlurChain(w, h int) *BlurChain {
	bc := &BlurChain{}
	lw, lh := w, h
	for i := range bc.levels {
		lw, lh = halve(lw), halve(lh)
		bc.w[i], bc.h[i] = int32(lw), int32(lh)
		bc.levels[i] = newTarget(bc.w[i], bc.h[i])
	}
	return bc
}

func halve(n int) int {
	n /= 2
	if n < 1 {
		n = 1
	}
	return n
}

// Texture returns the GL texture object backing blur level 0 (blur1)
// through 2 (blur3).
func (bc *BlurChain) Texture(level int) uint32 {
	return bc.levels[level].tex
}

// Update re-derives all three levels from src, each level downsampling
// the previous stage (spec.md §4.4 step 6, run once per frame against
// the just-warped image).
func (bc *BlurChain) Update(quadVAO uint32, src uint32) {
	prevTex := src
	for i := range bc.levels {
		lvl := &bc.levels[i]
		gl.BindFramebuffer(gl.FRAMEBUFFER, lvl.fbo)
		gl.Viewport(0, 0, bc.w[i], bc.h[i])
		blitTexture(quadVAO, prevTex)
		prevTex = lvl.tex
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Resize reallocates all three levels relative to a new base resolution.
func (bc *BlurChain) Resize(w, h int) {
	for i := range bc.levels {
		bc.levels[i].close()
	}
	lw, lh := w, h
	for i := range bc.levels {
		lw, lh = halve(lw), halve(lh)
		bc.w[i], bc.h[i] = int32(lw), int32(lh)
		bc.levels[i] = newTarget(bc.w[i], bc.h[i])
	}
}

func (bc *BlurChain) close() {
	for i := range bc.levels {
		bc.levels[i].close()
	}
}
