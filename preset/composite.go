package preset

import "github.com/go-gl/gl/v3.3-core/gl"

// Composite runs either a preset-supplied composite shader (new-style) or
// a legacy fixed-function configuration (gamma/brightening via a fixed
// blend state, no programmable stage) against the warped image
// (spec.md §4.9).
type Composite struct {
	shader *Shader

	legacyGamma float32
}

// NewLegacyComposite configures a Composite with no programmable shader,
// falling back to the fixed-function gamma adjustment older presets rely
// on.
func NewLegacyComposite(gamma float32) *Composite {
	return &Composite{legacyGamma: gamma}
}

// HasCompositeShader reports whether a programmable composite shader is
// configured, as opposed to the legacy fixed-function path.
func (c *Composite) HasCompositeShader() bool { return c.shader != nil }

// Compile compiles the composite vertex/fragment program blocking.
func (c *Composite) Compile(vs, fs string) error {
	sh, err := CompileProgram(vs, fs)
	if err != nil {
		return err
	}
	c.shader = sh
	return nil
}

// CompileAsync starts a deferred compile.
func (c *Composite) CompileAsync(vs, fs string, parallelAvailable bool) error {
	sh, err := SubmitCompileAsync(vs, fs, parallelAvailable)
	if err != nil {
		return err
	}
	c.shader = sh
	return nil
}

func (c *Composite) IsCompositeShaderCompileComplete() (bool, error) {
	if c.shader == nil {
		return true, nil
	}
	return c.shader.IsCompileComplete()
}

func (c *Composite) FinalizeCompositeShaderCompile() error {
	if c.shader == nil {
		return nil
	}
	return c.shader.FinalizeCompile()
}

// Draw renders a full-screen pass sampling srcTex, writing to whatever
// framebuffer the caller has bound. quadVAO is a caller-owned full-screen
// triangle strip shared across every full-screen pass in the preset
// (blur, composite, initial image) to avoid allocating one per stage.
func (c *Composite) Draw(quadVAO uint32, srcTex uint32, gammaUniform string) {
	if c.shader != nil {
		c.shader.Bind()
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, srcTex)
		c.shader.SetInt("main", 0)
		gl.BindVertexArray(quadVAO)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
		gl.BindVertexArray(0)
		c.shader.Unbind()
		return
	}

	// Legacy path: no programmable stage, so gamma is applied through a
	// fixed blend instead of reading gammaUniform from a shader.
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, srcTex)
	gl.BindVertexArray(quadVAO)
	gl.BlendColor(c.legacyGamma, c.legacyGamma, c.legacyGamma, 1)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

func (c *Composite) close() {
	if c.shader != nil {
		c.shader.Close()
	}
}
