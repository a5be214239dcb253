package preset

import "github.com/go-gl/gl/v3.3-core/gl"

// sharedBlitShader is the minimal textured full-screen pass every internal
// GPU-to-GPU copy (blur downsample, initial-image seed) shares,
// mirroring flatShader's "every simple draw gets its own tiny program"
// pattern since core GL 3.3 has no fixed-function texture blit.
var sharedBlitShader *Shader

const blitVertexSource = `#version 330
layout(location = 0) in vec2 pos;
out vec2 uv;
void main() {
	uv = pos * 0.5 + 0.5;
	gl_Position = vec4(pos, 0.0, 1.0);
}
`

const blitFragmentSource = `#version 330
in vec2 uv;
uniform sampler2D src;
out vec4 fragColor;
void main() {
	fragColor = texture(src, uv);
}
`

func ensureBlitShader() (*Shader, error) {
	if sharedBlitShader != nil {
		return sharedBlitShader, nil
	}
	sh, err := CompileProgram(blitVertexSource, blitFragmentSource)
	if err != nil {
		return nil, err
	}
	sharedBlitShader = sh
	return sharedBlitShader, nil
}

// blitTexture draws srcTex over whatever framebuffer/viewport the caller
// has already bound, using quadVAO: a plain GPU-to-GPU copy with no
// dedicated kernel shader, used by the blur chain and DrawInitialImage.
func blitTexture(quadVAO uint32, srcTex uint32) {
	sh, err := ensureBlitShader()
	if err != nil {
		return
	}
	sh.Bind()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, srcTex)
	sh.SetInt("src", 0)
	gl.BindVertexArray(quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	sh.Unbind()
}
