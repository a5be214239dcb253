package preset

import "github.com/go-gl/gl/v3.3-core/gl"

// flatShader is the minimal core-profile program the secondary drawables
// (shapes, waveforms, border, darken-center) share: a uniform solid color
// over whatever positions the caller uploads. Core GL 3.3 has no
// fixed-function color pipeline, so even these simple primitives need a
// program of their own.
var sharedFlatShader *Shader

const flatVertexSource = `#version 330
layout(location = 0) in vec2 pos;
void main() {
	gl_Position = vec4(pos, 0.0, 1.0);
}
`

const flatFragmentSource = `#version 330
uniform vec4 color;
out vec4 fragColor;
void main() {
	fragColor = color;
}
`

// ensureFlatShader lazily compiles the shared flat-color program the
// first time any secondary drawable needs it.
func ensureFlatShader() (*Shader, error) {
	if sharedFlatShader != nil {
		return sharedFlatShader, nil
	}
	sh, err := CompileProgram(flatVertexSource, flatFragmentSource)
	if err != nil {
		return nil, err
	}
	sharedFlatShader = sh
	return sharedFlatShader, nil
}

func drawFlat(vao uint32, vertexCount int32, mode uint32, r, g, b, a float32) {
	sh, err := ensureFlatShader()
	if err != nil {
		return
	}
	sh.Bind()
	sh.SetFloat4("color", r, g, b, a)
	gl.BindVertexArray(vao)
	gl.DrawArrays(mode, 0, vertexCount)
	gl.BindVertexArray(0)
	sh.Unbind()
}
