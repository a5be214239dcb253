package preset

import (
	"strconv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Uniform describes a single active uniform resolved from a linked
// program, keyed by its GLSL name (array uniforms are expanded to one
// entry per element, matching how expression programs address them).
type Uniform struct {
	Name     string
	Type     uint32
	Location int32
}

// listUniforms enumerates every active uniform of program, the same way
// the warp and composite shader wrappers discover their per-frame and
// per-pixel inputs without the preset author having to declare them
// out-of-band.
func listUniforms(program uint32) map[string]Uniform {
	var numUniforms int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &numUniforms)
	var bufSize int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &bufSize)
	if bufSize == 0 {
		bufSize = 1
	}

	uniforms := map[string]Uniform{}
	for i := uint32(0); i < uint32(numUniforms); i++ {
		var length, size int32
		var typ uint32
		nameBuf := strings.Repeat("\x00", int(bufSize))
		gl.GetActiveUniform(program, i, bufSize, &length, &size, &typ, gl.Str(nameBuf))
		name := strings.SplitN(nameBuf, "\x00", -1)[0]

		if strings.HasSuffix(name, "[0]") {
			baseName := strings.TrimSuffix(name, "[0]")
			for idx := 0; ; idx++ {
				elemName := baseNameIndexed(baseName, idx)
				loc := gl.GetUniformLocation(program, gl.Str(elemName+"\x00"))
				if loc == -1 {
					break
				}
				uniforms[elemName] = Uniform{Name: elemName, Type: typ, Location: loc}
			}
			continue
		}
		uniforms[name] = Uniform{
			Name:     name,
			Type:     typ,
			Location: gl.GetUniformLocation(program, gl.Str(nameBuf)),
		}
	}
	return uniforms
}

func baseNameIndexed(base string, idx int) string {
	return base + "[" + strconv.Itoa(idx) + "]"
}
