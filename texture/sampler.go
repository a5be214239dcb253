package texture

import "github.com/go-gl/gl/v3.3-core/gl"

// ApplySampler sets the wrap/filter state of the currently bound 2D
// texture to match a Descriptor's parsed directives. Texture objects in
// this engine carry their sampling state directly (no separate sampler
// objects), matching how GetSampler in the original texture manager is
// really just a thin view over the same wrap/filter pair GetTexture
// already parsed.
func ApplySampler(wrap WrapMode, filter FilterMode) {
	wrapMode := int32(gl.REPEAT)
	if wrap == WrapClamp {
		wrapMode = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode)

	magFilter := int32(gl.LINEAR)
	minFilter := int32(gl.LINEAR_MIPMAP_LINEAR)
	if filter == FilterNearest {
		magFilter = gl.NEAREST
		minFilter = gl.NEAREST_MIPMAP_NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
}
