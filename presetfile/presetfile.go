// Package presetfile declares the contract between the preset engine and
// whatever format a preset is authored in on disk. Parsing the actual
// Milkdrop preset grammar is out of scope for this module (spec.md
// "External Interfaces"); only the interfaces and a small reference
// adapter live here.
package presetfile

// Stage identifies which shader stage a block of GLSL source in a File
// belongs to.
type Stage uint8

const (
	StageWarpVertex Stage = iota
	StageWarpFragment
	StageCompositeVertex
	StageCompositeFragment
)

// TextureRef names a texture sampler a preset's shaders reference, along
// with its wrap/filter directives; TOMLParser reads these from the
// entry's own wrap/filter keys, not from the sampler name.
type TextureRef struct {
	SamplerName string
	WrapClamp   bool
	FilterLinear bool
}

// File is the parsed, in-memory representation of a single preset: its
// initial parameter values, its per-frame/per-pixel expression source,
// its shader source per stage, and the textures its shaders reference.
type File struct {
	Name string

	Parameters map[string]float64

	PerFrameSource string
	PerPixelSource string

	ShaderSource map[Stage]string

	Textures []TextureRef

	// ShapeCount/WaveformCount size the fixed pool of secondary drawables
	// a preset can configure (spec.md §4.8).
	ShapeCount    int
	WaveformCount int
}

// Parser turns raw preset file bytes into a File. Implementations are
// free to support any on-disk grammar; the engine only depends on the
// shape of File.
type Parser interface {
	Parse(data []byte) (*File, error)
}
