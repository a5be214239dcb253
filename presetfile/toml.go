package presetfile

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// tomlDocument mirrors the shape of File as a plain TOML document, the
// reference on-disk format this module ships a Parser for. A real
// preset corpus uses the native Milkdrop preset grammar; TOML stands in
// for it so the engine can be exercised end-to-end without depending on
// that (out-of-scope) grammar.
type tomlDocument struct {
	Name       string             `toml:"name"`
	Parameters map[string]float64 `toml:"parameters"`
	PerFrame   string             `toml:"per_frame"`
	PerPixel   string             `toml:"per_pixel"`
	Shaders    struct {
		WarpVertex        string `toml:"warp_vertex"`
		WarpFragment      string `toml:"warp_fragment"`
		CompositeVertex   string `toml:"composite_vertex"`
		CompositeFragment string `toml:"composite_fragment"`
	} `toml:"shaders"`
	Textures []struct {
		Sampler string `toml:"sampler"`
		Wrap    string `toml:"wrap"`
		Filter  string `toml:"filter"`
	} `toml:"textures"`
	Shapes    int `toml:"shapes"`
	Waveforms int `toml:"waveforms"`
}

// TOMLParser is the default reference Parser, built on
// github.com/pelletier/go-toml/v2.
type TOMLParser struct{}

func (TOMLParser) Parse(data []byte) (*File, error) {
	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("presetfile: decoding TOML: %w", err)
	}

	f := &File{
		Name:           doc.Name,
		Parameters:     doc.Parameters,
		PerFrameSource: doc.PerFrame,
		PerPixelSource: doc.PerPixel,
		ShaderSource: map[Stage]string{
			StageWarpVertex:        doc.Shaders.WarpVertex,
			StageWarpFragment:      doc.Shaders.WarpFragment,
			StageCompositeVertex:   doc.Shaders.CompositeVertex,
			StageCompositeFragment: doc.Shaders.CompositeFragment,
		},
		ShapeCount:    doc.Shapes,
		WaveformCount: doc.Waveforms,
	}
	for _, t := range doc.Textures {
		f.Textures = append(f.Textures, TextureRef{
			SamplerName:  t.Sampler,
			WrapClamp:    t.Wrap == "clamp",
			FilterLinear: t.Filter != "nearest",
		})
	}
	return f, nil
}
