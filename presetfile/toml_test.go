package presetfile

import "testing"

const sampleDoc = `
name = "test preset"
per_frame = "wave_a = wave_a + 0.01"
per_pixel = "zoom = 1.0"
shapes = 2
waveforms = 1

[parameters]
decay = 0.98

[shaders]
warp_vertex = "VERT"
warp_fragment = "FRAG"

[[textures]]
sampler = "clamp_starfield"
wrap = "clamp"
filter = "linear"
`

func TestTOMLParserParse(t *testing.T) {
	var p TOMLParser
	f, err := p.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Name != "test preset" {
		t.Errorf("Name = %q, want %q", f.Name, "test preset")
	}
	if f.Parameters["decay"] != 0.98 {
		t.Errorf("Parameters[decay] = %v, want 0.98", f.Parameters["decay"])
	}
	if f.PerFrameSource == "" || f.PerPixelSource == "" {
		t.Error("expected both per-frame and per-pixel source to be populated")
	}
	if f.ShaderSource[StageWarpVertex] != "VERT" {
		t.Errorf("ShaderSource[StageWarpVertex] = %q, want %q", f.ShaderSource[StageWarpVertex], "VERT")
	}
	if len(f.Textures) != 1 || f.Textures[0].SamplerName != "clamp_starfield" {
		t.Fatalf("unexpected Textures: %+v", f.Textures)
	}
	if !f.Textures[0].WrapClamp {
		t.Error("expected WrapClamp to be true for wrap=\"clamp\"")
	}
	if f.ShapeCount != 2 || f.WaveformCount != 1 {
		t.Errorf("ShapeCount/WaveformCount = %d/%d, want 2/1", f.ShapeCount, f.WaveformCount)
	}
}

func TestTOMLParserRejectsGarbage(t *testing.T) {
	var p TOMLParser
	if _, err := p.Parse([]byte("not = [valid")); err == nil {
		t.Error("expected an error parsing malformed TOML")
	}
}
