package preset

import (
	"github.com/aurorafx/milkwarp/expr"
	"github.com/aurorafx/milkwarp/presetfile"
)

// InitPhase tracks how much of a preset's one-time GL setup has run,
// mirroring glInitPhase/glInitPhaseExecuted in the original preset switch
// context: 0 means nothing has run, 1 means phase 0 has run (buffers
// allocated and, without parallel compile, the warp and composite programs
// compiled), 2 means phase 1 has run (with parallel compile, both programs
// submitted for async compile), 3 means the preset is fully armed and
// ready to render.
type InitPhase int

const (
	PhaseNotStarted InitPhase = iota
	PhaseBuffersAndWarpReady
	PhaseCompositeReady
	PhaseReady
)

// Preset is a single loaded visualization: its compiled per-frame/per-pixel
// expression programs, its warp and composite GL programs, and the main
// ping-pong texture it renders into. A Preset is owned by the render
// thread once constructed; only CompileExpressions and PreloadTextures are
// safe to call from the CPU worker before that handoff (spec.md §5).
type Preset struct {
	Path string
	File *presetfile.File

	PerFrame expr.PerFrameProgram
	PerPixel expr.PerPixelProgram

	warpMesh      *WarpMesh
	compositeMesh *Composite

	main *PingPong
	blur *BlurChain

	shapes          []*Shape
	waveforms       []*Waveform
	defaultWaveform *Waveform
	border          *Border
	darken          *DarkenCenter

	phase    InitPhase
	executed bool // whether InitializePhase has been called for the current phase

	frameNum  int
	startTime float64
}

// New constructs a Preset from parsed file contents and compiled
// expression programs. GL objects are not created yet; call
// InitializePhase repeatedly until Phase() reports PhaseReady.
func New(path string, file *presetfile.File, perFrame expr.PerFrameProgram, perPixel expr.PerPixelProgram) *Preset {
	return &Preset{
		Path:     path,
		File:     file,
		PerFrame: perFrame,
		PerPixel: perPixel,
	}
}

// Phase reports the current GL initialization phase.
func (p *Preset) Phase() InitPhase { return p.phase }

// Close releases every GL object the preset owns.
func (p *Preset) Close() {
	if p.warpMesh != nil {
		p.warpMesh.close()
	}
	if p.compositeMesh != nil {
		p.compositeMesh.close()
	}
	if p.main != nil {
		p.main.Close()
	}
	if p.blur != nil {
		p.blur.close()
	}
	for _, s := range p.shapes {
		s.close()
	}
	for _, w := range p.waveforms {
		w.close()
	}
	if p.defaultWaveform != nil {
		p.defaultWaveform.close()
	}
	if p.border != nil {
		p.border.close()
	}
	if p.darken != nil {
		p.darken.close()
	}
}
