// Package expr declares the contract between the preset engine and the
// preset-expression language compiler. The compiler itself — parsing and
// evaluating a Milkdrop-style per-frame/per-pixel equation language — is
// out of scope for this module (spec.md "External Interfaces"); only the
// interfaces and a small reference adapter live here.
package expr

import "fmt"

// Variables is the shared read/write register file a compiled program
// reads its inputs from and writes its outputs to. Per-frame and per-pixel
// programs exchange values with the renderer exclusively through this
// map, matching the "q1..q32"/"megabuf" style variable space of the
// original expression language.
type Variables map[string]float64

// PerFrameProgram evaluates the preset's per-frame equations once per
// rendered frame, before the per-pixel program runs for every mesh vertex.
type PerFrameProgram interface {
	EvalFrame(vars Variables) error
}

// PerPixelProgram evaluates the preset's per-pixel (warp mesh) equations
// once per mesh vertex, consuming the outputs EvalFrame left in vars.
type PerPixelProgram interface {
	EvalVertex(x, y float64, vars Variables) (warpedX, warpedY float64, err error)
}

// Compiler turns expression source text into a pair of programs sharing
// whatever compiled representation the implementation needs. Presets hold
// onto the Compiler only long enough to produce these programs on the CPU
// worker during the expression-compile step of a preset switch (spec.md §4.6).
type Compiler interface {
	CompilePerFrame(source string) (PerFrameProgram, error)
	CompilePerPixel(source string) (PerPixelProgram, error)
}

// CompileError reports the expression source and compiler-specific
// message for a failed compile, independent of which concrete Compiler
// produced it.
type CompileError struct {
	Source string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("expression compile error: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
