package expr

import (
	"fmt"

	"github.com/cogentcore/yaegi/interp"
	"github.com/cogentcore/yaegi/stdlib"
)

// YaegiCompiler is a reference Compiler implementation built on an
// embedded Go interpreter, the same embedding pattern cogentcore's shell
// package uses to run user-supplied Go snippets: interp.New followed by
// interp.Use(stdlib.Symbols). It is a stand-in for the real Milkdrop
// expression grammar, not a reimplementation of it: expression sources
// compiled through it are expected to be small Go function bodies
// operating on a map[string]float64, useful for tests and for hosts that
// have no preset corpus of their own to point a real compiler at.
type YaegiCompiler struct {
	Options interp.Options
}

// NewYaegiCompiler builds a Compiler backed by a fresh interpreter
// instance per compiled program, avoiding shared global state between
// concurrently compiling presets.
func NewYaegiCompiler() *YaegiCompiler {
	return &YaegiCompiler{}
}

func (c *YaegiCompiler) newInterpreter() (*interp.Interpreter, error) {
	in := interp.New(c.Options)
	if err := in.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("yaegi: loading stdlib symbols: %w", err)
	}
	return in, nil
}

const yaegiProgramPreamble = `package main

func Eval(vars map[string]float64) {
`

func (c *YaegiCompiler) CompilePerFrame(source string) (PerFrameProgram, error) {
	in, err := c.newInterpreter()
	if err != nil {
		return nil, err
	}
	src := yaegiProgramPreamble + source + "\n}\n"
	if _, err := in.Eval(src); err != nil {
		return nil, &CompileError{Source: source, Err: err}
	}
	fn, err := in.Eval("main.Eval")
	if err != nil {
		return nil, &CompileError{Source: source, Err: err}
	}
	evalFn, ok := fn.Interface().(func(map[string]float64))
	if !ok {
		return nil, &CompileError{Source: source, Err: fmt.Errorf("yaegi: unexpected symbol type %s", fn.Type())}
	}
	return &yaegiPerFrame{eval: evalFn}, nil
}

func (c *YaegiCompiler) CompilePerPixel(source string) (PerPixelProgram, error) {
	in, err := c.newInterpreter()
	if err != nil {
		return nil, err
	}
	src := `package main

func Eval(x, y float64, vars map[string]float64) (float64, float64) {
` + source + "\n}\n"
	if _, err := in.Eval(src); err != nil {
		return nil, &CompileError{Source: source, Err: err}
	}
	fn, err := in.Eval("main.Eval")
	if err != nil {
		return nil, &CompileError{Source: source, Err: err}
	}
	evalFn, ok := fn.Interface().(func(float64, float64, map[string]float64) (float64, float64))
	if !ok {
		return nil, &CompileError{Source: source, Err: fmt.Errorf("yaegi: unexpected symbol type %s", fn.Type())}
	}
	return &yaegiPerPixel{eval: evalFn}, nil
}

type yaegiPerFrame struct {
	eval func(map[string]float64)
}

func (p *yaegiPerFrame) EvalFrame(vars Variables) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("yaegi: per-frame program panicked: %v", r)
		}
	}()
	p.eval(vars)
	return nil
}

type yaegiPerPixel struct {
	eval func(float64, float64, map[string]float64) (float64, float64)
}

func (p *yaegiPerPixel) EvalVertex(x, y float64, vars Variables) (wx, wy float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("yaegi: per-pixel program panicked: %v", r)
		}
	}()
	wx, wy = p.eval(x, y, vars)
	return wx, wy, nil
}
