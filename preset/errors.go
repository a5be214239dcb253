package preset

import (
	"fmt"
	"io"
	"strings"
)

// Stage identifies a shader stage within a preset's warp or composite
// program.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// CompileError reports a single shader stage that failed to compile. The
// source is retained (rather than discarded once the driver has logged an
// error) so callers can render it alongside the driver's message.
type CompileError struct {
	Stage  Stage
	Source string
	Log    string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("error compiling %s shader: %s", e.Stage, strings.TrimRight(e.Log, "\x00"))
}

// PrettyPrint writes the error log together with the offending source,
// annotated with line numbers, to out.
func (e CompileError) PrettyPrint(out io.Writer) {
	fmt.Fprintf(out, "%s\n\n", e.Error())
	for i, line := range strings.Split(e.Source, "\n") {
		fmt.Fprintf(out, "%4d  %s\n", i+1, line)
	}
}

// LinkError reports a program link failure.
type LinkError struct {
	Log string
}

func (e LinkError) Error() string {
	return fmt.Sprintf("error linking shader program: %s", strings.TrimRight(e.Log, "\x00"))
}

// LoadError wraps a failure to load a preset from disk, distinguishing
// which phase of loading failed so the switch orchestrator can decide
// whether a retry or a fallback preset is appropriate.
type LoadError struct {
	Path  string
	Phase string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading preset %q failed during %s: %v", e.Path, e.Phase, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
