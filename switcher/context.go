// Package switcher drives a preset from file bytes on disk to an active,
// rendering preset.Preset across the CPU worker and the render thread,
// without ever blocking the render thread on I/O or expression compile
// (spec.md §4.5/§4.6).
package switcher

import (
	"sync/atomic"

	"github.com/aurorafx/milkwarp/preset"
)

// State is one step of a switch's progress, mirroring
// PresetSwitchContext's state enum.
type State int32

const (
	Idle State = iota
	CpuLoading
	GlStaging
	ExpressionCompiling
	GlPhases
	Activating
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case CpuLoading:
		return "CpuLoading"
	case GlStaging:
		return "GlStaging"
	case ExpressionCompiling:
		return "ExpressionCompiling"
	case GlPhases:
		return "GlPhases"
	case Activating:
		return "Activating"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Context is one in-flight preset switch. At most one non-terminal
// Context exists per Orchestrator; submitting a new one cancels its
// predecessor (spec.md §3 "Switch Context").
//
// cancelled and state are accessed with atomic load/store from both the
// CPU worker goroutine and the render thread; every other field is
// written once by whichever side owns the current state and then only
// read by the other, following the hand-off points documented on each
// field below.
type Context struct {
	// Path and Smooth are write-once before the context is submitted to
	// the CPU worker.
	Path   string
	Smooth bool

	cancelled int32
	state     int32

	// FileData and ErrorMessage are written by the CPU worker before it
	// advances the context to GlStaging, then read-only for the render
	// thread.
	FileData     []byte
	ErrorMessage string

	// expressionsCompiled is set once by the CPU worker's expression
	// compile step; Drive reads it to decide whether ExpressionCompiling
	// may advance to GlPhases (SPEC_FULL.md §3).
	expressionsCompiled int32

	// Preset, GLInitPhase and GLInitPhaseExecuted are accessed only on
	// the render thread, from GlStaging onward.
	Preset            *preset.Preset
	GLInitPhase       int
	GLInitPhaseExecuted bool
}

// NewContext constructs a fresh, idle switch context for path.
func NewContext(path string, smooth bool) *Context {
	return &Context{Path: path, Smooth: smooth}
}

// State returns the context's current state with acquire semantics.
func (c *Context) State() State {
	return State(atomic.LoadInt32(&c.state))
}

// setState publishes a new state with release semantics.
func (c *Context) setState(s State) {
	atomic.StoreInt32(&c.state, int32(s))
}

// Cancel flags the context as cancelled. Observed at the CPU worker's
// check-points and by Drive before each state transition.
func (c *Context) Cancel() {
	atomic.StoreInt32(&c.cancelled, 1)
}

// Cancelled reports whether Cancel has been called.
func (c *Context) Cancelled() bool {
	return atomic.LoadInt32(&c.cancelled) != 0
}

func (c *Context) setExpressionsCompiled() {
	atomic.StoreInt32(&c.expressionsCompiled, 1)
}

func (c *Context) expressionsAreCompiled() bool {
	return atomic.LoadInt32(&c.expressionsCompiled) != 0
}

// fail records err and transitions the context to the terminal Failed
// state.
func (c *Context) fail(err error) {
	if err != nil {
		c.ErrorMessage = err.Error()
	}
	c.setState(Failed)
}
