package switcher

import (
	"fmt"
	"sync"

	"github.com/aurorafx/milkwarp/preset"
	"github.com/aurorafx/milkwarp/presetfile"
)

// Orchestrator drives at most one in-flight preset switch at a time
// across the CPU worker and the render thread, per spec.md §4.5. The
// render thread calls Drive once per frame; it never blocks.
type Orchestrator struct {
	mu     sync.Mutex
	active *preset.Preset
	current *Context

	parser presetfile.Parser
	worker *CPUWorker
}

// NewOrchestrator constructs an Orchestrator with no active preset.
func NewOrchestrator(parser presetfile.Parser, worker *CPUWorker) *Orchestrator {
	return &Orchestrator{parser: parser, worker: worker}
}

// Active returns the currently rendering preset, or nil before the
// first switch has completed.
func (o *Orchestrator) Active() *preset.Preset {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Current returns the in-flight switch context, or nil if none is
// pending.
func (o *Orchestrator) Current() *Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

func terminal(s State) bool { return s == Completed || s == Failed }

// RequestSwitch constructs a new switch context for path and hands it
// to the CPU worker's file-read slot, cancelling any predecessor that
// has not yet reached a terminal state.
func (o *Orchestrator) RequestSwitch(path string, smooth bool) *Context {
	ctx := NewContext(path, smooth)
	ctx.setState(CpuLoading)

	o.mu.Lock()
	if o.current != nil && !terminal(o.current.State()) {
		o.current.Cancel()
	}
	o.current = ctx
	o.mu.Unlock()

	o.worker.SubmitFileRead(ctx)
	return ctx
}

// Drive advances the current switch context by exactly one step,
// following the exact state table from spec.md §4.5. It never blocks:
// CpuLoading/ExpressionCompiling states are polled, not waited on.
func (o *Orchestrator) Drive(renderCtx preset.RenderContext) error {
	o.mu.Lock()
	c := o.current
	o.mu.Unlock()
	if c == nil {
		return nil
	}

	if c.Cancelled() && !terminal(c.State()) {
		c.setState(Failed)
	}

	switch c.State() {
	case Idle, CpuLoading:
		// Waiting on the CPU worker's file-read step.
		return nil

	case GlStaging:
		if err := o.stagePreset(c); err != nil {
			c.fail(err)
			return err
		}
		c.setState(ExpressionCompiling)
		o.worker.SubmitExpressionCompile(c)
		return nil

	case ExpressionCompiling:
		if c.expressionsAreCompiled() {
			c.setState(GlPhases)
		}
		return nil

	case GlPhases:
		return o.driveGlPhases(c, renderCtx)

	case Activating:
		o.mu.Lock()
		old := o.active
		o.active = c.Preset
		o.mu.Unlock()
		if old != nil {
			old.Close()
		}
		c.setState(Completed)
		return nil

	case Completed, Failed:
		return nil

	default:
		return fmt.Errorf("switcher: unknown state %v", c.State())
	}
}

func (o *Orchestrator) driveGlPhases(c *Context, renderCtx preset.RenderContext) error {
	if !c.GLInitPhaseExecuted {
		if err := c.Preset.InitializePhase(renderCtx, c.GLInitPhase); err != nil {
			c.fail(err)
			return err
		}
		c.GLInitPhaseExecuted = true
		return nil
	}

	done, err := c.Preset.IsPhaseComplete(c.GLInitPhase)
	if err != nil {
		c.fail(err)
		return err
	}
	if !done {
		return nil
	}
	c.GLInitPhase++
	c.GLInitPhaseExecuted = false
	if c.GLInitPhase >= c.Preset.InitializePhaseCount() {
		c.setState(Activating)
	}
	return nil
}

// stagePreset parses the staged file bytes and constructs the new
// preset.Preset on the render thread, per spec.md §4.5's GlStaging step.
func (o *Orchestrator) stagePreset(c *Context) error {
	if c.FileData == nil {
		return fmt.Errorf("switcher: non-file preset protocols require a host-supplied stream adapter, none configured for %q", c.Path)
	}
	file, err := o.parser.Parse(c.FileData)
	if err != nil {
		return fmt.Errorf("parsing preset %q: %w", c.Path, err)
	}
	c.Preset = preset.New(c.Path, file, nil, nil)
	return nil
}

// Close releases the active preset and stops the CPU worker.
func (o *Orchestrator) Close() {
	o.worker.Close()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		o.active.Close()
		o.active = nil
	}
}
