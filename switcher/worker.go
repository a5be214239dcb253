package switcher

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aurorafx/milkwarp/expr"
	"github.com/aurorafx/milkwarp/texture"
)

// maxPresetFileBytes is the size ceiling on a locally read preset file;
// larger files are rejected rather than read (spec.md §4.6).
const maxPresetFileBytes = 1 << 20

// CPUWorker is the single background thread (goroutine, here) that does
// every blocking, non-GL step of a preset switch: file I/O and
// expression compilation. It never touches GL (spec.md §3 "Threads").
//
// It exposes two submission slots, "file read" and "expression compile".
// Submitting to a slot that already holds an unstarted job cancels that
// job and replaces it, matching PresetCpuWorker's single-pending-item
// behavior per slot.
type CPUWorker struct {
	mu   sync.Mutex
	cond *sync.Cond

	pendingFile *Context
	pendingExpr *Context
	closed      bool

	compiler expr.Compiler
	textures *texture.Manager

	wg sync.WaitGroup
}

// NewCPUWorker starts the background goroutine. compiler is used to
// compile a staged preset's expression source; textures receives the
// resulting sampler names to pre-decode.
func NewCPUWorker(compiler expr.Compiler, textures *texture.Manager) *CPUWorker {
	w := &CPUWorker{compiler: compiler, textures: textures}
	w.cond = sync.NewCond(&w.mu)
	w.wg.Add(1)
	go w.loop()
	return w
}

// SubmitFileRead queues ctx for the file-read slot, cancelling whatever
// context currently occupies it.
func (w *CPUWorker) SubmitFileRead(ctx *Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingFile != nil && w.pendingFile != ctx {
		w.pendingFile.Cancel()
	}
	w.pendingFile = ctx
	w.cond.Signal()
}

// SubmitExpressionCompile queues ctx for the expression-compile slot,
// cancelling whatever context currently occupies it.
func (w *CPUWorker) SubmitExpressionCompile(ctx *Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingExpr != nil && w.pendingExpr != ctx {
		w.pendingExpr.Cancel()
	}
	w.pendingExpr = ctx
	w.cond.Signal()
}

// Close flags every pending context as cancelled and joins the worker
// goroutine. A job the worker has already started is not flagged: it runs
// to completion before Close returns.
func (w *CPUWorker) Close() {
	w.mu.Lock()
	if w.pendingFile != nil {
		w.pendingFile.Cancel()
	}
	if w.pendingExpr != nil {
		w.pendingExpr.Cancel()
	}
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *CPUWorker) loop() {
	defer w.wg.Done()
	for {
		w.mu.Lock()
		for w.pendingFile == nil && w.pendingExpr == nil && !w.closed {
			w.cond.Wait()
		}
		if w.closed && w.pendingFile == nil && w.pendingExpr == nil {
			w.mu.Unlock()
			return
		}
		fileCtx := w.pendingFile
		w.pendingFile = nil
		exprCtx := w.pendingExpr
		w.pendingExpr = nil
		w.mu.Unlock()

		if fileCtx != nil {
			w.runFileRead(fileCtx)
		}
		if exprCtx != nil {
			w.runExpressionCompile(exprCtx)
		}
	}
}

// runFileRead resolves path's protocol and, for local files, stages up
// to maxPresetFileBytes of content before advancing the context to
// GlStaging. Non-file protocols skip local I/O entirely and go straight
// to GlStaging, leaving FileData nil — constructing the preset from a
// stream is an external-collaborator concern this module only contracts
// for (spec.md §4.6).
func (w *CPUWorker) runFileRead(ctx *Context) {
	if ctx.Cancelled() {
		return
	}

	if !isFileProtocol(ctx.Path) {
		ctx.setState(GlStaging)
		return
	}

	data, err := readFileBounded(localPath(ctx.Path), maxPresetFileBytes)
	if ctx.Cancelled() {
		return
	}
	if err != nil {
		ctx.fail(err)
		return
	}
	ctx.FileData = data
	ctx.setState(GlStaging)
}

// runExpressionCompile compiles the preset's expression source (already
// constructed on the render thread by the time this runs) and preloads
// its textures, then marks expressionsCompiled for Drive to observe.
func (w *CPUWorker) runExpressionCompile(ctx *Context) {
	if ctx.Cancelled() || ctx.Preset == nil {
		return
	}

	if err := ctx.Preset.CompileExpressions(w.compiler); err != nil {
		ctx.fail(err)
		return
	}
	if ctx.Cancelled() {
		return
	}
	if w.textures != nil {
		ctx.Preset.PreloadTextures(w.textures)
	}
	ctx.setExpressionsCompiled()
}

func isFileProtocol(path string) bool {
	if i := strings.Index(path, "://"); i >= 0 {
		return path[:i] == "file"
	}
	return true
}

func localPath(path string) string {
	return strings.TrimPrefix(path, "file://")
}

func readFileBounded(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("switcher: preset file %q exceeds the %d byte limit", path, limit)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return data, nil
}
