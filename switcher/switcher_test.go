package switcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aurorafx/milkwarp/expr"
	"github.com/aurorafx/milkwarp/texture"
)

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Idle:                "Idle",
		CpuLoading:          "CpuLoading",
		GlStaging:           "GlStaging",
		ExpressionCompiling: "ExpressionCompiling",
		GlPhases:            "GlPhases",
		Activating:          "Activating",
		Completed:           "Completed",
		Failed:              "Failed",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestContextCancel(t *testing.T) {
	c := NewContext("foo.milk", true)
	if c.Cancelled() {
		t.Fatal("fresh context should not be cancelled")
	}
	c.Cancel()
	if !c.Cancelled() {
		t.Fatal("Cancel() should be observed by Cancelled()")
	}
}

func TestIsFileProtocol(t *testing.T) {
	tests := map[string]bool{
		"foo.milk":             true,
		"file:///tmp/foo.milk": true,
		"http://example.com/x": false,
		"https://example.com/x": false,
	}
	for path, want := range tests {
		if got := isFileProtocol(path); got != want {
			t.Errorf("isFileProtocol(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLocalPath(t *testing.T) {
	if got := localPath("file:///tmp/foo.milk"); got != "/tmp/foo.milk" {
		t.Errorf("localPath stripped wrong prefix, got %q", got)
	}
	if got := localPath("foo.milk"); got != "foo.milk" {
		t.Errorf("localPath should leave a bare path unchanged, got %q", got)
	}
}

func TestCPUWorkerFileReadStagesAndAdvances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.milk")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewCPUWorker(nil, nil)
	defer w.Close()

	ctx := NewContext(path, true)
	w.SubmitFileRead(ctx)

	waitForState(t, ctx, GlStaging)
	if string(ctx.FileData) != "hello" {
		t.Errorf("FileData = %q, want %q", ctx.FileData, "hello")
	}
}

func TestCPUWorkerRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.milk")
	if err := os.WriteFile(path, make([]byte, maxPresetFileBytes+1), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewCPUWorker(nil, nil)
	defer w.Close()

	ctx := NewContext(path, true)
	w.SubmitFileRead(ctx)

	waitForState(t, ctx, Failed)
	if ctx.ErrorMessage == "" {
		t.Error("expected an error message for an oversized preset file")
	}
}

func TestCPUWorkerSubmitReplacesPendingFileJob(t *testing.T) {
	w := NewCPUWorker(nil, nil)
	defer w.Close()

	// Flood the pending slot before the worker's goroutine has a chance
	// to pick up the first job, then confirm it was cancelled.
	w.mu.Lock()
	w.closed = false
	w.mu.Unlock()

	first := NewContext("a.milk", true)
	w.mu.Lock()
	w.pendingFile = first
	w.mu.Unlock()

	second := NewContext("b.milk", true)
	w.SubmitFileRead(second)

	if !first.Cancelled() {
		t.Error("submitting a new file-read job should cancel the one it replaces")
	}
}

type fakeCompiler struct{}

func (fakeCompiler) CompilePerFrame(string) (expr.PerFrameProgram, error) { return fakePerFrame{}, nil }
func (fakeCompiler) CompilePerPixel(string) (expr.PerPixelProgram, error) { return fakePerPixel{}, nil }

type fakePerFrame struct{}

func (fakePerFrame) EvalFrame(expr.Variables) error { return nil }

type fakePerPixel struct{}

func (fakePerPixel) EvalVertex(x, y float64, _ expr.Variables) (float64, float64, error) {
	return x, y, nil
}

func TestCPUWorkerExpressionCompileCancellation(t *testing.T) {
	w := NewCPUWorker(fakeCompiler{}, texture.NewManager(nil))
	defer w.Close()

	ctx := NewContext("a.milk", true)
	ctx.Cancel()
	w.SubmitExpressionCompile(ctx)

	time.Sleep(20 * time.Millisecond)
	if ctx.expressionsAreCompiled() {
		t.Error("a cancelled context should never be marked expressionsCompiled")
	}
}

func waitForState(t *testing.T, ctx *Context, want State) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ctx.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("context never reached state %v, stuck at %v", want, ctx.State())
}
