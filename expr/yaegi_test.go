package expr

import "testing"

func TestYaegiCompilerPerFrame(t *testing.T) {
	c := NewYaegiCompiler()
	prog, err := c.CompilePerFrame(`vars["decay"] = vars["decay"] * 0.5`)
	if err != nil {
		t.Fatalf("CompilePerFrame failed: %v", err)
	}

	vars := Variables{"decay": 1.0}
	if err := prog.EvalFrame(vars); err != nil {
		t.Fatalf("EvalFrame failed: %v", err)
	}
	if vars["decay"] != 0.5 {
		t.Errorf("decay = %v, want 0.5", vars["decay"])
	}
}

func TestYaegiCompilerPerPixel(t *testing.T) {
	c := NewYaegiCompiler()
	prog, err := c.CompilePerPixel(`return x * 2, y * 3`)
	if err != nil {
		t.Fatalf("CompilePerPixel failed: %v", err)
	}

	wx, wy, err := prog.EvalVertex(1, 1, Variables{})
	if err != nil {
		t.Fatalf("EvalVertex failed: %v", err)
	}
	if wx != 2 || wy != 3 {
		t.Errorf("EvalVertex(1, 1) = (%v, %v), want (2, 3)", wx, wy)
	}
}

func TestYaegiCompilerRejectsInvalidSource(t *testing.T) {
	c := NewYaegiCompiler()
	if _, err := c.CompilePerFrame(`this is not valid Go`); err == nil {
		t.Error("expected an error compiling invalid source")
	}
}
