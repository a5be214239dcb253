package preset

import (
	"testing"

	"github.com/aurorafx/milkwarp/expr"
)

func TestClampVar(t *testing.T) {
	vars := expr.Variables{"gamma": 12, "echo_zoom": -5}
	clampVar(vars, "gamma", 0, 8)
	clampVar(vars, "echo_zoom", 0.001, 1000)
	if vars["gamma"] != 8 {
		t.Errorf("gamma = %v, want clamped to 8", vars["gamma"])
	}
	if vars["echo_zoom"] != 0.001 {
		t.Errorf("echo_zoom = %v, want clamped to 0.001", vars["echo_zoom"])
	}
}

func TestClampVarLeavesUnsetVariablesAlone(t *testing.T) {
	vars := expr.Variables{}
	clampVar(vars, "gamma", 0, 8)
	if _, ok := vars["gamma"]; ok {
		t.Error("clampVar should not introduce a variable that wasn't set")
	}
}

func TestClampVarWithinRange(t *testing.T) {
	vars := expr.Variables{"gamma": 2.5}
	clampVar(vars, "gamma", 0, 8)
	if vars["gamma"] != 2.5 {
		t.Errorf("gamma = %v, want unchanged at 2.5", vars["gamma"])
	}
}

func TestBaseNameIndexed(t *testing.T) {
	tests := []struct {
		base string
		idx  int
		want string
	}{
		{"tex", 0, "tex[0]"},
		{"tex", 3, "tex[3]"},
	}
	for _, tt := range tests {
		if got := baseNameIndexed(tt.base, tt.idx); got != tt.want {
			t.Errorf("baseNameIndexed(%q, %d) = %q, want %q", tt.base, tt.idx, got, tt.want)
		}
	}
}

func TestMeshIndicesCoversEveryQuad(t *testing.T) {
	cols, rows := 4, 3
	idx := meshIndices(cols, rows)
	wantTriangles := (cols - 1) * (rows - 1) * 2
	if len(idx) != wantTriangles*3 {
		t.Fatalf("meshIndices(%d, %d) produced %d indices, want %d", cols, rows, len(idx), wantTriangles*3)
	}
	var maxIdx uint32
	for _, i := range idx {
		if i > maxIdx {
			maxIdx = i
		}
	}
	if want := uint32(cols*rows - 1); maxIdx != want {
		t.Errorf("max vertex index = %d, want %d", maxIdx, want)
	}
}

func TestInitPhaseCount(t *testing.T) {
	p := &Preset{}
	if got := p.InitializePhaseCount(); got != 3 {
		t.Errorf("InitializePhaseCount() = %d, want 3", got)
	}
}
