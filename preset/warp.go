package preset

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/aurorafx/milkwarp/expr"
)

const warpMeshResolution = 32

// WarpMesh owns the warp shader and the regular grid of vertices it
// displaces each frame by evaluating the per-pixel expression program
// (spec.md §4.8). Warped vertex positions are recomputed and re-uploaded
// every frame into a vertex buffer allocated once alongside the index
// buffer and vertex array.
type WarpMesh struct {
	shader *Shader

	vao, vbo, ibo uint32
	indexCount    int32

	cols, rows int
	baseVerts  []float32 // interleaved x,y in mesh space, computed once by NewWarpMesh
}

// NewWarpMesh allocates the vertex/index buffers for a cols x rows grid.
// The shader itself is attached later via CompileWarpShader{,Async}.
func NewWarpMesh(cols, rows int) *WarpMesh {
	if cols < 2 {
		cols = warpMeshResolution
	}
	if rows < 2 {
		rows = warpMeshResolution
	}
	wm := &WarpMesh{cols: cols, rows: rows}

	gl.GenVertexArrays(1, &wm.vao)
	gl.GenBuffers(1, &wm.vbo)
	gl.GenBuffers(1, &wm.ibo)

	indices := meshIndices(cols, rows)
	wm.indexCount = int32(len(indices))

	gl.BindVertexArray(wm.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, wm.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ARRAY_BUFFER, wm.vbo)
	// Two float32 per vertex (warped x, y); allocated once, respecified
	// every frame with glBufferSubData.
	gl.BufferData(gl.ARRAY_BUFFER, cols*rows*2*4, nil, gl.DYNAMIC_DRAW)
	gl.BindVertexArray(0)

	wm.baseVerts = make([]float32, cols*rows*2)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y*cols + x) * 2
			wm.baseVerts[i+0] = float32(x) / float32(cols-1)
			wm.baseVerts[i+1] = float32(y) / float32(rows-1)
		}
	}
	return wm
}

func meshIndices(cols, rows int) []uint32 {
	var idx []uint32
	for y := 0; y < rows-1; y++ {
		for x := 0; x < cols-1; x++ {
			tl := uint32(y*cols + x)
			tr := tl + 1
			bl := uint32((y+1)*cols + x)
			br := bl + 1
			idx = append(idx, tl, bl, tr, tr, bl, br)
		}
	}
	return idx
}

// CompileWarpShader compiles the warp vertex/fragment program blocking.
func (wm *WarpMesh) CompileWarpShader(vs, fs string) error {
	sh, err := CompileProgram(vs, fs)
	if err != nil {
		return err
	}
	wm.shader = sh
	return nil
}

// CompileWarpShaderAsync starts a deferred compile; poll with
// IsWarpShaderCompileComplete.
func (wm *WarpMesh) CompileWarpShaderAsync(vs, fs string, parallelAvailable bool) error {
	sh, err := SubmitCompileAsync(vs, fs, parallelAvailable)
	if err != nil {
		return err
	}
	wm.shader = sh
	return nil
}

func (wm *WarpMesh) IsWarpShaderCompileComplete() (bool, error) {
	if wm.shader == nil {
		return false, nil
	}
	return wm.shader.IsCompileComplete()
}

func (wm *WarpMesh) FinalizeWarpShaderCompile() error {
	if wm.shader == nil {
		return nil
	}
	return wm.shader.FinalizeCompile()
}

// Draw evaluates the per-pixel program at every mesh vertex, uploads the
// warped positions and issues the draw call against whatever framebuffer
// the caller has already bound, binding the "main"/previous-frame
// texture at unit 0 (already bound by the caller) and the three blur
// levels at units 1-3 as the "blur1"/"blur2"/"blur3" samplers a warp
// shader may reference (spec.md §4.8).
func (wm *WarpMesh) Draw(vars expr.Variables, perPixel expr.PerPixelProgram, blur *BlurChain) error {
	warped := make([]float32, len(wm.baseVerts))
	for y := 0; y < wm.rows; y++ {
		for x := 0; x < wm.cols; x++ {
			i := (y*wm.cols + x) * 2
			mx, my := float64(wm.baseVerts[i]), float64(wm.baseVerts[i+1])
			wx, wy := mx, my
			if perPixel != nil {
				var err error
				wx, wy, err = perPixel.EvalVertex(mx, my, vars)
				if err != nil {
					return err
				}
			}
			warped[i+0] = float32(wx)
			warped[i+1] = float32(wy)
		}
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, wm.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(warped)*4, gl.Ptr(warped))

	wm.shader.Bind()
	wm.shader.SetInt("main", 0)
	if blur != nil {
		for i, name := range []string{"blur1", "blur2", "blur3"} {
			gl.ActiveTexture(gl.TEXTURE1 + uint32(i))
			gl.BindTexture(gl.TEXTURE_2D, blur.Texture(i))
			wm.shader.SetInt(name, int32(i+1))
		}
		gl.ActiveTexture(gl.TEXTURE0)
	}
	gl.BindVertexArray(wm.vao)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)
	gl.DrawElements(gl.TRIANGLES, wm.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	wm.shader.Unbind()
	return nil
}

// Close releases the warp mesh's GL objects.
func (wm *WarpMesh) close() {
	if wm.shader != nil {
		wm.shader.Close()
	}
	gl.DeleteVertexArrays(1, &wm.vao)
	gl.DeleteBuffers(1, &wm.vbo)
	gl.DeleteBuffers(1, &wm.ibo)
}
