package preset

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/aurorafx/milkwarp/glresolve"
)

// glCompletionStatusKHR is GL_COMPLETION_STATUS_KHR from
// GL_KHR_parallel_shader_compile. go-gl's core 3.3 binding predates the
// extension, so the token is declared here rather than imported.
const glCompletionStatusKHR = 0x91B1

// AsyncState tracks progress through a deferred compile/link, letting the
// render thread submit shader source one frame and poll for completion on
// later frames instead of blocking until the driver's compiler finishes.
type AsyncState uint8

const (
	AsyncNone AsyncState = iota
	AsyncCompilingShaders
	AsyncReadyToLink
	AsyncLinkingProgram
	AsyncComplete
)

// Shader wraps a linked GLSL program together with the bookkeeping needed
// to compile it either synchronously or across several frames when the
// driver advertises GL_KHR_parallel_shader_compile (spec.md §4.3, §4.11).
type Shader struct {
	program uint32
	stage   AsyncState

	vertexShader, fragmentShader uint32
	// Sources are retained through the async path purely for error
	// reporting once a later stage fails.
	vertexSource, fragmentSource string

	parallelAvailable bool

	uniforms map[string]Uniform
}

// CompileProgram compiles and links vertexSrc/fragmentSrc synchronously,
// blocking until both steps have finished. Used for the initial preset
// load's warp/composite shaders when no parallel-compile extension is
// available (spec.md §4.11).
func CompileProgram(vertexSrc, fragmentSrc string) (*Shader, error) {
	sh := &Shader{}
	if err := sh.compileBoth(vertexSrc, fragmentSrc); err != nil {
		return nil, err
	}
	if err := sh.link(); err != nil {
		sh.deleteShaders()
		return nil, err
	}
	sh.deleteShaders()
	sh.stage = AsyncComplete
	sh.uniforms = listUniforms(sh.program)
	return sh, nil
}

// SubmitCompileAsync kicks off shader compilation without waiting for the
// driver to finish, relying on a later IsCompileComplete/FinalizeCompile
// pair to advance the state machine across frames.
func SubmitCompileAsync(vertexSrc, fragmentSrc string, parallelAvailable bool) (*Shader, error) {
	sh := &Shader{parallelAvailable: parallelAvailable}
	if err := sh.compileBoth(vertexSrc, fragmentSrc); err != nil {
		return nil, err
	}
	sh.stage = AsyncCompilingShaders
	return sh, nil
}

// IsCompileComplete polls the driver for completion of the current async
// stage and advances sh.stage when ready. It must be called once per
// frame until it reports true; calling it after AsyncComplete is a no-op
// that always returns true.
func (sh *Shader) IsCompileComplete() (bool, error) {
	switch sh.stage {
	case AsyncComplete:
		return true, nil
	case AsyncCompilingShaders:
		if sh.parallelAvailable && !sh.shaderCompletionStatus(sh.vertexShader) {
			return false, nil
		}
		if sh.parallelAvailable && !sh.shaderCompletionStatus(sh.fragmentShader) {
			return false, nil
		}
		if err := sh.checkShaderCompileStatus(sh.vertexShader, StageVertex, sh.vertexSource); err != nil {
			return false, err
		}
		if err := sh.checkShaderCompileStatus(sh.fragmentShader, StageFragment, sh.fragmentSource); err != nil {
			return false, err
		}
		// Shaders are ready but the link is deliberately not submitted
		// this frame: yield once so the caller never does more than one
		// compiler-facing step per frame.
		sh.stage = AsyncReadyToLink
		return false, nil
	case AsyncReadyToLink:
		if err := sh.link(); err != nil {
			return false, err
		}
		sh.stage = AsyncLinkingProgram
		return false, nil
	case AsyncLinkingProgram:
		if sh.parallelAvailable && !sh.programCompletionStatus() {
			return false, nil
		}
		if err := sh.checkLinkStatus(); err != nil {
			return false, err
		}
		sh.deleteShaders()
		sh.uniforms = listUniforms(sh.program)
		sh.stage = AsyncComplete
		return true, nil
	default:
		return true, nil
	}
}

// FinalizeCompile blocks until IsCompileComplete reports done, for callers
// that need a synchronous result after all (e.g. tests, or a caller that
// chooses not to spread compilation across frames).
func (sh *Shader) FinalizeCompile() error {
	for {
		done, err := sh.IsCompileComplete()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (sh *Shader) compileBoth(vertexSrc, fragmentSrc string) error {
	sh.vertexSource = vertexSrc
	sh.fragmentSource = fragmentSrc

	vs, err := compileShaderStage(StageVertex, vertexSrc)
	if err != nil {
		return err
	}
	sh.vertexShader = vs

	fs, err := compileShaderStage(StageFragment, fragmentSrc)
	if err != nil {
		gl.DeleteShader(vs)
		return err
	}
	sh.fragmentShader = fs
	return nil
}

func (sh *Shader) link() error {
	program := gl.CreateProgram()
	gl.AttachShader(program, sh.vertexShader)
	gl.AttachShader(program, sh.fragmentShader)
	gl.LinkProgram(program)
	sh.program = program
	if !sh.parallelAvailable {
		return sh.checkLinkStatus()
	}
	return nil
}

func (sh *Shader) checkLinkStatus() error {
	var status int32
	gl.GetProgramiv(sh.program, gl.LINK_STATUS, &status)
	gl.DetachShader(sh.program, sh.vertexShader)
	gl.DetachShader(sh.program, sh.fragmentShader)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(sh.program, gl.INFO_LOG_LENGTH, &logLen)
		logStr := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(sh.program, logLen, nil, gl.Str(logStr))
		gl.DeleteProgram(sh.program)
		sh.program = 0
		return LinkError{Log: logStr}
	}
	return nil
}

func (sh *Shader) checkShaderCompileStatus(shader uint32, stage Stage, source string) error {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		logStr := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(logStr))
		return CompileError{Stage: stage, Source: source, Log: logStr}
	}
	return nil
}

func (sh *Shader) shaderCompletionStatus(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, glCompletionStatusKHR, &status)
	return status != gl.FALSE
}

func (sh *Shader) programCompletionStatus() bool {
	var status int32
	gl.GetProgramiv(sh.program, glCompletionStatusKHR, &status)
	return status != gl.FALSE
}

func (sh *Shader) deleteShaders() {
	if sh.vertexShader != 0 {
		gl.DeleteShader(sh.vertexShader)
		sh.vertexShader = 0
	}
	if sh.fragmentShader != 0 {
		gl.DeleteShader(sh.fragmentShader)
		sh.fragmentShader = 0
	}
}

func compileShaderStage(stage Stage, src string) (uint32, error) {
	var glStage uint32
	if stage == StageVertex {
		glStage = gl.VERTEX_SHADER
	} else {
		glStage = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(glStage)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)
	return shader, nil
}

// Validate reports whether the program passes glValidateProgram, writing
// the info log to msg on failure. Unlike link errors this is advisory:
// some drivers report spurious validation failures for bindings that are
// fine at draw time.
func (sh *Shader) Validate() (bool, string) {
	gl.ValidateProgram(sh.program)
	var status int32
	gl.GetProgramiv(sh.program, gl.VALIDATE_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}
	var logLen int32
	gl.GetProgramiv(sh.program, gl.INFO_LOG_LENGTH, &logLen)
	logStr := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(sh.program, logLen, nil, gl.Str(logStr))
	return false, logStr
}

// Bind makes the program current.
func (sh *Shader) Bind() { gl.UseProgram(sh.program) }

// Unbind clears the current program.
func (sh *Shader) Unbind() { gl.UseProgram(0) }

// Close deletes the underlying program object.
func (sh *Shader) Close() {
	if sh.program != 0 {
		gl.DeleteProgram(sh.program)
		sh.program = 0
	}
}

func (sh *Shader) location(name string) (int32, bool) {
	u, ok := sh.uniforms[name]
	if !ok {
		return 0, false
	}
	return u.Location, true
}

func (sh *Shader) SetFloat(name string, v float32) {
	if loc, ok := sh.location(name); ok {
		gl.Uniform1f(loc, v)
	}
}

func (sh *Shader) SetInt(name string, v int32) {
	if loc, ok := sh.location(name); ok {
		gl.Uniform1i(loc, v)
	}
}

func (sh *Shader) SetFloat2(name string, x, y float32) {
	if loc, ok := sh.location(name); ok {
		gl.Uniform2f(loc, x, y)
	}
}

func (sh *Shader) SetFloat3(name string, x, y, z float32) {
	if loc, ok := sh.location(name); ok {
		gl.Uniform3f(loc, x, y, z)
	}
}

func (sh *Shader) SetFloat4(name string, x, y, z, w float32) {
	if loc, ok := sh.location(name); ok {
		gl.Uniform4f(loc, x, y, z, w)
	}
}

func (sh *Shader) SetMat4(name string, m *[16]float32) {
	if loc, ok := sh.location(name); ok {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// HasUniform reports whether the linked program declares (and the driver
// did not optimize away) an active uniform by this name.
func (sh *Shader) HasUniform(name string) bool {
	_, ok := sh.uniforms[name]
	return ok
}

// resolverBackend exposes the detected backend so callers can decide
// whether to even attempt the async path. SubmitCompileAsync itself does
// not check the backend; WebGL takes the synchronous path because the
// parallel-compile probe always reports it unavailable.
func resolverBackend() glresolve.Backend {
	return glresolve.Default().CurrentBackend()
}
