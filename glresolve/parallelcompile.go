package glresolve

import (
	"sync"

	"github.com/go-gl/gl/v3.3-core/gl"
)

const glMaxShaderCompilerThreadsAllMax = 0xFFFFFFFF

// ParallelCompileProbe reports whether the current context supports
// deferring shader compile/link completion checks to a later frame via
// GL_KHR_parallel_shader_compile (or its ARB twin, or core GL 4.6's
// built-in support). Probing is cheap but not free, so the result is
// cached for the lifetime of the context.
type ParallelCompileProbe struct {
	mu        sync.Mutex
	probed    bool
	available bool
}

var (
	parallelProbeOnce sync.Once
	parallelProbe     *ParallelCompileProbe
)

// ParallelCompile returns the process-wide probe instance.
func ParallelCompile() *ParallelCompileProbe {
	parallelProbeOnce.Do(func() {
		parallelProbe = &ParallelCompileProbe{}
	})
	return parallelProbe
}

// Probe performs the one-time capability check described in spec.md §4.3.
// It must be called with a GL context current. On a WebGL backend the
// probe is always negative: GL_COMPLETION_STATUS_KHR polling through the
// JS bridge has been observed to never report completion, which would
// stall the async compile state machine indefinitely, so WebGL always
// takes the synchronous single-frame compile path instead.
func (p *ParallelCompileProbe) Probe(backend Backend) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.probed {
		return p.available
	}
	p.probed = true

	if backend == BackendWebGL {
		p.available = false
		return false
	}

	if !hasExtension("GL_KHR_parallel_shader_compile") &&
		!hasExtension("GL_ARB_parallel_shader_compile") &&
		!coreVersionAtLeast(4, 6) {
		p.available = false
		return false
	}

	fn := resolveMaxShaderCompilerThreadsFn()
	if fn == nil {
		// The extension string is advertised but no entry point could be
		// resolved; trust the driver's default thread count rather than
		// disabling the feature outright.
		p.available = true
		return true
	}

	gl.GetError() // clear any pending error before the call
	fn(glMaxShaderCompilerThreadsAllMax)
	p.available = gl.GetError() == gl.NO_ERROR
	return p.available
}

func (p *ParallelCompileProbe) IsAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probed && p.available
}

func hasExtension(name string) bool {
	var count int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &count)
	for i := int32(0); i < count; i++ {
		if gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))) == name {
			return true
		}
	}
	return false
}

func coreVersionAtLeast(major, minor int) bool {
	v, err := ParseGLVersionString(gl.GoStr(gl.GetString(gl.VERSION)))
	if err != nil {
		return false
	}
	return v.AtLeast(OpenGLVersion{Major: major, Minor: minor})
}

type maxShaderCompilerThreadsFn func(count uint32)

// resolveMaxShaderCompilerThreadsFn tries the core, then KHR, then ARB
// entry point name, in that priority order, matching
// ParallelShaderProbe.cpp's resolution order.
func resolveMaxShaderCompilerThreadsFn() maxShaderCompilerThreadsFn {
	names := []string{
		"glMaxShaderCompilerThreads",
		"glMaxShaderCompilerThreadsKHR",
		"glMaxShaderCompilerThreadsARB",
	}
	for _, name := range names {
		addr, err := Default().Resolve(name)
		if err != nil || addr == 0 {
			continue
		}
		fnAddr := addr
		return func(count uint32) {
			callMaxShaderCompilerThreads(fnAddr, count)
		}
	}
	return nil
}
