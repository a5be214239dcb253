package glresolve

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Load initializes the go-gl function table through this resolver and
// verifies the current context meets req. It must run on the thread that
// owns the current GL context; if Default() is not yet initialized, Load
// initializes it with DefaultOptions first.
func Load(req VersionRequirement) (OpenGLVersion, error) {
	r := Default()
	if !r.IsInitialized() {
		if !r.Initialize(DefaultOptions(), nil, nil) {
			return OpenGLVersion{}, fmt.Errorf("glresolve: no current GL context could be detected")
		}
	}

	gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr, err := r.Resolve(name)
		if err != nil {
			return nil
		}
		return unsafe.Pointer(addr)
	})

	versionStr := gl.GoStr(gl.GetString(gl.VERSION))
	version, err := ParseGLVersionString(versionStr)
	if err != nil {
		return OpenGLVersion{}, err
	}
	if !version.AtLeast(req.Min) {
		return version, fmt.Errorf("glresolve: context reports GL %s, need at least %s", version, req.Min)
	}

	if req.MinGLSL.Number > 0 {
		glslStr := gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
		glslVersion, err := ParseGLSLVersionString(glslStr)
		if err != nil {
			return version, err
		}
		if !glslVersion.AtLeast(req.MinGLSL) {
			return version, fmt.Errorf("glresolve: context reports GLSL %s, need at least %s", glslVersion, req.MinGLSL)
		}
	}
	ParallelCompile().Probe(r.CurrentBackend())
	return version, nil
}
