// Package glresolve implements a cross-platform runtime GL/GLES procedure
// resolver. Given that some GL-family context is current on the calling
// thread, it detects which platform backend owns that context (EGL, GLX,
// WGL, CGL or WebGL) and answers "give me a function pointer for name X"
// through a fixed priority chain.
package glresolve

// Backend identifies which platform API owns the GL context that was
// current when the resolver last probed.
type Backend uint8

const (
	// BackendNone means backend detection failed or no loader is needed.
	BackendNone Backend = iota
	BackendEGL
	BackendGLX
	BackendWGL
	BackendCGL
	BackendWebGL
)

func (b Backend) String() string {
	switch b {
	case BackendEGL:
		return "EGL"
	case BackendGLX:
		return "GLX"
	case BackendWGL:
		return "WGL"
	case BackendCGL:
		return "CGL"
	case BackendWebGL:
		return "WebGL"
	default:
		return "None"
	}
}

// contextProbe records which provider APIs were resolvable and which of
// them report a context as current right now. It is rebuilt on every probe
// so VerifyBackendIsCurrent can re-check without holding the init mutex.
type contextProbe struct {
	eglAvailable, eglCurrent bool
	glxAvailable, glxCurrent bool
	wglAvailable, wglCurrent bool
	cglAvailable, cglCurrent bool
	webglAvailable, webglCurrent bool
}

func (p contextProbe) hasAnyCurrent() bool {
	return p.eglCurrent || p.glxCurrent || p.wglCurrent || p.cglCurrent || p.webglCurrent
}

// detectBackend applies the tie-breaking policy described in spec.md §4.1
// when more than one provider reports a current context.
//
// Apple prefers CGL over EGL when CGL is current and the EGL provider has
// no usable GetProcAddress (e.g. ANGLE is not linked in); this can be
// inverted with Options.MacOSPreferCGL = false. Everywhere else the order
// is EGL, then WGL, then CGL, then GLX.
func detectBackend(p contextProbe, opts Options) Backend {
	if opts.MacOSPreferCGL && p.cglCurrent && p.eglCurrent && !p.eglAvailable {
		return BackendCGL
	}
	switch {
	case p.eglCurrent:
		return BackendEGL
	case p.wglCurrent:
		return BackendWGL
	case p.cglCurrent:
		return BackendCGL
	case p.glxCurrent:
		return BackendGLX
	case p.webglCurrent:
		return BackendWebGL
	default:
		return BackendNone
	}
}
