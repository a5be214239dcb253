// Package egl wraps just enough of libEGL to give cmd/milkwarp a
// headless, windowless OpenGL context: a pbuffer surface sized to the
// render target instead of an on-screen window. This is the engine's
// off-screen rendering backend, distinct from glresolve's own EGL cgo
// block which resolves GL function pointers rather than creating
// contexts.
package egl

// #cgo LDFLAGS: -L. -lEGL
// #include <EGL/egl.h>
import "C"
import (
	"fmt"
)

// DefaultDisplay requests the platform's default EGL display connection.
var DefaultDisplay = NativeDisplayType(nil)

type NativeDisplayType C.EGLNativeDisplayType

type API C.EGLenum

const (
	OpenGLAPI   = C.EGL_OPENGL_API
	OpenGLESAPI = C.EGL_OPENGL_ES_API
)

// Display is an initialized EGL display connection.
type Display struct {
	dpy C.EGLDisplay
}

// Surface is an off-screen pbuffer render target.
type Surface struct {
	conf C.EGLConfig
	surf C.EGLSurface
}

// Context is a GL context bound to a Display/Surface pair.
type Context struct {
	Display Display
	Surface Surface

	context C.EGLContext
}

// GetDisplay opens and initializes dtype, failing if EGL cannot be
// brought up at all (no compatible driver, no display available).
func GetDisplay(dtype NativeDisplayType) (Display, error) {
	dpy := C.eglGetDisplay(C.EGLNativeDisplayType(dtype))
	if C.eglInitialize(dpy, nil, nil) == C.EGL_FALSE {
		return Display{}, fmt.Errorf("egl: eglInitialize failed: %w", eglError())
	}
	return Display{dpy: dpy}, nil
}

// CreateSurface allocates a pbuffer of the given size with an 8-bit RGB
// config suitable for rendering into and later sampling as a texture.
func (d Display) CreateSurface(width, height uint) Surface {
	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_RED_SIZE, 8,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_NONE,
	}
	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	var numConfigs C.EGLint
	var cfg C.EGLConfig
	C.eglChooseConfig(d.dpy, &configAttribs[0], &cfg, 1, &numConfigs)

	surf := C.eglCreatePbufferSurface(d.dpy, cfg, &pbufferAttribs[0])
	return Surface{conf: cfg, surf: surf}
}

// BindAPI selects which client API (desktop GL or GLES) subsequent
// contexts on this display are created against.
func (d Display) BindAPI(api API) {
	C.eglBindAPI(C.EGLenum(api))
}

// CreateContext creates a GL context compatible with surface's config.
func (d Display) CreateContext(surface Surface) Context {
	ctxHandle := C.eglCreateContext(d.dpy, surface.conf, nil, nil)
	return Context{Display: d, Surface: surface, context: ctxHandle}
}

// Destroy tears down the display connection and every context/surface
// created from it.
func (d Display) Destroy() {
	C.eglTerminate(d.dpy)
}

// MakeCurrent binds cx's surface and context to the calling thread, the
// precondition glresolve.Load and every subsequent GL call assume.
func (cx Context) MakeCurrent() {
	C.eglMakeCurrent(cx.Display.dpy, cx.Surface.surf, cx.Surface.surf, cx.context)
}

// eglDescriptions maps EGL error codes to human-readable text; eglError
// looks the current thread's error up in it.
var eglDescriptions = map[C.EGLint]string{
	C.EGL_NOT_INITIALIZED:     "EGL is not initialized, or could not be initialized, for this display",
	C.EGL_BAD_ACCESS:          "EGL cannot access a requested resource (a context may be bound on another thread)",
	C.EGL_BAD_ALLOC:           "EGL failed to allocate resources for the requested operation",
	C.EGL_BAD_ATTRIBUTE:       "an unrecognized attribute or attribute value was passed in the attribute list",
	C.EGL_BAD_CONTEXT:         "an EGLContext argument does not name a valid EGL rendering context",
	C.EGL_BAD_CONFIG:          "an EGLConfig argument does not name a valid EGL frame buffer configuration",
	C.EGL_BAD_CURRENT_SURFACE: "the current surface of the calling thread is no longer valid",
	C.EGL_BAD_DISPLAY:         "an EGLDisplay argument does not name a valid EGL display connection",
	C.EGL_BAD_SURFACE:         "an EGLSurface argument does not name a valid surface configured for GL rendering",
	C.EGL_BAD_MATCH:           "arguments are inconsistent (e.g. a context requires buffers not supplied by a surface)",
	C.EGL_BAD_PARAMETER:       "one or more argument values are invalid",
	C.EGL_BAD_NATIVE_PIXMAP:   "a NativePixmapType argument does not refer to a valid native pixmap",
	C.EGL_BAD_NATIVE_WINDOW:   "a NativeWindowType argument does not refer to a valid native window",
	C.EGL_CONTEXT_LOST:        "a power management event destroyed every context; state must be reinitialized",
}

func eglError() error {
	code := C.eglGetError()
	if code == C.EGL_SUCCESS {
		return nil
	}
	if desc, ok := eglDescriptions[code]; ok {
		return fmt.Errorf("%s", desc)
	}
	return fmt.Errorf("unknown EGL error: %v", code)
}
