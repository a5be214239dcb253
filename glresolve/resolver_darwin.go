//go:build darwin

package glresolve

// #cgo LDFLAGS: -framework OpenGL -ldl
// #include <dlfcn.h>
// #include <stdlib.h>
// #include <OpenGL/OpenGL.h>
//
// static void *x_dlopen_self(void) {
//   return dlopen(NULL, RTLD_NOW | RTLD_GLOBAL);
// }
// static void *x_dlsym(void *handle, const char *name) {
//   return dlsym(handle, name);
// }
// static void *x_current_cgl_context(void) {
//   return (void *)CGLGetCurrentContext();
// }
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

func init() {
	thePlatform = &darwinPlatform{}
}

// darwinPlatform resolves symbols against CGL. Unlike EGL/GLX/WGL, CGL has
// no GetProcAddress entry point of its own: every OpenGL symbol, core or
// extension, is an ordinary export of the process image once the OpenGL
// framework is linked, so provider lookups and direct exports collapse
// into the same dlsym call.
type darwinPlatform struct {
	mu     sync.Mutex
	handle unsafe.Pointer
}

func (p *darwinPlatform) openNativeLibraries(opts Options) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle != nil {
		return nil
	}
	h := C.x_dlopen_self()
	if h == nil {
		return fmt.Errorf("could not open the process image for symbol lookup")
	}
	p.handle = h
	return nil
}

func (p *darwinPlatform) probeCurrentContext() contextProbe {
	var probe contextProbe
	probe.cglAvailable = true
	ctx := C.x_current_cgl_context()
	probe.cglCurrent = ctx != nil
	return probe
}

// providerGetProcAddress has nothing to gate on CGL: every symbol is a
// direct export, so this always defers to libExportSymbol.
func (p *darwinPlatform) providerGetProcAddress(backend Backend, name string, opts Options) (uintptr, bool) {
	if backend != BackendCGL {
		return 0, false
	}
	return p.libExportSymbol(name)
}

func (p *darwinPlatform) providerFallbackGetProcAddress(name string) (uintptr, bool) {
	return p.libExportSymbol(name)
}

// globalSymbol and libExportSymbol are the same lookup on this platform:
// both resolve against the process image dlopen(NULL, ...) opened.
func (p *darwinPlatform) globalSymbol(name string) (uintptr, bool) {
	return p.libExportSymbol(name)
}

func (p *darwinPlatform) libExportSymbol(name string) (uintptr, bool) {
	p.mu.Lock()
	h := p.handle
	p.mu.Unlock()
	if h == nil {
		return 0, false
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	addr := C.x_dlsym(h, cname)
	if addr == nil {
		return 0, false
	}
	return uintptr(addr), true
}
