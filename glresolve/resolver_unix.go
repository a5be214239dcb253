//go:build linux || freebsd || netbsd || openbsd

package glresolve

// #cgo LDFLAGS: -ldl
// #include <dlfcn.h>
// #include <stdlib.h>
//
// static void *x_dlopen(const char *name) {
//   return dlopen(name, RTLD_NOW | RTLD_GLOBAL);
// }
// static void *x_dlsym(void *handle, const char *name) {
//   return dlsym(handle, name);
// }
// static void *x_rtld_default_sym(const char *name) {
//   return dlsym(RTLD_DEFAULT, name);
// }
//
// typedef void *(*x_get_proc_address_fn)(const char *);
// static void *x_call_get_proc_address(x_get_proc_address_fn fn, const char *name) {
//   return fn(name);
// }
// typedef void *(*x_get_current_context_fn)(void);
// static void *x_call_get_current_context(x_get_current_context_fn fn) {
//   return fn();
// }
// typedef void *(*x_get_current_display_fn)(void);
// static void *x_call_get_current_display(x_get_current_display_fn fn) {
//   return fn();
// }
// typedef const char *(*x_query_string_fn)(void *, int);
// static const char *x_call_query_string(x_query_string_fn fn, void *dpy, int name) {
//   return fn(dpy, name);
// }
import "C"
import (
	"fmt"
	"strings"
	"sync"
	"unsafe"
)

// eglExtensions is EGL_EXTENSIONS, the eglQueryString query enum used to
// probe for the proc-address capability extensions (spec.md §4.1).
const eglExtensions = 0x3055

func init() {
	thePlatform = &unixPlatform{}
}

// unixPlatform resolves symbols against EGL and GLX, the two GL-family
// providers available on Linux/Unix-like systems. Both libraries are
// opened with RTLD_GLOBAL so their own dependency's GetProcAddress
// functions can themselves be resolved directly by name.
type unixPlatform struct {
	mu sync.Mutex

	eglHandle unsafe.Pointer
	glxHandle unsafe.Pointer // libGL.so.1 also carries the GLX entry points

	eglGetProcAddress     unsafe.Pointer
	eglGetCurrentContext  unsafe.Pointer
	eglGetCurrentDisplay  unsafe.Pointer
	eglQueryString        unsafe.Pointer
	glxGetProcAddress     unsafe.Pointer
	glxGetCurrentContext  unsafe.Pointer
	glxGetProcAddressARB  unsafe.Pointer

	eglCoreFallbackChecked bool
	eglCoreFallbackAllowed bool
}

var unixLibNames = struct {
	egl []string
	glx []string
}{
	egl: []string{"libEGL.so.1", "libEGL.so"},
	glx: []string{"libGL.so.1", "libGL.so"},
}

func dlopenAny(names []string) unsafe.Pointer {
	for _, name := range names {
		cname := C.CString(name)
		h := C.x_dlopen(cname)
		C.free(unsafe.Pointer(cname))
		if h != nil {
			return h
		}
	}
	return nil
}

func dlsymNamed(handle unsafe.Pointer, name string) unsafe.Pointer {
	if handle == nil {
		return nil
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.x_dlsym(handle, cname)
}

func (p *unixPlatform) openNativeLibraries(opts Options) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.eglHandle == nil {
		p.eglHandle = dlopenAny(unixLibNames.egl)
		if p.eglHandle != nil {
			p.eglGetProcAddress = dlsymNamed(p.eglHandle, "eglGetProcAddress")
			p.eglGetCurrentContext = dlsymNamed(p.eglHandle, "eglGetCurrentContext")
			p.eglGetCurrentDisplay = dlsymNamed(p.eglHandle, "eglGetCurrentDisplay")
			p.eglQueryString = dlsymNamed(p.eglHandle, "eglQueryString")
		}
	}
	if p.glxHandle == nil {
		p.glxHandle = dlopenAny(unixLibNames.glx)
		if p.glxHandle != nil {
			p.glxGetProcAddress = dlsymNamed(p.glxHandle, "glXGetProcAddress")
			p.glxGetProcAddressARB = dlsymNamed(p.glxHandle, "glXGetProcAddressARB")
			p.glxGetCurrentContext = dlsymNamed(p.glxHandle, "glXGetCurrentContext")
		}
	}
	if p.eglHandle == nil && p.glxHandle == nil {
		return fmt.Errorf("neither libEGL nor libGL/GLX could be opened")
	}
	return nil
}

func (p *unixPlatform) probeCurrentContext() contextProbe {
	p.mu.Lock()
	defer p.mu.Unlock()

	var probe contextProbe
	probe.eglAvailable = p.eglGetProcAddress != nil
	if p.eglGetCurrentContext != nil {
		cur := C.x_call_get_current_context(C.x_get_current_context_fn(p.eglGetCurrentContext))
		probe.eglCurrent = cur != nil
	}
	probe.glxAvailable = p.glxGetProcAddress != nil || p.glxGetProcAddressARB != nil
	if p.glxGetCurrentContext != nil {
		cur := C.x_call_get_current_context(C.x_get_current_context_fn(p.glxGetCurrentContext))
		probe.glxCurrent = cur != nil
	}
	return probe
}

// eglSupportsCoreProcAddress probes the current display's extension
// string for EGL_KHR_get_all_proc_addresses or
// EGL_KHR_client_get_all_proc_addresses (spec.md §4.1): drivers
// advertising either guarantee eglGetProcAddress also resolves
// non-vendor-suffixed core GL names, not just extension ones. The result
// is cached per-process since the extension string cannot change once a
// display is initialized.
func (p *unixPlatform) eglSupportsCoreProcAddress() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.eglCoreFallbackChecked {
		return p.eglCoreFallbackAllowed
	}
	p.eglCoreFallbackChecked = true

	if p.eglGetCurrentDisplay == nil || p.eglQueryString == nil {
		return false
	}
	dpy := C.x_call_get_current_display(C.x_get_current_display_fn(p.eglGetCurrentDisplay))
	if dpy == nil {
		return false
	}
	cstr := C.x_call_query_string(C.x_query_string_fn(p.eglQueryString), dpy, C.int(eglExtensions))
	if cstr == nil {
		return false
	}
	exts := C.GoString(cstr)
	p.eglCoreFallbackAllowed = strings.Contains(exts, "EGL_KHR_get_all_proc_addresses") ||
		strings.Contains(exts, "EGL_KHR_client_get_all_proc_addresses")
	return p.eglCoreFallbackAllowed
}

func (p *unixPlatform) providerGetProcAddress(backend Backend, name string, opts Options) (uintptr, bool) {
	extStyle := isExtensionStyleName(name)
	switch backend {
	case BackendEGL:
		if !extStyle && !opts.EGLAllowCoreGetProcAddressFallback && !p.eglSupportsCoreProcAddress() {
			return 0, false
		}
		return p.callGetProcAddress(p.eglGetProcAddress, name)
	case BackendGLX:
		if !extStyle && !opts.GLXAllowCoreGetProcAddressFallback {
			return 0, false
		}
		fn := p.glxGetProcAddress
		if fn == nil {
			fn = p.glxGetProcAddressARB
		}
		return p.callGetProcAddress(fn, name)
	default:
		return 0, false
	}
}

func (p *unixPlatform) providerFallbackGetProcAddress(name string) (uintptr, bool) {
	p.mu.Lock()
	fn := p.eglGetProcAddress
	if fn == nil {
		fn = p.glxGetProcAddress
	}
	if fn == nil {
		fn = p.glxGetProcAddressARB
	}
	p.mu.Unlock()
	return p.callGetProcAddress(fn, name)
}

func (p *unixPlatform) callGetProcAddress(fn unsafe.Pointer, name string) (uintptr, bool) {
	if fn == nil {
		return 0, false
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	addr := C.x_call_get_proc_address(C.x_get_proc_address_fn(fn), cname)
	if addr == nil {
		return 0, false
	}
	return uintptr(addr), true
}

func (p *unixPlatform) globalSymbol(name string) (uintptr, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	addr := C.x_rtld_default_sym(cname)
	if addr == nil {
		return 0, false
	}
	return uintptr(addr), true
}

func (p *unixPlatform) libExportSymbol(name string) (uintptr, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if addr := dlsymNamed(p.eglHandle, name); addr != nil {
		return uintptr(addr), true
	}
	if addr := dlsymNamed(p.glxHandle, name); addr != nil {
		return uintptr(addr), true
	}
	return 0, false
}
