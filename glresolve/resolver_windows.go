//go:build windows

package glresolve

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

func init() {
	thePlatform = &windowsPlatform{}
}

// windowsPlatform resolves symbols against WGL, the only GL-family
// provider on Windows. opengl32.dll's own exports cover roughly GL 1.1;
// everything newer must come through wglGetProcAddress, which in turn
// returns one of several documented sentinel values for names it does not
// recognise (see isWGLSentinel).
type windowsPlatform struct {
	mu sync.Mutex

	opengl32 *windows.LazyDLL

	wglGetProcAddress    *windows.LazyProc
	wglGetCurrentContext *windows.LazyProc
}

func (p *windowsPlatform) openNativeLibraries(opts Options) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.opengl32 != nil {
		return nil
	}
	dll := windows.NewLazySystemDLL("opengl32.dll")
	if err := dll.Load(); err != nil {
		if !opts.AllowUnsafeWindowsDLLSearch {
			return fmt.Errorf("opengl32.dll: %w (unsafe search path disabled)", err)
		}
		dll = windows.NewLazyDLL("opengl32.dll")
		if err := dll.Load(); err != nil {
			return fmt.Errorf("opengl32.dll: %w", err)
		}
	}
	p.opengl32 = dll
	p.wglGetProcAddress = dll.NewProc("wglGetProcAddress")
	p.wglGetCurrentContext = dll.NewProc("wglGetCurrentContext")
	return nil
}

func (p *windowsPlatform) probeCurrentContext() contextProbe {
	p.mu.Lock()
	defer p.mu.Unlock()

	var probe contextProbe
	if p.wglGetProcAddress != nil {
		probe.wglAvailable = p.wglGetProcAddress.Find() == nil
	}
	if p.wglGetCurrentContext != nil && p.wglGetCurrentContext.Find() == nil {
		ctx, _, _ := p.wglGetCurrentContext.Call()
		probe.wglCurrent = ctx != 0
	}
	return probe
}

func (p *windowsPlatform) providerGetProcAddress(backend Backend, name string, opts Options) (uintptr, bool) {
	if backend != BackendWGL {
		return 0, false
	}
	return p.callWGLGetProcAddress(name)
}

func (p *windowsPlatform) providerFallbackGetProcAddress(name string) (uintptr, bool) {
	return p.callWGLGetProcAddress(name)
}

func (p *windowsPlatform) callWGLGetProcAddress(name string) (uintptr, bool) {
	p.mu.Lock()
	proc := p.wglGetProcAddress
	p.mu.Unlock()
	if proc == nil || proc.Find() != nil {
		return 0, false
	}
	cname, err := syscall.BytePtrFromString(name)
	if err != nil {
		return 0, false
	}
	addr, _, _ := proc.Call(uintptr(unsafe.Pointer(cname)))
	if addr == 0 || isWGLSentinel(addr) {
		return 0, false
	}
	return addr, true
}

// globalSymbol has no equivalent on Windows: there is no process-wide
// dynamic symbol scope, only per-module exports.
func (p *windowsPlatform) globalSymbol(name string) (uintptr, bool) {
	return 0, false
}

func (p *windowsPlatform) libExportSymbol(name string) (uintptr, bool) {
	p.mu.Lock()
	dll := p.opengl32
	p.mu.Unlock()
	if dll == nil {
		return 0, false
	}
	proc := dll.NewProc(name)
	if proc.Find() != nil {
		return 0, false
	}
	return proc.Addr(), true
}
