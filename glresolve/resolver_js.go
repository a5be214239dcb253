//go:build js && wasm

package glresolve

import "syscall/js"

func init() {
	thePlatform = &jsPlatform{}
}

// jsPlatform stands in for WebGL when compiled to js/wasm. There is no
// native GetProcAddress to speak of: the host's WebGLRenderingContext
// object is always "current" once one has been created, and entry points
// are resolved as method presence checks rather than pointers, so
// providerGetProcAddress reports availability rather than a real address.
type jsPlatform struct{}

func (p *jsPlatform) openNativeLibraries(opts Options) error {
	return nil
}

func (p *jsPlatform) probeCurrentContext() contextProbe {
	var probe contextProbe
	hasWebGL := !js.Global().Get("WebGLRenderingContext").IsUndefined()
	probe.webglAvailable = hasWebGL
	probe.webglCurrent = hasWebGL
	return probe
}

// providerGetProcAddress reports a non-zero sentinel address (1) whenever
// the method named by name is present on the global WebGL prototype, since
// callers only ever test the returned address for non-zero-ness before
// dispatching the call through the js.Value method table directly.
func (p *jsPlatform) providerGetProcAddress(backend Backend, name string, opts Options) (uintptr, bool) {
	if backend != BackendWebGL {
		return 0, false
	}
	proto := js.Global().Get("WebGLRenderingContext").Get("prototype")
	if proto.IsUndefined() {
		return 0, false
	}
	if proto.Get(name).IsUndefined() {
		return 0, false
	}
	return 1, true
}

func (p *jsPlatform) providerFallbackGetProcAddress(name string) (uintptr, bool) {
	return 0, false
}

func (p *jsPlatform) globalSymbol(name string) (uintptr, bool) {
	return 0, false
}

func (p *jsPlatform) libExportSymbol(name string) (uintptr, bool) {
	return 0, false
}
