package glresolve

// platformBackend is the seam between the OS-independent chain logic in
// resolver.go and the OS-specific dynamic-library/provider code. Exactly
// one build-tag-gated file in this package sets thePlatform at init time.
type platformBackend interface {
	// openNativeLibraries opens whatever dynamic libraries this platform
	// needs (EGL, GL, GLX, OpenGL32.dll, ...) and resolves their
	// GetProcAddress-style entry points and GetCurrentContext-style probes.
	// It is safe to call more than once; later calls are no-ops once the
	// libraries are open.
	openNativeLibraries(opts Options) error

	// probeCurrentContext reports, for each provider this platform knows
	// about, whether it was resolvable at all and whether it currently
	// reports a context as current on the calling OS thread.
	probeCurrentContext() contextProbe

	// providerGetProcAddress resolves name through the named backend's own
	// GetProcAddress-style entry point, applying that backend's gating
	// policy (e.g. WGL sentinel filtering, EGL/GLX extension-name gating).
	providerGetProcAddress(backend Backend, name string, opts Options) (addr uintptr, ok bool)

	// globalSymbol resolves name against the process-wide dynamic symbol
	// scope (dlsym(RTLD_DEFAULT, ...) on Unix-likes; unsupported on
	// Windows and WebGL, where it always reports not-found).
	globalSymbol(name string) (addr uintptr, ok bool)

	// libExportSymbol resolves name as a direct, named export of one of
	// the libraries openNativeLibraries opened.
	libExportSymbol(name string) (addr uintptr, ok bool)

	// providerFallbackGetProcAddress is the opt-in, non-gated last resort:
	// ask the backend provider for name even though it does not look like
	// an extension. Only consulted when policy allows it.
	providerFallbackGetProcAddress(name string) (addr uintptr, ok bool)
}

// thePlatform is set exactly once, by whichever platform file's build tags
// match the target.
var thePlatform platformBackend
