package glresolve

import (
	"fmt"
	"sync"
)

// UserResolver is an optional, first-consulted name resolver supplied by
// the host application. Returning (0, false) lets the chain continue.
type UserResolver func(name string, userData interface{}) (addr uintptr, ok bool)

// Options configures resolver policy. DefaultOptions returns the engine's
// conservative defaults (spec.md §6 build-time switches); the zero value
// has every switch off.
type Options struct {
	// StrictContextGate fails Resolve() when the detected backend is no
	// longer current on the calling thread, instead of logging and
	// continuing. Default on.
	StrictContextGate bool

	// MacOSPreferCGL prefers CGL over EGL when both appear current and
	// EGL has no usable GetProcAddress. Default on.
	MacOSPreferCGL bool

	// AllowUnsafeWindowsDLLSearch permits falling back to LoadLibrary(name)
	// (legacy search path, including cwd) when the restricted-search flags
	// are unavailable. Default off.
	AllowUnsafeWindowsDLLSearch bool

	// GLXAllowCoreGetProcAddressFallback enables resolving non-extension
	// GL names via glXGetProcAddress* as a last resort. Default off,
	// matching libprojectM's own default.
	GLXAllowCoreGetProcAddressFallback bool

	// EGLAllowCoreGetProcAddressFallback forces resolving non-extension GL
	// names via eglGetProcAddress even when the driver advertises neither
	// EGL_KHR_get_all_proc_addresses nor
	// EGL_KHR_client_get_all_proc_addresses. Default off: by default the
	// resolver instead probes eglQueryString(EGL_EXTENSIONS) for those two
	// extensions at first use and only allows the fallback when one is
	// present, so this switch only matters for drivers that support the
	// capability without advertising it.
	EGLAllowCoreGetProcAddressFallback bool

	// Diagnostics enables verbose logging of unusual ABI situations
	// encountered while loading.
	Diagnostics bool
}

// DefaultOptions returns the engine's conservative defaults.
func DefaultOptions() Options {
	return Options{
		StrictContextGate: true,
		MacOSPreferCGL:    true,
	}
}

// state is the immutable snapshot published after a successful Initialize.
// Resolve() reads it without holding the resolver's mutex so driver calls
// and the user callback never run under the lock.
type state struct {
	backend      Backend
	opts         Options
	userResolver UserResolver
	userData     interface{}
}

// Resolver is the process-singleton GL procedure resolver described in
// spec.md §4.1. Libraries it opens are intentionally never closed; release
// is the OS's responsibility at process exit.
type Resolver struct {
	mu          sync.Mutex
	cond        *sync.Cond
	initialized bool
	initing     bool
	st          *state // published snapshot; read via atomic-free happens-before of mu
}

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns the process-wide resolver instance.
func Default() *Resolver {
	defaultOnce.Do(func() {
		defaultResolver = &Resolver{}
		defaultResolver.cond = sync.NewCond(&defaultResolver.mu)
	})
	return defaultResolver
}

// Initialize probes the calling thread for a current GL-family context,
// detects the backend and opens the native libraries needed to resolve
// symbols. It must be called after a context has been made current.
//
// Initialize is idempotent and safe to call from multiple goroutines
// concurrently: the first caller performs the work while the others block
// until it publishes a result. Once one attempt succeeds, every caller
// observes that success; if an attempt fails, the next waiting caller makes
// its own attempt.
// It reports false (and leaves the resolver's prior state untouched) if no
// current context can be detected.
func (r *Resolver) Initialize(opts Options, resolver UserResolver, userData interface{}) bool {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return true
	}
	for r.initing {
		r.cond.Wait()
	}
	if r.initialized {
		r.mu.Unlock()
		return true
	}
	r.initing = true
	r.mu.Unlock()

	ok := r.doInitialize(opts, resolver, userData)

	r.mu.Lock()
	r.initing = false
	if ok {
		r.initialized = true
	}
	r.cond.Broadcast()
	r.mu.Unlock()
	return ok
}

func (r *Resolver) doInitialize(opts Options, resolver UserResolver, userData interface{}) bool {
	if err := thePlatform.openNativeLibraries(opts); err != nil {
		if opts.Diagnostics {
			logf("glresolve: openNativeLibraries: %v", err)
		}
	}
	probe := thePlatform.probeCurrentContext()
	if !probe.hasAnyCurrent() {
		return false
	}
	backend := detectBackend(probe, opts)
	if backend == BackendNone {
		return false
	}

	r.mu.Lock()
	r.st = &state{
		backend:      backend,
		opts:         opts,
		userResolver: resolver,
		userData:     userData,
	}
	r.mu.Unlock()
	return true
}

// IsInitialized reports whether Initialize has completed successfully.
func (r *Resolver) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// CurrentBackend returns the backend detected during the last successful
// Initialize call, or BackendNone if not initialized.
func (r *Resolver) CurrentBackend() Backend {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.st == nil {
		return BackendNone
	}
	return r.st.backend
}

// HasUserResolver reports whether a user resolver callback is configured.
func (r *Resolver) HasUserResolver() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st != nil && r.st.userResolver != nil
}

// ResolverError describes why Resolve failed to produce a pointer.
type ResolverError struct {
	Name   string
	Reason string
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("glresolve: could not resolve %q: %s", e.Name, e.Reason)
}

// Resolve looks up the function pointer for name by walking the priority
// chain described in spec.md §4.1:
//
//  1. user-supplied resolver, if configured
//  2. the backend provider entry point, gated by policy
//  3. the process-wide global symbol scope
//  4. direct exports of the libraries the resolver itself opened
//  5. an opt-in last-resort provider fallback for non-extension names
//
// Resolve requires a prior successful Initialize. If the detected backend
// is no longer current, the strict gate (default on) fails the call;
// otherwise the mismatch is logged and resolution continues on a
// best-effort basis.
func (r *Resolver) Resolve(name string) (uintptr, error) {
	r.mu.Lock()
	st := r.st
	r.mu.Unlock()
	if st == nil {
		return 0, &ResolverError{Name: name, Reason: "resolver not initialized"}
	}

	probe := thePlatform.probeCurrentContext()
	if !r.verifyBackendCurrent(st.backend, probe) {
		reason := fmt.Sprintf("backend %s is not current on the calling thread", st.backend)
		if st.opts.StrictContextGate {
			return 0, &ResolverError{Name: name, Reason: reason}
		}
		logf("glresolve: %s (continuing, strict gate disabled)", reason)
	}

	if st.userResolver != nil {
		if addr, ok := st.userResolver(name, st.userData); ok && addr != 0 {
			return addr, nil
		}
	}

	if addr, ok := thePlatform.providerGetProcAddress(st.backend, name, st.opts); ok && addr != 0 {
		return addr, nil
	}

	if st.backend == BackendWebGL {
		// Emscripten has no global symbol scope or direct exports to fall
		// back to; the provider step above is authoritative.
		return 0, &ResolverError{Name: name, Reason: "not found via WebGL provider"}
	}

	if addr, ok := thePlatform.globalSymbol(name); ok && addr != 0 {
		return addr, nil
	}
	if addr, ok := thePlatform.libExportSymbol(name); ok && addr != 0 {
		return addr, nil
	}

	allowFallback := (st.backend == BackendEGL && st.opts.EGLAllowCoreGetProcAddressFallback) ||
		(st.backend == BackendGLX && st.opts.GLXAllowCoreGetProcAddressFallback)
	if allowFallback {
		if addr, ok := thePlatform.providerFallbackGetProcAddress(name); ok && addr != 0 {
			return addr, nil
		}
	}

	return 0, &ResolverError{Name: name, Reason: "not found in any lookup source"}
}

func (r *Resolver) verifyBackendCurrent(backend Backend, probe contextProbe) bool {
	switch backend {
	case BackendEGL:
		return probe.eglCurrent
	case BackendGLX:
		return probe.glxCurrent
	case BackendWGL:
		return probe.wglCurrent
	case BackendCGL:
		return probe.cglCurrent
	case BackendWebGL:
		return probe.webglCurrent
	default:
		return false
	}
}
