package glresolve

import (
	"strings"
	"sync"
	"testing"
)

// fakePlatform lets the chain logic in Resolve be exercised without a real
// GL context or OS-specific dynamic libraries.
type fakePlatform struct {
	probe        contextProbe
	providerFn   map[string]uintptr
	globalFn     map[string]uintptr
	libExportFn  map[string]uintptr
	fallbackFn   map[string]uintptr
	openErr      error
}

func (f *fakePlatform) openNativeLibraries(opts Options) error { return f.openErr }
func (f *fakePlatform) probeCurrentContext() contextProbe      { return f.probe }

func (f *fakePlatform) providerGetProcAddress(backend Backend, name string, opts Options) (uintptr, bool) {
	addr, ok := f.providerFn[name]
	return addr, ok
}

func (f *fakePlatform) globalSymbol(name string) (uintptr, bool) {
	addr, ok := f.globalFn[name]
	return addr, ok
}

func (f *fakePlatform) libExportSymbol(name string) (uintptr, bool) {
	addr, ok := f.libExportFn[name]
	return addr, ok
}

func (f *fakePlatform) providerFallbackGetProcAddress(name string) (uintptr, bool) {
	addr, ok := f.fallbackFn[name]
	return addr, ok
}

func withFakePlatform(t *testing.T, p *fakePlatform) {
	t.Helper()
	prev := thePlatform
	thePlatform = p
	t.Cleanup(func() { thePlatform = prev })
}

func newTestResolver() *Resolver {
	r := &Resolver{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

func TestResolverInitializeFailsWithoutCurrentContext(t *testing.T) {
	withFakePlatform(t, &fakePlatform{probe: contextProbe{}})
	r := newTestResolver()
	if r.Initialize(DefaultOptions(), nil, nil) {
		t.Fatal("Initialize should fail when no provider reports a current context")
	}
	if r.IsInitialized() {
		t.Fatal("resolver should not be marked initialized")
	}
}

func TestResolverInitializeIsIdempotent(t *testing.T) {
	withFakePlatform(t, &fakePlatform{probe: contextProbe{eglCurrent: true}})
	r := newTestResolver()
	if !r.Initialize(DefaultOptions(), nil, nil) {
		t.Fatal("Initialize should succeed with a current EGL context")
	}
	if !r.Initialize(DefaultOptions(), nil, nil) {
		t.Fatal("second Initialize call should also report success")
	}
	if r.CurrentBackend() != BackendEGL {
		t.Fatalf("CurrentBackend() = %v, want EGL", r.CurrentBackend())
	}
}

func TestResolveUserResolverTakesPriority(t *testing.T) {
	withFakePlatform(t, &fakePlatform{
		probe:      contextProbe{eglCurrent: true},
		providerFn: map[string]uintptr{"glClear": 0xDEAD},
	})
	r := newTestResolver()
	called := false
	user := func(name string, userData interface{}) (uintptr, bool) {
		called = true
		return 0x1234, true
	}
	if !r.Initialize(DefaultOptions(), user, nil) {
		t.Fatal("Initialize failed")
	}
	addr, err := r.Resolve("glClear")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !called {
		t.Fatal("user resolver was not consulted")
	}
	if addr != 0x1234 {
		t.Fatalf("Resolve() = %#x, want the user-supplied address", addr)
	}
}

func TestResolveFallsThroughChain(t *testing.T) {
	withFakePlatform(t, &fakePlatform{
		probe:       contextProbe{glxCurrent: true},
		globalFn:    map[string]uintptr{"glClear": 0xAAAA},
		libExportFn: map[string]uintptr{"glXSwapBuffers": 0xBBBB},
	})
	r := newTestResolver()
	if !r.Initialize(DefaultOptions(), nil, nil) {
		t.Fatal("Initialize failed")
	}
	if addr, err := r.Resolve("glClear"); err != nil || addr != 0xAAAA {
		t.Fatalf("Resolve(glClear) = %#x, %v; want 0xAAAA, nil", addr, err)
	}
	if addr, err := r.Resolve("glXSwapBuffers"); err != nil || addr != 0xBBBB {
		t.Fatalf("Resolve(glXSwapBuffers) = %#x, %v; want 0xBBBB, nil", addr, err)
	}
}

func TestResolveReturnsErrorWhenExhausted(t *testing.T) {
	withFakePlatform(t, &fakePlatform{probe: contextProbe{eglCurrent: true}})
	r := newTestResolver()
	if !r.Initialize(DefaultOptions(), nil, nil) {
		t.Fatal("Initialize failed")
	}
	_, err := r.Resolve("glSomeUnknownFunction")
	if err == nil {
		t.Fatal("expected an error when no source resolves the name")
	}
	if !strings.Contains(err.Error(), "glSomeUnknownFunction") {
		t.Errorf("error %q should mention the requested name", err)
	}
}

func TestResolveStrictContextGateFailsOnStaleBackend(t *testing.T) {
	fp := &fakePlatform{probe: contextProbe{eglCurrent: true}}
	withFakePlatform(t, fp)
	r := newTestResolver()
	opts := DefaultOptions()
	opts.StrictContextGate = true
	if !r.Initialize(opts, nil, nil) {
		t.Fatal("Initialize failed")
	}
	fp.probe = contextProbe{} // context no longer current
	if _, err := r.Resolve("glClear"); err == nil {
		t.Fatal("expected Resolve to fail once the backend is no longer current")
	}
}

func TestResolveNonStrictContextGateContinues(t *testing.T) {
	fp := &fakePlatform{
		probe:    contextProbe{eglCurrent: true},
		globalFn: map[string]uintptr{"glClear": 0xCCCC},
	}
	withFakePlatform(t, fp)
	r := newTestResolver()
	opts := DefaultOptions()
	opts.StrictContextGate = false
	if !r.Initialize(opts, nil, nil) {
		t.Fatal("Initialize failed")
	}
	fp.probe = contextProbe{}
	addr, err := r.Resolve("glClear")
	if err != nil {
		t.Fatalf("Resolve returned error despite disabled strict gate: %v", err)
	}
	if addr != 0xCCCC {
		t.Fatalf("Resolve() = %#x, want 0xCCCC", addr)
	}
}
