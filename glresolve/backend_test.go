package glresolve

import "testing"

func TestDetectBackendPriority(t *testing.T) {
	tests := []struct {
		name  string
		probe contextProbe
		opts  Options
		want  Backend
	}{
		{
			name:  "nothing current",
			probe: contextProbe{},
			opts:  DefaultOptions(),
			want:  BackendNone,
		},
		{
			name:  "egl wins over glx",
			probe: contextProbe{eglCurrent: true, glxCurrent: true},
			opts:  DefaultOptions(),
			want:  BackendEGL,
		},
		{
			name:  "wgl wins over cgl",
			probe: contextProbe{wglCurrent: true, cglCurrent: true},
			opts:  DefaultOptions(),
			want:  BackendWGL,
		},
		{
			name:  "cgl wins over glx",
			probe: contextProbe{cglCurrent: true, glxCurrent: true},
			opts:  DefaultOptions(),
			want:  BackendCGL,
		},
		{
			name:  "webgl used only when nothing else current",
			probe: contextProbe{webglCurrent: true},
			opts:  DefaultOptions(),
			want:  BackendWebGL,
		},
		{
			name:  "macos prefers cgl over egl when egl has no provider",
			probe: contextProbe{eglCurrent: true, eglAvailable: false, cglCurrent: true},
			opts:  Options{MacOSPreferCGL: true},
			want:  BackendCGL,
		},
		{
			name:  "macos cgl preference disabled falls back to egl",
			probe: contextProbe{eglCurrent: true, eglAvailable: false, cglCurrent: true},
			opts:  Options{MacOSPreferCGL: false},
			want:  BackendEGL,
		},
		{
			name:  "macos cgl preference does not apply when egl has a provider",
			probe: contextProbe{eglCurrent: true, eglAvailable: true, cglCurrent: true},
			opts:  Options{MacOSPreferCGL: true},
			want:  BackendEGL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectBackend(tt.probe, tt.opts); got != tt.want {
				t.Errorf("detectBackend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackendString(t *testing.T) {
	cases := map[Backend]string{
		BackendNone:   "None",
		BackendEGL:    "EGL",
		BackendGLX:    "GLX",
		BackendWGL:    "WGL",
		BackendCGL:    "CGL",
		BackendWebGL:  "WebGL",
		Backend(0xFF): "None",
	}
	for b, want := range cases {
		if got := b.String(); got != want {
			t.Errorf("Backend(%d).String() = %q, want %q", b, got, want)
		}
	}
}

func TestHasAnyCurrent(t *testing.T) {
	if (contextProbe{}).hasAnyCurrent() {
		t.Error("zero-value probe should report no current context")
	}
	if !(contextProbe{glxCurrent: true}).hasAnyCurrent() {
		t.Error("glxCurrent should count as current")
	}
}
