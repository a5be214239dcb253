package glresolve

import "testing"

func TestIsExtensionStyleName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"glDrawBuffersARB", true},
		{"glBlitFramebufferEXT", true},
		{"glGetStringiKHR", true},
		{"glFramebufferTextureOES", true},
		{"glGetQueryObjectui64vNVX", true},
		{"glTexStorage3DMultisample", false},
		{"glClear", false},
		{"glMaxShaderCompilerThreads", false},
	}
	for _, tt := range tests {
		if got := isExtensionStyleName(tt.name); got != tt.want {
			t.Errorf("isExtensionStyleName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsWGLSentinel(t *testing.T) {
	sentinels := []uintptr{0, 1, 2, 3, ^uintptr(0), ^uintptr(0) - 1, ^uintptr(0) - 2}
	for _, s := range sentinels {
		if !isWGLSentinel(s) {
			t.Errorf("isWGLSentinel(%d) = false, want true", s)
		}
	}
	if isWGLSentinel(0x1000) {
		t.Error("isWGLSentinel(0x1000) = true, want false for a plausible real address")
	}
}
