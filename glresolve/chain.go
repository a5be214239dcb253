package glresolve

import "strings"

// vendorSuffixes lists the vendor/standards tags recognised when deciding
// whether a name is "extension-style" for the purposes of gating
// EGL/GLX provider lookups (spec.md §4.1).
var vendorSuffixes = []string{
	"ARB", "EXT", "KHR", "OES", "NV", "NVX", "AMD", "APPLE", "ANGLE", "INTEL",
	"MESA", "QCOM", "IMG", "ARM", "ATI", "IBM", "SUN", "SGI", "SGIX", "OML",
	"GREMEDY", "HP", "3DFX", "S3", "PVR", "VIV", "OVR", "NOK", "MSFT", "SEC",
	"DMP", "FJ",
}

// isExtensionStyleName reports whether name carries one of the recognised
// vendor/standards suffixes, e.g. "glDrawBuffersARB" or "glBlitFramebufferEXT".
func isExtensionStyleName(name string) bool {
	for _, suf := range vendorSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}

// wglSentinels are the pointer values wglGetProcAddress is documented to
// return for unsupported names. They are not valid function pointers and
// must never be handed back to the caller.
var wglSentinels = map[uintptr]struct{}{
	0: {}, 1: {}, 2: {}, 3: {},
	^uintptr(0):     {}, // UINTPTR_MAX
	^uintptr(0) - 1: {}, // UINTPTR_MAX - 1
	^uintptr(0) - 2: {}, // UINTPTR_MAX - 2
}

func isWGLSentinel(addr uintptr) bool {
	_, ok := wglSentinels[addr]
	return ok
}
