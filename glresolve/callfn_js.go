//go:build js

package glresolve

// callMaxShaderCompilerThreads is unreachable on js/wasm: Probe short
// circuits to unavailable for BackendWebGL before resolving a function
// pointer.
func callMaxShaderCompilerThreads(fnAddr uintptr, count uint32) {}
