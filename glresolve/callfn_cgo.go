//go:build !js

package glresolve

// #include <stdint.h>
//
// typedef void (*x_void_uint32_fn)(uint32_t);
// static void x_call_void_uint32(void *fn, uint32_t arg) {
//   ((x_void_uint32_fn)fn)(arg);
// }
import "C"
import "unsafe"

// callMaxShaderCompilerThreads invokes the resolved
// glMaxShaderCompilerThreads{,KHR,ARB} entry point, whose C signature is
// void(GLuint count), through a raw function pointer.
func callMaxShaderCompilerThreads(fnAddr uintptr, count uint32) {
	C.x_call_void_uint32(unsafe.Pointer(fnAddr), C.uint32_t(count))
}
