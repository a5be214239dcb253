package glresolve

import "log"

// logf routes resolver diagnostics through the standard logger, matching
// the rest of the engine's ambient logging rather than introducing a
// dependency of its own for a handful of low-frequency warnings.
func logf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
