// Package monitoring carries the engine's diagnostic logging sink. Log
// output is never behaviorally significant: every caller treats Logf as
// fire-and-forget.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced by SetLogger; tests and embedding simulations can redirect
// or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// debugEnabled gates Debugf. Toggled from the main goroutine before the
// simulation starts, like the rest of the engine's single-writer state.
var debugEnabled bool

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebug enables or disables Debugf output.
func SetDebug(enabled bool) { debugEnabled = enabled }

// Debugf logs through Logf only when debug output is enabled. Use it for
// per-evaluation geometry chatter that would swamp a normal run.
func Debugf(format string, v ...interface{}) {
	if debugEnabled {
		Logf(format, v...)
	}
}
