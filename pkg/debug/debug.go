// Package debug gates per-frame trace logging.
//
// Traces are emitted through the structured logger at debug level, tagged
// with trace=true, so they only appear when tracing is on and the log level
// allows debug output.
package debug

import (
	"sync/atomic"

	"github.com/teslashibe/go-facerange/internal/log"
)

var tracing atomic.Bool

// SetTracing turns per-frame traces (match scores, refresh checks) on or off.
func SetTracing(on bool) {
	tracing.Store(on)
}

// Tracing reports whether per-frame traces are on.
func Tracing() bool {
	return tracing.Load()
}

// Trace logs msg with key/value args when tracing is on.
func Trace(msg string, args ...any) {
	if !tracing.Load() {
		return
	}
	log.Debug(msg, append(args, "trace", true)...)
}
