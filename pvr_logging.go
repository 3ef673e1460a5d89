// pvr_logging.go - recoverable-condition logging

package main

import "log"

// Logger is the narrow logging contract the TA/CORE pipeline depends on,
// so tests can swap in a silent or recording implementation.
type Logger interface {
	Logf(format string, args ...any)
}

// stdLogger logs recoverable/malformed-input conditions via the standard
// logger, matching the log-and-ignore idiom used for recoverable register
// and command errors elsewhere in this codebase.
type stdLogger struct{}

func (stdLogger) Logf(format string, args ...any) { log.Printf(format, args...) }

// discardLogger drops all messages; used in benchmarks and tests that
// deliberately feed malformed input and don't want test output noise.
type discardLogger struct{}

func (discardLogger) Logf(string, ...any) {}
