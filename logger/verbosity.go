package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityDefault = 0 // No flags: progress, outcomes and errors
	VerbosityDebug   = 1 // -v: + git command lines, HTTP calls, config details
	VerbosityTrace   = 2 // -vv: + request/response bodies
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none) -> InfoLevel
//	1+ (-v)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity >= VerbosityDebug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// ShouldLogTrace returns true for verbosity >= 2 (-vv)
// Use this for dumping request and response bodies
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity <= VerbosityDefault:
		return "Default"
	case verbosity == VerbosityDebug:
		return "Debug (-v)"
	default:
		return "Trace (-vv)"
	}
}
