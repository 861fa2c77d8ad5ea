package logger

import "codeberg.org/mutker/envsensed/internal/errors"

// Logger defines the interface for logging operations. Components take a
// Logger so tests can capture or discard output.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
}
