package logger

import corelogger "github.com/xeniter/romygo/core/logger"

// Logger is re-exported so callers only import one logger path.
type Logger = corelogger.Logger

// NopLogger discards all output. Tests use it to keep runs quiet.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component. Output format follows the
// APP_ENV variable and the minimum level follows ROMY_LOG_LEVEL.
func New(component string) Logger {
	return NewZerologLogger(component)
}
