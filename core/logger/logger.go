// Package logger defines the logging facade every romygo component
// writes to. Concrete implementations live in infra/logger.
package logger

// Logger is the leveled logging interface shared by the robot client,
// the discovery scanner, the watcher and the servers. The formatted
// methods follow fmt verbs.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// Debugw logs a message with structured fields, typically the
	// robot ID and the command or endpoint involved.
	Debugw(msg string, fields map[string]any)
}
