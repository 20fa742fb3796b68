// Package monitoring reports process errors to an external service. The
// app installs a sentry backed Monitor at startup; everything else reports
// through the package level helpers and stays oblivious to the backend.
package monitoring

import "time"

// Monitor is the error reporting backend.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NopMonitor drops all reports. It is installed until Init is called and
// whenever monitoring is disabled.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init installs the monitor backend. It is called once during startup,
// before any goroutine that reports.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException reports the error with the given tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil {
		current.CaptureException(err, tags)
	}
}

// Flush blocks until buffered reports are delivered or the timeout expires.
// Called on shutdown.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}

// Tags builds the standard tag set identifying the reporting module and the
// robot involved. Callers add report specific tags on top.
func Tags(module, robotID string) map[string]string {
	return map[string]string{"module": module, "robot_id": robotID}
}
