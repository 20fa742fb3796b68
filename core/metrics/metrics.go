package metrics

import (
	"time"

	"github.com/xeniter/romygo/core/model"
)

// StatusEvent is a robot snapshot to be recorded after a refresh cycle.
type StatusEvent struct {
	Info     model.RobotInfo
	Status   model.Status
	RSSIMean float64 // smoothed link quality over the recent sample window
	Time     time.Time
}

// Sink records robot snapshots for observability purposes.
type Sink interface {
	RecordStatus(ev StatusEvent) error
}

// CommandEvent represents a control command sent to the robot.
type CommandEvent struct {
	RobotID   string
	Command   string
	Parameter int
	OK        bool
	Error     string
	Latency   time.Duration
	Time      time.Time
}

// CommandRecorder records commands issued to robots.
type CommandRecorder interface {
	RecordCommand(ev CommandEvent) error
}

// ConnectivityEvent captures a reachability transition.
type ConnectivityEvent struct {
	RobotID   string
	Reachable bool
	Time      time.Time
}

// ConnectivityRecorder records reachability transitions.
type ConnectivityRecorder interface {
	RecordConnectivity(ev ConnectivityEvent) error
}

// NopSink implements Sink and all optional recorders with no-op methods.
type NopSink struct{}

func (NopSink) RecordStatus(StatusEvent) error             { return nil }
func (NopSink) RecordCommand(CommandEvent) error           { return nil }
func (NopSink) RecordConnectivity(ConnectivityEvent) error { return nil }
