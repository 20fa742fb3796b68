package history

import (
	"context"
	"time"

	"github.com/xeniter/romygo/core/model"
)

// Event types stored in LogRecord.Event.
const (
	EventStateChanged   = "state_changed"
	EventBatteryChanged = "battery_changed"
	EventDeviceError    = "device_error"
	EventConnectivity   = "connectivity"
	EventCommand        = "command"
)

// LogRecord captures one robot event for the run history.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	RobotID   string    `json:"robot_id"`
	Event     string    `json:"event"`
	// From and To carry the previous and new value for transition events:
	// the operating mode for state changes, the level for battery changes.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	// BatteryLevel is the battery percentage at event time.
	BatteryLevel int `json:"battery_level"`
	// ErrorCode is the robot fault code for device error records.
	ErrorCode int `json:"error_code,omitempty"`
	// Reachable reports the connectivity state for connectivity records.
	Reachable bool `json:"reachable,omitempty"`
	// Command, Parameter and OK describe issued control commands.
	Command   string `json:"command,omitempty"`
	Parameter int    `json:"parameter,omitempty"`
	OK        bool   `json:"ok,omitempty"`
	// Detail carries a supplement such as an error message.
	Detail string `json:"detail,omitempty"`
	// Statistics are the cumulative lifetime counters at event time.
	Statistics model.Statistics `json:"statistics"`
}

// LogQuery defines filters for retrieving records. A positive Limit keeps
// only the most recent matching records.
type LogQuery struct {
	Start   time.Time
	End     time.Time
	RobotID string
	Event   string
	Limit   int
}

// Matches reports whether the record passes all filters of the query.
func (q LogQuery) Matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.RobotID != "" && r.RobotID != q.RobotID {
		return false
	}
	if q.Event != "" && r.Event != q.Event {
		return false
	}
	return true
}

// Tail applies the query limit to a timestamp-ordered result set.
func (q LogQuery) Tail(res []LogRecord) []LogRecord {
	if q.Limit > 0 && len(res) > q.Limit {
		return res[len(res)-q.Limit:]
	}
	return res
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NopStore discards records. It is used when history is disabled.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
