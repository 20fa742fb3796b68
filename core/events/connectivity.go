package events

import "time"

// ConnectivityChanged is published when the robot becomes unreachable or
// answers again after an outage. Err carries the last probe failure and is
// empty when Reachable is true.
type ConnectivityChanged struct {
	RobotID   string    `json:"robot_id"`
	Reachable bool      `json:"reachable"`
	Err       string    `json:"err,omitempty"`
	Time      time.Time `json:"time"`
}
