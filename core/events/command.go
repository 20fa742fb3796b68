package events

import "time"

// CommandIssued is published for every control command sent to the robot.
// Parameter is the cleaning parameter set for commands that carry one, -1
// otherwise.
type CommandIssued struct {
	RobotID   string        `json:"robot_id"`
	Command   string        `json:"command"`
	Parameter int           `json:"parameter"`
	OK        bool          `json:"ok"`
	Err       string        `json:"err,omitempty"`
	Latency   time.Duration `json:"latency"`
	Time      time.Time     `json:"time"`
}
