package events

import (
	"time"

	"github.com/xeniter/romygo/core/model"
)

// StatusUpdated is published after every successful status refresh.
type StatusUpdated struct {
	RobotID string       `json:"robot_id"`
	Status  model.Status `json:"status"`
}

// StateChanged is published when the operating mode changes between refreshes.
type StateChanged struct {
	RobotID string     `json:"robot_id"`
	From    model.Mode `json:"from"`
	To      model.Mode `json:"to"`
	Time    time.Time  `json:"time"`
}

// BatteryChanged is published when the battery level changes between refreshes.
type BatteryChanged struct {
	RobotID string `json:"robot_id"`
	From    int    `json:"from"`
	To      int    `json:"to"`
}

// DeviceError is published when the robot starts reporting a fault code.
type DeviceError struct {
	RobotID string     `json:"robot_id"`
	Code    int        `json:"code"`
	Mode    model.Mode `json:"mode"`
	Time    time.Time  `json:"time"`
}
