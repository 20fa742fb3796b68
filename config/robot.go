package config

import (
	"fmt"
	"time"
)

// PasswordLength is the fixed length of the interface password printed on the
// sticker under the robot.
const PasswordLength = 8

// RobotConfig identifies the robot the daemon connects to.
type RobotConfig struct {
	// Host is the IP address or hostname of the robot.
	Host string `json:"host"`
	// Password unlocks the HTTP interface. Leave empty when the interface is
	// already unlocked.
	Password string `json:"password"`
	// Ports lists candidate interface ports, probed in order.
	Ports []int `json:"ports"`
	// TimeoutSeconds bounds each HTTP request to the robot.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies the documented interface ports and request timeout.
func (c *RobotConfig) SetDefaults() {
	if len(c.Ports) == 0 {
		c.Ports = []int{8080, 10009, 80}
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 3
	}
}

// Validate checks the password shape and port values. Host may stay empty for
// commands that discover robots instead of connecting to a configured one.
func (c RobotConfig) Validate() error {
	if c.Password != "" && len(c.Password) != PasswordLength {
		return fmt.Errorf("robot password must be exactly %d characters", PasswordLength)
	}
	for _, p := range c.Ports {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid robot port %d", p)
		}
	}
	return nil
}

// Timeout returns the per request timeout.
func (c RobotConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
