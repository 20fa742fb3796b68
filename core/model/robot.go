package model

import (
	"fmt"
	"strings"
)

// RobotInfo identifies a robot reachable on the local network.
type RobotInfo struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	Name            string `json:"name"`             // user assigned name
	ProductName     string `json:"product_name"`     // factory product name
	UniqueID        string `json:"unique_id"`        // stable device identifier
	Model           string `json:"model"`            // hardware model code
	FirmwareVersion string `json:"firmware_version"` // installed firmware
	ProtocolVersion string `json:"protocol_version"` // interface protocol, major.minor.patch
}

// BaseURL returns the robot interface endpoint.
func (r RobotInfo) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", r.Host, r.Port)
}

// Mode is the operating mode reported by the robot.
type Mode string

const (
	ModeIdle         Mode = "idle"
	ModeCleaning     Mode = "cleaning"
	ModeSpotCleaning Mode = "spot_cleaning"
	ModeExploring    Mode = "exploring"
	ModeReturning    Mode = "returning"
	ModeDocked       Mode = "docked"
	ModeCharging     Mode = "charging"
	ModeError        Mode = "error"
	ModeUnknown      Mode = "unknown"
)

// modeAliases maps wire values emitted by older firmware to canonical modes.
var modeAliases = map[string]Mode{
	"ready":   ModeIdle,
	"clean":   ModeCleaning,
	"spot":    ModeSpotCleaning,
	"explore": ModeExploring,
	"go_home": ModeReturning,
}

// ParseMode normalizes a mode string received from the robot. Unrecognized
// values map to ModeUnknown so a firmware update cannot break status parsing.
func ParseMode(s string) Mode {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Mode(v) {
	case ModeIdle, ModeCleaning, ModeSpotCleaning, ModeExploring,
		ModeReturning, ModeDocked, ModeCharging, ModeError:
		return Mode(v)
	}
	if m, ok := modeAliases[v]; ok {
		return m
	}
	return ModeUnknown
}

// Active reports whether the robot is moving through the home.
func (m Mode) Active() bool {
	switch m {
	case ModeCleaning, ModeSpotCleaning, ModeExploring, ModeReturning:
		return true
	}
	return false
}

// AtDock reports whether the robot sits on its docking station.
func (m Mode) AtDock() bool {
	return m == ModeDocked || m == ModeCharging
}

func (m Mode) String() string { return string(m) }
