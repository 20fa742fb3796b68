package model

import "time"

// Binary sensor descriptors reported by the robot.
const (
	SensorDustbin        = "dustbin"
	SensorDock           = "dock"
	SensorWaterTank      = "water_tank"
	SensorWaterTankEmpty = "water_tank_empty"
)

// SensorDustbinLevel is the ADC descriptor for the dustbin fill sensor.
const SensorDustbinLevel = "dustbin_sensor"

// Pose is the estimated robot position relative to the docking station.
type Pose struct {
	X           float64 `json:"x"`           // meters
	Y           float64 `json:"y"`           // meters
	Orientation float64 `json:"orientation"` // radians
	Valid       bool    `json:"valid"`       // false when the robot did not report a pose
}

// Status is a snapshot of the robot state assembled from one refresh cycle.
type Status struct {
	Mode                 Mode           `json:"mode"`
	BatteryLevel         int            `json:"battery_level"` // percent, 0..100
	CleaningParameterSet int            `json:"cleaning_parameter_set"`
	ErrorCode            int            `json:"error_code"` // 0 means no device error
	RSSI                 int            `json:"rssi"`       // dBm, negative
	Pose                 Pose           `json:"pose"`
	BinarySensors        map[string]bool `json:"binary_sensors"`
	AdcSensors           map[string]int  `json:"adc_sensors"`
	Statistics           Statistics     `json:"statistics"`
	CapturedAt           time.Time      `json:"captured_at"`
}

// ClampBatteryLevel forces a reported battery level into the 0..100 range.
func ClampBatteryLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// HasError reports whether the robot signals a device fault.
func (s Status) HasError() bool {
	return s.ErrorCode != 0 || s.Mode == ModeError
}

// BinarySensor returns the sensor value and whether the robot reported it.
func (s Status) BinarySensor(descriptor string) (bool, bool) {
	v, ok := s.BinarySensors[descriptor]
	return v, ok
}

// AdcSensor returns the raw ADC reading and whether the robot reported it.
func (s Status) AdcSensor(descriptor string) (int, bool) {
	v, ok := s.AdcSensors[descriptor]
	return v, ok
}

// Equal compares two snapshots ignoring the capture timestamp. It is used to
// suppress redundant change notifications between refresh cycles.
func (s Status) Equal(o Status) bool {
	if s.Mode != o.Mode || s.BatteryLevel != o.BatteryLevel ||
		s.CleaningParameterSet != o.CleaningParameterSet ||
		s.ErrorCode != o.ErrorCode || s.RSSI != o.RSSI ||
		s.Pose != o.Pose || s.Statistics != o.Statistics {
		return false
	}
	if len(s.BinarySensors) != len(o.BinarySensors) {
		return false
	}
	for k, v := range s.BinarySensors {
		if ov, ok := o.BinarySensors[k]; !ok || ov != v {
			return false
		}
	}
	if len(s.AdcSensors) != len(o.AdcSensors) {
		return false
	}
	for k, v := range s.AdcSensors {
		if ov, ok := o.AdcSensors[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
