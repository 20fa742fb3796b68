package romy

import (
	"context"
	"time"

	"github.com/xeniter/romygo/core/model"
)

// Sensor descriptors the snapshot assembly picks out of get/sensor_values.
var (
	supportedBinarySensors = []string{
		model.SensorDustbin,
		model.SensorDock,
		model.SensorWaterTank,
		model.SensorWaterTankEmpty,
	}
	supportedAdcSensors = []string{model.SensorDustbinLevel}
)

// Wire layout of get/sensor_values: groups per device type, each carrying
// its own sensor_data list.
type sensorValues struct {
	SensorData []sensorGroup `json:"sensor_data"`
}

type sensorGroup struct {
	DeviceType string         `json:"device_type"`
	SensorData []sensorRecord `json:"sensor_data"`
}

type sensorRecord struct {
	DeviceDescriptor string        `json:"device_descriptor"`
	Payload          sensorPayload `json:"payload"`
}

type sensorPayload struct {
	Data sensorData `json:"data"`
}

type sensorData struct {
	Value  string `json:"value"`
	Values []int  `json:"values"`
}

// Status assembles a full snapshot. get/status must succeed; the remaining
// sub-queries are best effort and leave their part of the snapshot empty
// when the robot does not answer them.
func (c *Client) Status(ctx context.Context) (model.Status, error) {
	var head struct {
		Mode         string `json:"mode"`
		BatteryLevel int    `json:"battery_level"`
		ErrorCode    int    `json:"error_code"`
	}
	if err := c.getJSON(ctx, "get/status", &head); err != nil {
		return model.Status{}, err
	}
	st := model.Status{
		Mode:          model.ParseMode(head.Mode),
		BatteryLevel:  model.ClampBatteryLevel(head.BatteryLevel),
		ErrorCode:     head.ErrorCode,
		BinarySensors: map[string]bool{},
		AdcSensors:    map[string]int{},
	}

	var param struct {
		CleaningParameterSet int `json:"cleaning_parameter_set"`
	}
	if err := c.getJSON(ctx, "get/cleaning_parameter_set", &param); err == nil {
		st.CleaningParameterSet = param.CleaningParameterSet
		c.setParamSet(param.CleaningParameterSet)
	} else {
		st.CleaningParameterSet = c.CleaningParameterSet()
	}

	var wifi struct {
		RSSI int `json:"rssi"`
	}
	if err := c.getJSON(ctx, "get/wifi_status", &wifi); err == nil {
		st.RSSI = wifi.RSSI
	}

	var pose struct {
		X           float64 `json:"x"`
		Y           float64 `json:"y"`
		Orientation float64 `json:"orientation"`
	}
	if err := c.getJSON(ctx, "get/rob_pose", &pose); err == nil {
		st.Pose = model.Pose{X: pose.X, Y: pose.Y, Orientation: pose.Orientation, Valid: true}
	}

	var sensors sensorValues
	if err := c.getJSON(ctx, "get/sensor_values", &sensors); err == nil {
		applySensorValues(&st, sensors)
	}

	var stats model.Statistics
	if err := c.getJSON(ctx, "get/statistics", &stats); err == nil {
		st.Statistics = stats
	}

	st.CapturedAt = time.Now()
	return st, nil
}

func applySensorValues(st *model.Status, sv sensorValues) {
	for _, group := range sv.SensorData {
		switch group.DeviceType {
		case "gpio":
			for _, rec := range group.SensorData {
				for _, descriptor := range supportedBinarySensors {
					if rec.DeviceDescriptor == descriptor {
						st.BinarySensors[descriptor] = rec.Payload.Data.Value == "active"
					}
				}
			}
		case "adc":
			for _, rec := range group.SensorData {
				for _, descriptor := range supportedAdcSensors {
					if rec.DeviceDescriptor == descriptor && len(rec.Payload.Data.Values) > 0 {
						st.AdcSensors[descriptor] = rec.Payload.Data.Values[0]
					}
				}
			}
		}
	}
}
