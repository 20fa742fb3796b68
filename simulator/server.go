package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// Wire layout of get/sensor_values: groups per device type, each carrying
// its own sensor_data list.
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
	Value  string `json:"value,omitempty"`
	Values []int  `json:"values,omitempty"`
}

// newServer wires the robot interface routes. Every route except the lock
// probe and the unlock command answers 403 while the interface is locked.
func newServer(r *Robot) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ishttpinterfacelocked", func(w http.ResponseWriter, _ *http.Request) {
		if r.Locked() {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		// The firmware answers 400 when the interface is open.
		w.WriteHeader(http.StatusBadRequest)
	})

	mux.HandleFunc("/set/unlock_http", func(w http.ResponseWriter, req *http.Request) {
		if !r.Unlock(req.URL.Query().Get("pass")) {
			log.Printf("%s: unlock rejected", r.Name())
			w.WriteHeader(http.StatusForbidden)
			return
		}
		log.Printf("%s: interface unlocked", r.Name())
		writeOK(w)
	})

	guarded := func(path string, h http.HandlerFunc) {
		mux.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
			if r.Locked() {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h(w, req)
		})
	}

	guarded("/get/robot_name", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"name": r.Name()})
	})

	guarded("/get/robot_id", func(w http.ResponseWriter, _ *http.Request) {
		uid, model, firmware := r.Identity()
		writeJSON(w, map[string]string{
			"name":      "ROMY " + model,
			"unique_id": uid,
			"model":     model,
			"firmware":  firmware,
		})
	})

	guarded("/get/protocol_version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]int{
			"version_major": 1,
			"version_minor": 0,
			"patch_level":   0,
		})
	})

	guarded("/get/status", func(w http.ResponseWriter, _ *http.Request) {
		mode, battery, errorCode := r.State()
		writeJSON(w, map[string]any{
			"mode":          mode,
			"battery_level": battery,
			"error_code":    errorCode,
		})
	})

	guarded("/get/cleaning_parameter_set", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]int{"cleaning_parameter_set": r.ParamSet()})
	})

	guarded("/get/wifi_status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]int{"rssi": -52})
	})

	guarded("/get/rob_pose", func(w http.ResponseWriter, _ *http.Request) {
		x, y, heading := r.Pose()
		writeJSON(w, map[string]float64{"x": x, "y": y, "orientation": heading})
	})

	guarded("/get/sensor_values", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"sensor_data": sensorGroups(r)})
	})

	guarded("/get/statistics", func(w http.ResponseWriter, _ *http.Request) {
		distance, cleanTime, area, runs := r.Counters()
		writeJSON(w, map[string]int{
			"total_distance_driven":         distance,
			"total_cleaning_time":           cleanTime,
			"total_area_cleaned":            area,
			"total_number_of_cleaning_runs": runs,
		})
	})

	guarded("/set/clean_start_or_continue", func(w http.ResponseWriter, req *http.Request) {
		r.StartCleaning(paramSet(req))
		log.Printf("%s: cleaning", r.Name())
		writeOK(w)
	})

	guarded("/set/clean_all", func(w http.ResponseWriter, req *http.Request) {
		r.StartCleaning(paramSet(req))
		log.Printf("%s: cleaning all", r.Name())
		writeOK(w)
	})

	guarded("/set/stop", func(w http.ResponseWriter, _ *http.Request) {
		r.Stop()
		log.Printf("%s: stopped", r.Name())
		writeOK(w)
	})

	guarded("/set/go_home", func(w http.ResponseWriter, _ *http.Request) {
		r.GoHome()
		log.Printf("%s: returning to dock", r.Name())
		writeOK(w)
	})

	guarded("/set/switch_cleaning_parameter_set", func(w http.ResponseWriter, req *http.Request) {
		set := paramSet(req)
		if set < 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.SwitchParamSet(set)
		writeOK(w)
	})

	guarded("/set/robot_name", func(w http.ResponseWriter, req *http.Request) {
		name := req.URL.Query().Get("name")
		if name == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.Rename(name)
		writeOK(w)
	})

	// Fault injection, not part of the robot protocol. Lets tests and manual
	// runs flip the status the connected client sees.
	mux.HandleFunc("/sim/error", func(w http.ResponseWriter, req *http.Request) {
		code, err := strconv.Atoi(req.URL.Query().Get("code"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.SetError(code)
		writeOK(w)
	})

	mux.HandleFunc("/sim/battery", func(w http.ResponseWriter, req *http.Request) {
		level, err := strconv.ParseFloat(req.URL.Query().Get("level"), 64)
		if err != nil || level < 0 || level > 100 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.SetBattery(level)
		writeOK(w)
	})

	return mux
}

// sensorGroups renders the gpio and adc sensors. The dock contact follows
// the mode, the dustbin fill level grows with the cleaned area.
func sensorGroups(r *Robot) []sensorGroup {
	dock := "inactive"
	if r.Docked() {
		dock = "active"
	}
	_, _, area, _ := r.Counters()
	fill := 200 + area/32
	if fill > 1023 {
		fill = 1023
	}
	return []sensorGroup{
		{
			DeviceType: "gpio",
			SensorData: []sensorRecord{
				{DeviceDescriptor: "dustbin", Payload: sensorPayload{Data: sensorData{Value: "active"}}},
				{DeviceDescriptor: "dock", Payload: sensorPayload{Data: sensorData{Value: dock}}},
				{DeviceDescriptor: "water_tank", Payload: sensorPayload{Data: sensorData{Value: "inactive"}}},
				{DeviceDescriptor: "water_tank_empty", Payload: sensorPayload{Data: sensorData{Value: "inactive"}}},
			},
		},
		{
			DeviceType: "adc",
			SensorData: []sensorRecord{
				{DeviceDescriptor: "dustbin_sensor", Payload: sensorPayload{Data: sensorData{Values: []int{fill}}}},
			},
		},
	}
}

func paramSet(req *http.Request) int {
	set, err := strconv.Atoi(req.URL.Query().Get("cleaning_parameter_set"))
	if err != nil {
		return -1
	}
	return set
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, map[string]bool{"ok": true})
}
