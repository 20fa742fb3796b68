package main

import (
	"math"
	"sync"
	"time"
)

// Modes as the firmware reports them over the wire.
const (
	modeDocked    = "docked"
	modeCharging  = "charging"
	modeCleaning  = "cleaning"
	modeReturning = "returning"
	modeIdle      = "idle"
)

const (
	cleanSpeedMPS  = 0.3  // forward speed while cleaning
	returnSpeedMPS = 0.4  // forward speed while driving home
	brushWidthM    = 0.18 // cleaned strip per meter driven
	turnRadPerSec  = 0.25 // heading drift while cleaning, yields a spiral walk
	lowBatteryPct  = 15.0 // below this the robot heads home on its own
	dockEpsilonM   = 0.2
)

// Robot is the simulated vacuum. The HTTP handlers and the tick loop share
// one instance; every method takes the mutex.
type Robot struct {
	mu sync.Mutex

	name     string
	uniqueID string
	model    string
	firmware string

	locked   bool
	password string

	mode      string
	paramSet  int
	errorCode int

	x, y    float64
	heading float64

	battery *Battery

	// lifetime counters kept in natural units, rendered fixed point
	distanceM float64
	cleanH    float64
	areaM2    float64
	runs      int
}

// NewRobot builds a robot sitting on its dock at the map origin.
func NewRobot(cfg Config) *Robot {
	r := &Robot{
		name:     cfg.Name,
		uniqueID: cfg.UniqueID,
		model:    cfg.Model,
		firmware: cfg.Firmware,
		locked:   cfg.Password != "",
		password: cfg.Password,
		mode:     modeDocked,
		paramSet: 1,
		battery: &Battery{
			Level:        float64(cfg.BatteryLevel),
			DrainPerMin:  cfg.DrainPerMin,
			ChargePerMin: cfg.ChargePerMin,
		},
	}
	if cfg.BatteryLevel < 100 {
		r.mode = modeCharging
	}
	return r
}

// Locked reports whether the http interface rejects commands.
func (r *Robot) Locked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked
}

// Unlock opens the http interface when pass matches the configured password.
func (r *Robot) Unlock(pass string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pass != r.password {
		return false
	}
	r.locked = false
	return true
}

// StartCleaning begins or resumes a run. A non-negative set switches the
// cleaning parameter set first. Runs started from the dock count as a new
// cleaning run.
func (r *Robot) StartCleaning(set int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set >= 0 {
		r.paramSet = set
	}
	if r.mode == modeDocked || r.mode == modeCharging {
		r.runs++
	}
	r.mode = modeCleaning
}

// Stop halts the robot where it is.
func (r *Robot) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == modeCleaning || r.mode == modeReturning {
		r.mode = modeIdle
	}
}

// GoHome sends the robot back to the dock.
func (r *Robot) GoHome() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != modeDocked && r.mode != modeCharging {
		r.mode = modeReturning
	}
}

// SwitchParamSet changes the fan/suction preset without starting a run.
func (r *Robot) SwitchParamSet(set int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paramSet = set
}

// Rename assigns a new user visible name.
func (r *Robot) Rename(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
}

// SetError injects an error code into the status report. Zero clears it.
func (r *Robot) SetError(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorCode = code
}

// SetBattery overrides the battery level, for tests and fault scenarios.
func (r *Robot) SetBattery(level float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.battery.mu.Lock()
	r.battery.Level = level
	r.battery.mu.Unlock()
}

// Tick advances the world by dt: pose, battery, counters and the mode
// transitions that depend on them.
func (r *Robot) Tick(dt time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dt <= 0 {
		return
	}
	sec := dt.Seconds()

	switch r.mode {
	case modeCleaning:
		level := r.battery.Apply(true, dt)
		r.heading += turnRadPerSec * sec
		dist := cleanSpeedMPS * sec
		r.x += math.Cos(r.heading) * dist
		r.y += math.Sin(r.heading) * dist
		r.distanceM += dist
		r.areaM2 += dist * brushWidthM
		r.cleanH += dt.Hours()
		if level < lowBatteryPct {
			r.mode = modeReturning
		}
	case modeReturning:
		level := r.battery.Apply(true, dt)
		r.driveToDock(returnSpeedMPS * sec)
		if r.x == 0 && r.y == 0 {
			if level < 100 {
				r.mode = modeCharging
			} else {
				r.mode = modeDocked
			}
		}
	case modeCharging:
		if r.battery.Apply(false, dt) >= 100 {
			r.mode = modeDocked
		}
	}
}

// driveToDock moves up to dist meters straight toward the dock at the origin
// and snaps onto it once close enough.
func (r *Robot) driveToDock(dist float64) {
	remaining := math.Hypot(r.x, r.y)
	if remaining <= dist+dockEpsilonM {
		r.x, r.y = 0, 0
		return
	}
	r.x -= r.x / remaining * dist
	r.y -= r.y / remaining * dist
	r.distanceM += dist
}

// Docked reports whether the robot sits on its dock.
func (r *Robot) Docked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode == modeDocked || r.mode == modeCharging
}

// Mode returns the current operating mode.
func (r *Robot) Mode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Name returns the user visible robot name.
func (r *Robot) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// Identity returns unique id, model and firmware version.
func (r *Robot) Identity() (string, string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniqueID, r.model, r.firmware
}

// State returns mode, battery percent and the injected error code.
func (r *Robot) State() (string, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode, r.battery.Percent(), r.errorCode
}

// ParamSet returns the active cleaning parameter set.
func (r *Robot) ParamSet() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paramSet
}

// Pose returns position and heading in map coordinates.
func (r *Robot) Pose() (float64, float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x, r.y, r.heading
}

// Counters returns the lifetime statistics in the fixed point encoding the
// firmware uses: distance with 7 fractional bits, time and area with 6.
func (r *Robot) Counters() (distance, cleanTime, area, runs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.distanceM * 128), int(r.cleanH * 64), int(r.areaM2 * 64), r.runs
}
