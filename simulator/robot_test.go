package main

import (
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Port:         8080,
		Name:         "Kitchen",
		UniqueID:     "sim-0001",
		Model:        "C5",
		Firmware:     "v1.2.3",
		BatteryLevel: 100,
		DrainPerMin:  2,
		ChargePerMin: 4,
		Tick:         time.Second,
	}
}

func TestCleaningAccumulates(t *testing.T) {
	r := NewRobot(testConfig())
	r.StartCleaning(2)

	r.Tick(time.Minute)

	mode, battery, _ := r.State()
	if mode != modeCleaning {
		t.Fatalf("mode = %s, want cleaning", mode)
	}
	if battery != 98 {
		t.Fatalf("battery = %d, want 98", battery)
	}
	if got := r.ParamSet(); got != 2 {
		t.Fatalf("param set = %d, want 2", got)
	}

	distance, cleanTime, area, runs := r.Counters()
	// 0.3 m/s for one minute is 18 m, reported in 1/128 m units.
	if want := int(18.0 * 128); distance != want {
		t.Fatalf("distance = %d, want %d", distance, want)
	}
	wantArea := 18.0 * brushWidthM * 64
	if want := int(wantArea); area != want {
		t.Fatalf("area = %d, want %d", area, want)
	}
	if cleanTime != 1 {
		t.Fatalf("clean time = %d, want 1", cleanTime)
	}
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}

	x, y, _ := r.Pose()
	if x == 0 && y == 0 {
		t.Fatalf("pose did not move")
	}
}

func TestLowBatteryHeadsHome(t *testing.T) {
	r := NewRobot(testConfig())
	r.SetBattery(16)
	r.StartCleaning(-1)

	r.Tick(time.Minute)

	if got := r.Mode(); got != modeReturning {
		t.Fatalf("mode = %s, want returning", got)
	}
}

func TestReturnDocksAndCharges(t *testing.T) {
	cfg := testConfig()
	cfg.BatteryLevel = 50
	r := NewRobot(cfg)
	r.StartCleaning(-1)
	r.Tick(30 * time.Second)
	r.GoHome()

	for i := 0; i < 120 && !r.Docked(); i++ {
		r.Tick(time.Second)
	}
	if !r.Docked() {
		t.Fatalf("robot did not reach the dock")
	}
	x, y, _ := r.Pose()
	if x != 0 || y != 0 {
		t.Fatalf("pose = (%.2f, %.2f), want dock", x, y)
	}
	if got := r.Mode(); got != modeCharging {
		t.Fatalf("mode = %s, want charging", got)
	}

	r.Tick(30 * time.Minute)
	if got := r.Mode(); got != modeDocked {
		t.Fatalf("mode after charging = %s, want docked", got)
	}
	if _, battery, _ := r.State(); battery != 100 {
		t.Fatalf("battery = %d, want 100", battery)
	}
}

func TestRunCountsOnlyDockStarts(t *testing.T) {
	r := NewRobot(testConfig())
	r.StartCleaning(-1)
	r.Stop()
	r.StartCleaning(-1)

	if _, _, _, runs := r.Counters(); runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}

	r.GoHome()
	r.Tick(time.Second)
	if !r.Docked() {
		t.Fatalf("robot should be back on the dock")
	}
	r.StartCleaning(-1)
	if _, _, _, runs := r.Counters(); runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}
}

func TestBatteryClamp(t *testing.T) {
	b := &Battery{Level: 1, DrainPerMin: 10, ChargePerMin: 10}
	if got := b.Apply(true, time.Minute); got != 0 {
		t.Fatalf("drained level = %.1f, want 0", got)
	}
	if got := b.Apply(false, 11*time.Minute); got != 100 {
		t.Fatalf("charged level = %.1f, want 100", got)
	}
	if got := b.Apply(true, 0); got != 100 {
		t.Fatalf("zero duration changed level to %.1f", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	if err := (&cfg).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := testConfig()
	bad.Password = "short"
	if err := (&bad).Validate(); err == nil {
		t.Fatalf("short password accepted")
	}

	bad = testConfig()
	bad.BatteryLevel = 150
	if err := (&bad).Validate(); err == nil {
		t.Fatalf("battery level 150 accepted")
	}

	bad = testConfig()
	bad.Tick = 0
	if err := (&bad).Validate(); err == nil {
		t.Fatalf("zero tick accepted")
	}
}
