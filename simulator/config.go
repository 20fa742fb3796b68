package main

import (
	"errors"
	"fmt"
	"time"
)

// Config holds parameters for the simulator.
type Config struct {
	Port     int
	Name     string
	UniqueID string
	Model    string
	Firmware string

	// Password locks the http interface until an unlock_http call presents
	// it. Empty starts the interface unlocked.
	Password string

	BatteryLevel int
	DrainPerMin  float64
	ChargePerMin float64

	Tick    time.Duration
	MDNS    bool
	Verbose bool
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Password != "" && len(c.Password) != 8 {
		return errors.New("password must be 8 characters")
	}
	if c.BatteryLevel < 0 || c.BatteryLevel > 100 {
		return fmt.Errorf("battery level %d out of range", c.BatteryLevel)
	}
	if c.DrainPerMin < 0 || c.ChargePerMin < 0 {
		return errors.New("battery rates must not be negative")
	}
	if c.Tick <= 0 {
		return errors.New("tick must be positive")
	}
	return nil
}
