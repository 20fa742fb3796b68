package main

import (
	"sync"
	"time"
)

// Battery models the robot battery in percent with separate drain and charge
// rates.
type Battery struct {
	Level        float64 // charge [0,100]
	DrainPerMin  float64 // percent lost per minute of driving
	ChargePerMin float64 // percent gained per minute on the dock
	mu           sync.Mutex
}

// Apply advances the battery by dt. Draining is used while the robot drives,
// charging while it sits on the dock. The level is clamped to [0,100] and
// returned.
func (b *Battery) Apply(draining bool, dt time.Duration) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	minutes := dt.Minutes()
	if minutes <= 0 {
		return b.Level
	}
	if draining {
		b.Level -= b.DrainPerMin * minutes
	} else {
		b.Level += b.ChargePerMin * minutes
	}
	if b.Level < 0 {
		b.Level = 0
	}
	if b.Level > 100 {
		b.Level = 100
	}
	return b.Level
}

// Percent returns the current level rounded down to a whole percent, the
// granularity the robot reports.
func (b *Battery) Percent() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int(b.Level)
}
