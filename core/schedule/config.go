package schedule

import (
	"fmt"
	"time"
)

// Entry is one daily cleaning trigger.
type Entry struct {
	// Time is the trigger in HH:MM wall clock notation.
	Time string `json:"time"`
	// WholeHouse starts a complete run instead of resuming an
	// interrupted one.
	WholeHouse bool `json:"whole_house"`
	// CleaningParameterSet selects the fan preset for the run. A negative
	// value keeps the robot's current set.
	CleaningParameterSet int `json:"cleaning_parameter_set"`
}

// Config defines the daily cleaning schedule.
type Config struct {
	Enabled bool    `json:"enabled"`
	Entries []Entry `json:"entries"`
}

// Validate checks that every entry parses. A disabled schedule is not
// validated so a commented-out section cannot block startup.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	for i, e := range c.Entries {
		if _, err := time.Parse("15:04", e.Time); err != nil {
			return fmt.Errorf("schedule entry %d: bad time %q: %w", i, e.Time, err)
		}
	}
	return nil
}
