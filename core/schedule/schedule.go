package schedule

import (
	"context"
	"time"

	"github.com/xeniter/romygo/core/logger"
)

// Cleaner starts cleaning runs on behalf of the schedule.
type Cleaner interface {
	CleanStartOrContinue(ctx context.Context) error
	CleanAll(ctx context.Context) error
	SetCleaningParameterSet(ctx context.Context, set int) error
}

// Next returns the next trigger at or after now, in now's location.
// ok is false when the schedule is disabled or empty.
func (c Config) Next(now time.Time) (time.Time, Entry, bool) {
	if !c.Enabled || len(c.Entries) == 0 {
		return time.Time{}, Entry{}, false
	}
	var best time.Time
	var bestEntry Entry
	for _, e := range c.Entries {
		wall, err := time.Parse("15:04", e.Time)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), wall.Hour(), wall.Minute(), 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		if best.IsZero() || at.Before(best) {
			best = at
			bestEntry = e
		}
	}
	if best.IsZero() {
		return time.Time{}, Entry{}, false
	}
	return best, bestEntry, true
}

// Run executes the schedule until ctx is canceled. It sleeps until the
// next trigger and issues the configured cleaning command.
func Run(ctx context.Context, cfg Config, cl Cleaner, log logger.Logger) {
	for {
		at, entry, ok := cfg.Next(time.Now())
		if !ok {
			return
		}
		log.Infof("next scheduled clean at %s", at.Format(time.RFC3339))
		timer := time.NewTimer(time.Until(at))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		fire(ctx, entry, cl, log)
	}
}

func fire(ctx context.Context, e Entry, cl Cleaner, log logger.Logger) {
	if e.CleaningParameterSet >= 0 {
		if err := cl.SetCleaningParameterSet(ctx, e.CleaningParameterSet); err != nil {
			log.Errorf("scheduled clean: switch cleaning parameter set: %v", err)
		}
	}
	var err error
	if e.WholeHouse {
		err = cl.CleanAll(ctx)
	} else {
		err = cl.CleanStartOrContinue(ctx)
	}
	if err != nil {
		log.Errorf("scheduled clean failed: %v", err)
		return
	}
	log.Infof("scheduled clean started, whole_house=%t", e.WholeHouse)
}
