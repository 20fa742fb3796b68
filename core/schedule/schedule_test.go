package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xeniter/romygo/infra/logger"
)

func TestNextSameDayAndRollover(t *testing.T) {
	cfg := Config{Enabled: true, Entries: []Entry{
		{Time: "06:30", WholeHouse: true, CleaningParameterSet: 1},
		{Time: "21:00", CleaningParameterSet: -1},
	}}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	at, entry, ok := cfg.Next(now)
	if !ok {
		t.Fatalf("expected a trigger")
	}
	if want := time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC); !at.Equal(want) {
		t.Fatalf("next = %v want %v", at, want)
	}
	if entry.WholeHouse {
		t.Fatalf("picked wrong entry %#v", entry)
	}

	now = time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	at, entry, ok = cfg.Next(now)
	if !ok {
		t.Fatalf("expected a trigger")
	}
	if want := time.Date(2024, 5, 2, 6, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Fatalf("rollover next = %v want %v", at, want)
	}
	if !entry.WholeHouse || entry.CleaningParameterSet != 1 {
		t.Fatalf("picked wrong entry %#v", entry)
	}

	// a trigger exactly at now rolls over so a just fired entry cannot
	// fire twice
	now = time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC)
	at, _, _ = cfg.Next(now)
	if want := time.Date(2024, 5, 2, 6, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Fatalf("at-now next = %v want %v", at, want)
	}
}

func TestNextKeepsLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	cfg := Config{Enabled: true, Entries: []Entry{{Time: "08:15"}}}
	now := time.Date(2024, 5, 1, 6, 0, 0, 0, loc)
	at, _, ok := cfg.Next(now)
	if !ok {
		t.Fatalf("expected a trigger")
	}
	if at.Location() != loc || at.Hour() != 8 || at.Minute() != 15 {
		t.Fatalf("trigger not in wall clock of now: %v", at)
	}
}

func TestNextDisabledOrEmpty(t *testing.T) {
	now := time.Now()
	if _, _, ok := (Config{Enabled: true}).Next(now); ok {
		t.Fatalf("empty schedule returned a trigger")
	}
	cfg := Config{Entries: []Entry{{Time: "06:30"}}}
	if _, _, ok := cfg.Next(now); ok {
		t.Fatalf("disabled schedule returned a trigger")
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Enabled: true, Entries: []Entry{{Time: "25:99"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for bad time")
	}
	cfg.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled schedule validated: %v", err)
	}
	ok := Config{Enabled: true, Entries: []Entry{{Time: "06:30"}, {Time: "21:00"}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

type fakeCleaner struct {
	calls []string
	set   int
	err   error
}

func (f *fakeCleaner) CleanStartOrContinue(context.Context) error {
	f.calls = append(f.calls, "clean")
	return f.err
}

func (f *fakeCleaner) CleanAll(context.Context) error {
	f.calls = append(f.calls, "clean_all")
	return f.err
}

func (f *fakeCleaner) SetCleaningParameterSet(_ context.Context, set int) error {
	f.calls = append(f.calls, "set")
	f.set = set
	return f.err
}

func TestFireWholeHouseWithSet(t *testing.T) {
	fc := &fakeCleaner{}
	fire(context.Background(), Entry{WholeHouse: true, CleaningParameterSet: 2}, fc, logger.NopLogger{})
	if len(fc.calls) != 2 || fc.calls[0] != "set" || fc.calls[1] != "clean_all" {
		t.Fatalf("calls %v", fc.calls)
	}
	if fc.set != 2 {
		t.Fatalf("set %d", fc.set)
	}
}

func TestFireResumeKeepsSet(t *testing.T) {
	fc := &fakeCleaner{}
	fire(context.Background(), Entry{CleaningParameterSet: -1}, fc, logger.NopLogger{})
	if len(fc.calls) != 1 || fc.calls[0] != "clean" {
		t.Fatalf("calls %v", fc.calls)
	}
}

func TestFireRobotError(t *testing.T) {
	fc := &fakeCleaner{err: errors.New("unreachable")}
	fire(context.Background(), Entry{WholeHouse: true, CleaningParameterSet: -1}, fc, logger.NopLogger{})
	if len(fc.calls) != 1 || fc.calls[0] != "clean_all" {
		t.Fatalf("calls %v", fc.calls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{Enabled: true, Entries: []Entry{{Time: "06:30"}}}
	fc := &fakeCleaner{}
	done := make(chan struct{})
	go func() {
		Run(ctx, cfg, fc, logger.NopLogger{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
	if len(fc.calls) != 0 {
		t.Fatalf("fired despite cancel: %v", fc.calls)
	}
}
