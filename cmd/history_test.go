package cmd

import (
	"testing"
	"time"
)

func TestParseSinceDuration(t *testing.T) {
	start, err := parseSince("24h")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Now().Add(-24 * time.Hour)
	if d := start.Sub(want); d < -time.Minute || d > time.Minute {
		t.Fatalf("start %v not ~24h ago", start)
	}
}

func TestParseSinceRFC3339(t *testing.T) {
	start, err := parseSince("2024-05-01T10:00:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !start.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("start %v", start)
	}
}

func TestParseSinceBad(t *testing.T) {
	if _, err := parseSince("yesterday"); err == nil {
		t.Fatalf("expected error")
	}
}
