package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore_PersistQuery(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Unix(1700000000, 0)
	recs := []LogRecord{
		{Timestamp: base, RobotID: "aicu-1", Event: EventStateChanged, From: "idle", To: "cleaning", BatteryLevel: 90},
		{Timestamp: base.Add(time.Minute), RobotID: "aicu-1", Event: EventDeviceError, ErrorCode: 34, BatteryLevel: 88},
		{Timestamp: base.Add(2 * time.Minute), RobotID: "aicu-2", Event: EventStateChanged, From: "cleaning", To: "docked", BatteryLevel: 40},
	}
	for _, r := range recs {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	out, err := store.Query(context.Background(), LogQuery{RobotID: "aicu-1"})
	if err != nil {
		t.Fatalf("query robot: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[1].Event != EventDeviceError || out[1].ErrorCode != 34 {
		t.Fatalf("unexpected record: %+v", out[1])
	}

	out, err = store.Query(context.Background(), LogQuery{Event: EventStateChanged})
	if err != nil {
		t.Fatalf("query event: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 state changes, got %d", len(out))
	}
	if out[0].RobotID != "aicu-1" || out[1].RobotID != "aicu-2" {
		t.Fatalf("records not ordered by timestamp: %+v", out)
	}
}

func TestSQLiteStore_TimeWindow(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		rec := LogRecord{Timestamp: base.Add(time.Duration(i) * time.Minute), RobotID: "aicu-1", Event: EventBatteryChanged, BatteryLevel: 90 - i}
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	out, err := store.Query(context.Background(), LogQuery{
		Start: base.Add(time.Minute),
		End:   base.Add(3 * time.Minute),
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 records in window, got %d", len(out))
	}
	if out[0].BatteryLevel != 89 || out[2].BatteryLevel != 87 {
		t.Fatalf("unexpected window bounds: %+v", out)
	}
}
