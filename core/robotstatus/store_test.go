package robotstatus

import (
	"testing"
	"time"

	"github.com/xeniter/romygo/core/model"
)

func TestMemoryStore_Filter(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RobotID: "r1", Info: model.RobotInfo{Model: "C5", Name: "Anna"}})
	s.Set(Status{RobotID: "r2", Info: model.RobotInfo{Model: "L6", Name: "Bert"}})
	out := s.List(Filter{Model: "C5"})
	if len(out) != 1 || out[0].RobotID != "r1" {
		t.Fatalf("filter failed: %#v", out)
	}
}

func TestMemoryStore_FilterName(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RobotID: "r1", Info: model.RobotInfo{Name: "Anna"}})
	s.Set(Status{RobotID: "r2", Info: model.RobotInfo{Name: "Bert"}})
	out := s.List(Filter{Name: "Bert"})
	if len(out) != 1 || out[0].RobotID != "r2" {
		t.Fatalf("name filter failed: %#v", out)
	}
}

func TestMemoryStore_Get(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RobotID: "r1", Reachable: true})
	st, ok := s.Get("r1")
	if !ok || !st.Reachable {
		t.Fatalf("get failed: %#v ok=%v", st, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected miss for unknown robot")
	}
}

func TestMemoryStore_RecordCommand(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RobotID: "r1"})
	cmd := LastCommand{Command: "go_home", OK: true, Timestamp: time.Now()}
	s.RecordCommand("r1", cmd)
	st, _ := s.Get("r1")
	if st.LastCommand.Command != "go_home" || !st.LastCommand.OK {
		t.Fatalf("command not recorded: %#v", st.LastCommand)
	}
}

func TestMemoryStore_RecordCommandNew(t *testing.T) {
	s := NewMemoryStore()
	s.RecordCommand("r3", LastCommand{Command: "stop"})
	out := s.List(Filter{})
	if len(out) != 1 || out[0].RobotID != "r3" {
		t.Fatalf("auto create failed %#v", out)
	}
}

func TestMemoryStore_ListSorted(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{RobotID: "r2"})
	s.Set(Status{RobotID: "r1"})
	out := s.List(Filter{})
	if len(out) != 2 || out[0].RobotID != "r1" || out[1].RobotID != "r2" {
		t.Fatalf("expected sorted list, got %#v", out)
	}
}
