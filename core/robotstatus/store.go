package robotstatus

import (
	"sort"
	"sync"
	"time"

	"github.com/xeniter/romygo/core/model"
)

// LastCommand summarizes the most recent control command sent to a robot.
type LastCommand struct {
	Command   string    `json:"command"`
	Parameter int       `json:"parameter,omitempty"`
	OK        bool      `json:"ok"`
	Timestamp time.Time `json:"timestamp"`
}

// Status captures the current known state of a robot.
type Status struct {
	RobotID     string          `json:"robot_id"`
	Info        model.RobotInfo `json:"info"`
	State       model.Status    `json:"state"`
	Reachable   bool            `json:"reachable"`
	LastSeen    time.Time       `json:"last_seen,omitempty"`
	RSSIMean    float64         `json:"rssi_mean,omitempty"`
	LastCommand LastCommand     `json:"last_command"`
}

// Filter narrows a List call. Empty fields match everything.
type Filter struct {
	Model string
	Name  string
}

// Store keeps the latest status per robot.
type Store interface {
	Set(Status)
	Get(id string) (Status, bool)
	List(Filter) []Status
	RecordCommand(id string, cmd LastCommand)
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Status{}}
}

func (s *MemoryStore) Set(st Status) {
	s.mu.Lock()
	s.data[st.RobotID] = st
	s.mu.Unlock()
}

func (s *MemoryStore) Get(id string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[id]
	return st, ok
}

func (s *MemoryStore) RecordCommand(id string, cmd LastCommand) {
	s.mu.Lock()
	st := s.data[id]
	if st.RobotID == "" {
		st.RobotID = id
	}
	st.LastCommand = cmd
	s.data[id] = st
	s.mu.Unlock()
}

func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.Model != "" && st.Info.Model != f.Model {
			continue
		}
		if f.Name != "" && st.Info.Name != f.Name {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].RobotID < res[j].RobotID })
	return res
}
