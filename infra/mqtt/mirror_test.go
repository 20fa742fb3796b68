package mqtt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/core/history"
	"github.com/xeniter/romygo/core/model"
	"github.com/xeniter/romygo/internal/eventbus"
)

type capturePublisher struct {
	mu       sync.Mutex
	statuses []model.Status
	events   []string
	avail    []bool
	notify   chan struct{}
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{notify: make(chan struct{}, 16)}
}

func (c *capturePublisher) PublishStatus(st model.Status) error {
	c.mu.Lock()
	c.statuses = append(c.statuses, st)
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *capturePublisher) PublishEvent(event string, _ any) error {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *capturePublisher) PublishAvailability(online bool) error {
	c.mu.Lock()
	c.avail = append(c.avail, online)
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *capturePublisher) Close() {}

func (c *capturePublisher) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.notify:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for publish %d of %d", i+1, n)
		}
	}
}

func TestStartEventMirror(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	pub := newCapturePublisher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventMirror(ctx, bus, pub)

	bus.Publish(events.StatusUpdated{RobotID: "aicu-1", Status: model.Status{Mode: model.ModeCleaning}})
	bus.Publish(events.StateChanged{RobotID: "aicu-1", From: model.ModeDocked, To: model.ModeCleaning})
	bus.Publish(events.ConnectivityChanged{RobotID: "aicu-1", Reachable: false})
	// status + state event + connectivity event + availability
	pub.wait(t, 4)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.statuses) != 1 || pub.statuses[0].Mode != model.ModeCleaning {
		t.Fatalf("status not mirrored: %+v", pub.statuses)
	}
	if len(pub.events) != 2 || pub.events[0] != history.EventStateChanged || pub.events[1] != history.EventConnectivity {
		t.Fatalf("unexpected events: %v", pub.events)
	}
	if len(pub.avail) != 1 || pub.avail[0] {
		t.Fatalf("availability not flipped: %v", pub.avail)
	}
}
