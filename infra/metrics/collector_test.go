package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/xeniter/romygo/core/events"
	coremetrics "github.com/xeniter/romygo/core/metrics"
	"github.com/xeniter/romygo/internal/eventbus"
)

type captureSink struct {
	commands chan coremetrics.CommandEvent
	conns    chan coremetrics.ConnectivityEvent
}

func (c *captureSink) RecordStatus(coremetrics.StatusEvent) error { return nil }

func (c *captureSink) RecordCommand(ev coremetrics.CommandEvent) error {
	c.commands <- ev
	return nil
}

func (c *captureSink) RecordConnectivity(ev coremetrics.ConnectivityEvent) error {
	c.conns <- ev
	return nil
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &captureSink{
		commands: make(chan coremetrics.CommandEvent, 1),
		conns:    make(chan coremetrics.ConnectivityEvent, 1),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink)

	bus.Publish(events.CommandIssued{
		RobotID:   "rid-1",
		Command:   "clean_start_or_continue",
		Parameter: 2,
		OK:        true,
		Latency:   120 * time.Millisecond,
		Time:      time.Now(),
	})
	select {
	case ev := <-sink.commands:
		if ev.Command != "clean_start_or_continue" || ev.Parameter != 2 || !ev.OK {
			t.Fatalf("unexpected command event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("command event not recorded")
	}

	bus.Publish(events.ConnectivityChanged{RobotID: "rid-1", Reachable: false, Time: time.Now()})
	select {
	case ev := <-sink.conns:
		if ev.Reachable {
			t.Fatalf("expected unreachable transition, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("connectivity event not recorded")
	}
}
