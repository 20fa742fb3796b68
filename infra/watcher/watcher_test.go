package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xeniter/romygo/config"
	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/core/history"
	coremetrics "github.com/xeniter/romygo/core/metrics"
	"github.com/xeniter/romygo/core/model"
	"github.com/xeniter/romygo/core/robotstatus"
	"github.com/xeniter/romygo/internal/eventbus"
)

type fakeClient struct {
	mu  sync.Mutex
	st  model.Status
	err error
}

func (f *fakeClient) Status(context.Context) (model.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st, f.err
}

func (f *fakeClient) Info() model.RobotInfo {
	return model.RobotInfo{UniqueID: "aicu-1", Name: "Kitchen", Model: "C5"}
}

func (f *fakeClient) set(st model.Status, err error) {
	f.mu.Lock()
	f.st = st
	f.err = err
	f.mu.Unlock()
}

type captureHistory struct {
	mu   sync.Mutex
	recs []history.LogRecord
}

func (c *captureHistory) Append(_ context.Context, rec history.LogRecord) error {
	c.mu.Lock()
	c.recs = append(c.recs, rec)
	c.mu.Unlock()
	return nil
}

func (c *captureHistory) Query(context.Context, history.LogQuery) ([]history.LogRecord, error) {
	return nil, nil
}

func (c *captureHistory) Close() error { return nil }

func (c *captureHistory) byEvent(event string) []history.LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []history.LogRecord
	for _, r := range c.recs {
		if r.Event == event {
			out = append(out, r)
		}
	}
	return out
}

type statusSink struct {
	mu  sync.Mutex
	evs []coremetrics.StatusEvent
}

func (s *statusSink) RecordStatus(ev coremetrics.StatusEvent) error {
	s.mu.Lock()
	s.evs = append(s.evs, ev)
	s.mu.Unlock()
	return nil
}

func drain(sub <-chan eventbus.Event) []eventbus.Event {
	var out []eventbus.Event
	for {
		select {
		case ev := <-sub:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventsOf[T any](evs []eventbus.Event) []T {
	var out []T
	for _, e := range evs {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func newTestWatcher(fake *fakeClient) (*Watcher, *eventbus.Bus, *robotstatus.MemoryStore, *captureHistory, *statusSink) {
	bus := eventbus.New()
	store := robotstatus.NewMemoryStore()
	hist := &captureHistory{}
	sink := &statusSink{}
	w := New(fake, config.WatcherConfig{}, Options{Bus: bus, Store: store, History: hist, Sink: sink})
	return w, bus, store, hist, sink
}

func TestPollStoresSnapshot(t *testing.T) {
	fake := &fakeClient{st: model.Status{Mode: model.ModeDocked, BatteryLevel: 100, RSSI: -50}}
	w, bus, store, hist, sink := newTestWatcher(fake)
	sub := bus.Subscribe()

	w.poll(context.Background())

	evs := drain(sub)
	updated := eventsOf[events.StatusUpdated](evs)
	if len(evs) != 1 || len(updated) != 1 {
		t.Fatalf("expected a single StatusUpdated, got %+v", evs)
	}
	if updated[0].RobotID != "aicu-1" || updated[0].Status.Mode != model.ModeDocked {
		t.Fatalf("unexpected event: %+v", updated[0])
	}

	st, ok := store.Get("aicu-1")
	if !ok || !st.Reachable || st.State.BatteryLevel != 100 {
		t.Fatalf("store not updated: %+v", st)
	}
	if st.RSSIMean != -50 {
		t.Fatalf("rssi mean not recorded: %v", st.RSSIMean)
	}
	if len(sink.evs) != 1 || sink.evs[0].Info.UniqueID != "aicu-1" {
		t.Fatalf("sink not fed: %+v", sink.evs)
	}
	if len(hist.recs) != 0 {
		t.Fatalf("first poll must not create history records: %+v", hist.recs)
	}
}

func TestPollDiffsTransitions(t *testing.T) {
	fake := &fakeClient{st: model.Status{Mode: model.ModeDocked, BatteryLevel: 100}}
	w, bus, _, hist, _ := newTestWatcher(fake)
	sub := bus.Subscribe()

	w.poll(context.Background())
	drain(sub)

	fake.set(model.Status{Mode: model.ModeCleaning, BatteryLevel: 99}, nil)
	w.poll(context.Background())
	evs := drain(sub)

	states := eventsOf[events.StateChanged](evs)
	if len(states) != 1 || states[0].From != model.ModeDocked || states[0].To != model.ModeCleaning {
		t.Fatalf("unexpected state events: %+v", states)
	}
	batteries := eventsOf[events.BatteryChanged](evs)
	if len(batteries) != 1 || batteries[0].From != 100 || batteries[0].To != 99 {
		t.Fatalf("unexpected battery events: %+v", batteries)
	}

	recs := hist.byEvent(history.EventStateChanged)
	if len(recs) != 1 || recs[0].From != "docked" || recs[0].To != "cleaning" || recs[0].BatteryLevel != 99 {
		t.Fatalf("state change not recorded: %+v", recs)
	}
	recs = hist.byEvent(history.EventBatteryChanged)
	if len(recs) != 1 || recs[0].From != "100" || recs[0].To != "99" {
		t.Fatalf("battery change not recorded: %+v", recs)
	}

	fake.set(model.Status{Mode: model.ModeCleaning, BatteryLevel: 99, ErrorCode: 34}, nil)
	w.poll(context.Background())
	evs = drain(sub)
	faults := eventsOf[events.DeviceError](evs)
	if len(faults) != 1 || faults[0].Code != 34 {
		t.Fatalf("unexpected fault events: %+v", faults)
	}
	if len(hist.byEvent(history.EventDeviceError)) != 1 {
		t.Fatalf("fault not recorded")
	}

	// unchanged snapshot produces no further transitions
	w.poll(context.Background())
	evs = drain(sub)
	if len(evs) != 1 {
		t.Fatalf("expected only StatusUpdated for unchanged snapshot, got %+v", evs)
	}
}

func TestPollConnectivityFlip(t *testing.T) {
	fake := &fakeClient{st: model.Status{Mode: model.ModeCleaning, BatteryLevel: 80}}
	w, bus, store, hist, _ := newTestWatcher(fake)
	sub := bus.Subscribe()

	w.poll(context.Background())
	drain(sub)

	fake.set(model.Status{}, errors.New("connection refused"))
	w.poll(context.Background())
	evs := drain(sub)
	conns := eventsOf[events.ConnectivityChanged](evs)
	if len(conns) != 1 || conns[0].Reachable || conns[0].Err != "connection refused" {
		t.Fatalf("unexpected connectivity events: %+v", conns)
	}
	st, _ := store.Get("aicu-1")
	if st.Reachable || st.State.BatteryLevel != 80 {
		t.Fatalf("store should keep last snapshot flagged stale: %+v", st)
	}

	// a second failing poll stays quiet
	w.poll(context.Background())
	if evs := drain(sub); len(evs) != 0 {
		t.Fatalf("repeat failure must not publish again: %+v", evs)
	}

	fake.set(model.Status{Mode: model.ModeCleaning, BatteryLevel: 79}, nil)
	w.poll(context.Background())
	evs = drain(sub)
	conns = eventsOf[events.ConnectivityChanged](evs)
	if len(conns) != 1 || !conns[0].Reachable {
		t.Fatalf("recovery not published: %+v", conns)
	}
	recs := hist.byEvent(history.EventConnectivity)
	if len(recs) != 2 || recs[0].Reachable || !recs[1].Reachable {
		t.Fatalf("connectivity flips not recorded: %+v", recs)
	}
}

func TestPollInitialFailureSilent(t *testing.T) {
	fake := &fakeClient{err: errors.New("no route to host")}
	w, bus, store, hist, _ := newTestWatcher(fake)
	sub := bus.Subscribe()

	w.poll(context.Background())
	if evs := drain(sub); len(evs) != 0 {
		t.Fatalf("initial failure must stay silent: %+v", evs)
	}
	st, ok := store.Get("aicu-1")
	if !ok || st.Reachable || st.Info.UniqueID != "aicu-1" {
		t.Fatalf("store entry missing or wrong: %+v", st)
	}
	if len(hist.recs) != 0 {
		t.Fatalf("unexpected history: %+v", hist.recs)
	}

	fake.set(model.Status{Mode: model.ModeDocked, BatteryLevel: 100}, nil)
	w.poll(context.Background())
	conns := eventsOf[events.ConnectivityChanged](drain(sub))
	if len(conns) != 1 || !conns[0].Reachable {
		t.Fatalf("recovery after initial failure not published: %+v", conns)
	}
}

func TestStatusesChannel(t *testing.T) {
	fake := &fakeClient{st: model.Status{Mode: model.ModeDocked}}
	w, _, _, _, _ := newTestWatcher(fake)
	ch := w.Statuses()
	defer w.UnsubscribeStatuses(ch)

	w.poll(context.Background())
	select {
	case st := <-ch:
		if st.Mode != model.ModeDocked {
			t.Fatalf("unexpected snapshot: %+v", st)
		}
	default:
		t.Fatalf("no snapshot delivered")
	}
}

func TestStartCommandRecorder(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	store := robotstatus.NewMemoryStore()
	hist := &captureHistory{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartCommandRecorder(ctx, bus, store, hist)

	issued := events.CommandIssued{RobotID: "aicu-1", Command: "stop", OK: true, Time: time.Now()}
	bus.Publish(issued)

	deadline := time.After(time.Second)
	for {
		if recs := hist.byEvent(history.EventCommand); len(recs) == 1 {
			if recs[0].Command != "stop" || !recs[0].OK {
				t.Fatalf("unexpected record: %+v", recs[0])
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("command never recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}
	st, ok := store.Get("aicu-1")
	if !ok || st.LastCommand.Command != "stop" || !st.LastCommand.OK {
		t.Fatalf("store last command wrong: %+v", st.LastCommand)
	}
}
