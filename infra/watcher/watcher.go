// Package watcher drives the periodic status refresh. Each poll queries the
// robot, diffs the snapshot against the previous one and fans the changes out
// to the event bus, the status store, the run history and the metrics sinks.
package watcher

import (
	"context"
	"strconv"
	"time"

	"github.com/xeniter/romygo/config"
	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/core/history"
	coremetrics "github.com/xeniter/romygo/core/metrics"
	"github.com/xeniter/romygo/core/model"
	"github.com/xeniter/romygo/core/monitoring"
	"github.com/xeniter/romygo/core/robotstatus"
	"github.com/xeniter/romygo/infra/logger"
	"github.com/xeniter/romygo/internal/eventbus"
)

// StatusQuerier is the part of the robot client the watcher polls.
type StatusQuerier interface {
	Status(ctx context.Context) (model.Status, error)
	Info() model.RobotInfo
}

// Options wires the watcher outputs. Nil fields are skipped.
type Options struct {
	Bus     eventbus.EventBus
	Store   robotstatus.Store
	History history.LogStore
	Sink    coremetrics.Sink
}

// Watcher polls one robot. All poll state lives in the Start goroutine.
type Watcher struct {
	cli      StatusQuerier
	interval time.Duration
	opts     Options
	rssi     *model.RSSIWindow
	statuses *eventbus.TypedBus[model.Status]
	log      logger.Logger

	prev      model.Status
	havePrev  bool
	reachable bool
	haveConn  bool
}

// New creates a watcher around the client. Start must be called to begin
// polling.
func New(cli StatusQuerier, cfg config.WatcherConfig, opts Options) *Watcher {
	return &Watcher{
		cli:      cli,
		interval: cfg.Interval(),
		opts:     opts,
		rssi:     model.NewRSSIWindow(cfg.RSSIWindow()),
		statuses: eventbus.NewTyped[model.Status](),
		log:      logger.New("watcher"),
	}
}

// Start polls until the context is canceled. The first refresh runs
// immediately, later ones on the configured interval.
func (w *Watcher) Start(ctx context.Context) {
	w.log.Infof("watching %s every %s", w.cli.Info().UniqueID, w.interval)
	w.poll(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.poll(ctx)
		case <-ctx.Done():
			w.statuses.Close()
			return
		}
	}
}

// Statuses returns a channel receiving one snapshot per successful poll.
func (w *Watcher) Statuses() <-chan model.Status { return w.statuses.Subscribe() }

// UnsubscribeStatuses releases a channel obtained from Statuses.
func (w *Watcher) UnsubscribeStatuses(ch <-chan model.Status) { w.statuses.Unsubscribe(ch) }

func (w *Watcher) poll(ctx context.Context) {
	st, err := w.cli.Status(ctx)
	now := time.Now()
	if err != nil {
		w.setReachable(ctx, false, err, now)
		return
	}
	w.setReachable(ctx, true, nil, now)

	info := w.cli.Info()
	id := info.UniqueID
	if st.RSSI != 0 {
		w.rssi.Add(st.RSSI)
	}

	if w.havePrev {
		w.diff(ctx, id, w.prev, st, now)
	}
	w.prev = st
	w.havePrev = true

	if w.opts.Store != nil {
		entry, _ := w.opts.Store.Get(id)
		entry.RobotID = id
		entry.Info = info
		entry.State = st
		entry.Reachable = true
		entry.LastSeen = now
		entry.RSSIMean = w.rssi.Mean()
		w.opts.Store.Set(entry)
	}
	w.publish(events.StatusUpdated{RobotID: id, Status: st})
	w.statuses.Publish(st)

	if w.opts.Sink != nil {
		ev := coremetrics.StatusEvent{Info: info, Status: st, RSSIMean: w.rssi.Mean(), Time: now}
		if err := w.opts.Sink.RecordStatus(ev); err != nil {
			w.log.Errorf("record status: %v", err)
		}
	}
}

func (w *Watcher) diff(ctx context.Context, id string, prev, cur model.Status, now time.Time) {
	if prev.Mode != cur.Mode {
		w.log.Infof("robot %s switched %s -> %s", id, prev.Mode, cur.Mode)
		w.publish(events.StateChanged{RobotID: id, From: prev.Mode, To: cur.Mode, Time: now})
		w.append(ctx, history.LogRecord{
			Timestamp:    now,
			RobotID:      id,
			Event:        history.EventStateChanged,
			From:         prev.Mode.String(),
			To:           cur.Mode.String(),
			BatteryLevel: cur.BatteryLevel,
			Statistics:   cur.Statistics,
		})
	}
	if prev.BatteryLevel != cur.BatteryLevel {
		w.publish(events.BatteryChanged{RobotID: id, From: prev.BatteryLevel, To: cur.BatteryLevel})
		w.append(ctx, history.LogRecord{
			Timestamp:    now,
			RobotID:      id,
			Event:        history.EventBatteryChanged,
			From:         strconv.Itoa(prev.BatteryLevel),
			To:           strconv.Itoa(cur.BatteryLevel),
			BatteryLevel: cur.BatteryLevel,
			Statistics:   cur.Statistics,
		})
	}
	if prev.ErrorCode == 0 && cur.ErrorCode != 0 {
		w.log.Warnf("robot %s reports error code %d", id, cur.ErrorCode)
		w.publish(events.DeviceError{RobotID: id, Code: cur.ErrorCode, Mode: cur.Mode, Time: now})
		w.append(ctx, history.LogRecord{
			Timestamp:    now,
			RobotID:      id,
			Event:        history.EventDeviceError,
			ErrorCode:    cur.ErrorCode,
			BatteryLevel: cur.BatteryLevel,
			Statistics:   cur.Statistics,
		})
	}
}

func (w *Watcher) setReachable(ctx context.Context, ok bool, cause error, now time.Time) {
	id := w.cli.Info().UniqueID
	if !ok && w.opts.Store != nil {
		// keep the last snapshot but flag it stale
		entry, _ := w.opts.Store.Get(id)
		entry.RobotID = id
		if entry.Info.UniqueID == "" {
			entry.Info = w.cli.Info()
		}
		entry.Reachable = false
		w.opts.Store.Set(entry)
	}
	if !w.haveConn {
		// initial state, transitions are reported from here on
		w.haveConn = true
		w.reachable = ok
		return
	}
	if w.reachable == ok {
		return
	}
	w.reachable = ok
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	if ok {
		w.log.Infof("robot %s reachable again", id)
	} else {
		w.log.Warnf("robot %s unreachable: %v", id, cause)
	}
	w.publish(events.ConnectivityChanged{RobotID: id, Reachable: ok, Err: detail, Time: now})
	w.append(ctx, history.LogRecord{
		Timestamp:    now,
		RobotID:      id,
		Event:        history.EventConnectivity,
		Reachable:    ok,
		Detail:       detail,
		BatteryLevel: w.prev.BatteryLevel,
		Statistics:   w.prev.Statistics,
	})
}

func (w *Watcher) publish(ev eventbus.Event) {
	if w.opts.Bus != nil {
		w.opts.Bus.Publish(ev)
	}
}

func (w *Watcher) append(ctx context.Context, rec history.LogRecord) {
	if w.opts.History == nil {
		return
	}
	if err := w.opts.History.Append(ctx, rec); err != nil {
		w.log.Errorf("history append: %v", err)
		monitoring.CaptureException(err, monitoring.Tags("watcher", rec.RobotID))
	}
}
