package metrics

import (
	"context"

	"github.com/xeniter/romygo/core/events"
	coremetrics "github.com/xeniter/romygo/core/metrics"
	"github.com/xeniter/romygo/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records command and
// connectivity events on the sink. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.CommandIssued:
					if r, ok := sink.(coremetrics.CommandRecorder); ok {
						_ = r.RecordCommand(coremetrics.CommandEvent{
							RobotID:   e.RobotID,
							Command:   e.Command,
							Parameter: e.Parameter,
							OK:        e.OK,
							Error:     e.Err,
							Latency:   e.Latency,
							Time:      e.Time,
						})
					}
				case events.ConnectivityChanged:
					if r, ok := sink.(coremetrics.ConnectivityRecorder); ok {
						_ = r.RecordConnectivity(coremetrics.ConnectivityEvent{
							RobotID:   e.RobotID,
							Reachable: e.Reachable,
							Time:      e.Time,
						})
					}
				}
			}
		}
	}()
}
