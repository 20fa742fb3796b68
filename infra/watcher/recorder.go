package watcher

import (
	"context"

	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/core/history"
	"github.com/xeniter/romygo/core/monitoring"
	"github.com/xeniter/romygo/core/robotstatus"
	"github.com/xeniter/romygo/infra/logger"
	"github.com/xeniter/romygo/internal/eventbus"
)

// StartCommandRecorder subscribes to the event bus and persists issued
// commands into the status store and the run history. It stops when the
// context is canceled.
func StartCommandRecorder(ctx context.Context, bus eventbus.EventBus, store robotstatus.Store, hist history.LogStore) {
	if bus == nil || (store == nil && hist == nil) {
		return
	}
	log := logger.New("command-recorder")
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
				cmd, ok := ev.(events.CommandIssued)
				if !ok {
					continue
				}
				if store != nil {
					store.RecordCommand(cmd.RobotID, robotstatus.LastCommand{
						Command:   cmd.Command,
						Parameter: cmd.Parameter,
						OK:        cmd.OK,
						Timestamp: cmd.Time,
					})
				}
				if hist != nil {
					rec := history.LogRecord{
						Timestamp: cmd.Time,
						RobotID:   cmd.RobotID,
						Event:     history.EventCommand,
						Command:   cmd.Command,
						Parameter: cmd.Parameter,
						OK:        cmd.OK,
						Detail:    cmd.Err,
					}
					if err := hist.Append(ctx, rec); err != nil {
						log.Errorf("history append: %v", err)
						monitoring.CaptureException(err, monitoring.Tags("command-recorder", cmd.RobotID))
					}
				}
			}
		}
	}()
}
