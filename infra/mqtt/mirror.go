package mqtt

import (
	"context"

	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/core/history"
	coremqtt "github.com/xeniter/romygo/core/mqtt"
	"github.com/xeniter/romygo/internal/eventbus"
)

// StartEventMirror subscribes to the event bus and forwards robot state to
// the publisher. Event names on the wire match the run history vocabulary.
// Publish errors are logged by the publisher itself. Stops when the context
// is canceled.
func StartEventMirror(ctx context.Context, bus eventbus.EventBus, pub coremqtt.Publisher) {
	if bus == nil || pub == nil {
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
				case events.StatusUpdated:
					_ = pub.PublishStatus(e.Status)
				case events.StateChanged:
					_ = pub.PublishEvent(history.EventStateChanged, e)
				case events.BatteryChanged:
					_ = pub.PublishEvent(history.EventBatteryChanged, e)
				case events.DeviceError:
					_ = pub.PublishEvent(history.EventDeviceError, e)
				case events.ConnectivityChanged:
					_ = pub.PublishEvent(history.EventConnectivity, e)
					_ = pub.PublishAvailability(e.Reachable)
				case events.CommandIssued:
					_ = pub.PublishEvent(history.EventCommand, e)
				}
			}
		}
	}()
}
