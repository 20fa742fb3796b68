package eventbus

import (
	"testing"
	"time"

	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/core/model"
)

func TestBusFanOut(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	defer bus.Close()

	bus.Publish(events.StateChanged{
		RobotID: "robot-1",
		From:    model.ModeDocked,
		To:      model.ModeCleaning,
		Time:    time.Now(),
	})

	for _, ch := range []<-chan Event{ch1, ch2} {
		evt, ok := (<-ch).(events.StateChanged)
		if !ok {
			t.Fatalf("expected StateChanged, got %T", evt)
		}
		if evt.To != model.ModeCleaning {
			t.Fatalf("expected cleaning, got %v", evt.To)
		}
	}
}

func TestBusDropsSlowSubscriber(t *testing.T) {
	bus := New()
	slow := bus.Subscribe()
	defer bus.Close()

	// One more event than the buffer holds. Publish must not block and the
	// overflow event is lost for the slow subscriber.
	for i := 0; i <= subscriberBuffer; i++ {
		bus.Publish(events.CommandIssued{RobotID: "robot-1", Command: "stop", OK: true})
	}

	received := 0
	for {
		select {
		case <-slow:
			received++
		default:
			if received != subscriberBuffer {
				t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, received)
			}
			return
		}
	}
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	// Publishing and subscribing after Close must be harmless.
	bus.Publish(events.BatteryChanged{RobotID: "robot-1", From: 90, To: 89})
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("expected closed channel from Subscribe after Close")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	defer bus.Close()

	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after Unsubscribe")
	}
	bus.Publish(events.DeviceError{RobotID: "robot-1", Code: 13})
}
