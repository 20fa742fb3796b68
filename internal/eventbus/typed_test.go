package eventbus

import (
	"testing"

	"github.com/xeniter/romygo/core/model"
)

func TestTypedBusStatusStream(t *testing.T) {
	bus := NewTyped[model.Status]()
	ch := bus.Subscribe()
	defer bus.Close()

	bus.Publish(model.Status{Mode: model.ModeCleaning, BatteryLevel: 72})

	st := <-ch
	if st.Mode != model.ModeCleaning || st.BatteryLevel != 72 {
		t.Fatalf("unexpected snapshot %+v", st)
	}
	bus.Unsubscribe(ch)
}

func TestTypedBusDropsWhenFull(t *testing.T) {
	bus := NewTyped[model.Status]()
	slow := bus.Subscribe()
	defer bus.Close()

	for i := 0; i <= subscriberBuffer; i++ {
		bus.Publish(model.Status{BatteryLevel: i})
	}

	received := 0
	for {
		select {
		case <-slow:
			received++
		default:
			if received != subscriberBuffer {
				t.Fatalf("expected %d buffered snapshots, got %d", subscriberBuffer, received)
			}
			return
		}
	}
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[model.Status]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[model.Status]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
