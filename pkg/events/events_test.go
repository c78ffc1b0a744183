package events_test

import (
	"testing"

	"github.com/stillmatic/bobaline/pkg/events"
)

func TestPublishFanout(t *testing.T) {
	bus := events.NewBus()
	id1, ch1 := bus.Subscribe()
	id2, ch2 := bus.Subscribe()
	defer bus.Unsubscribe(id1)
	defer bus.Unsubscribe(id2)

	e := events.Event{Type: events.TypeOrderCreated, OrderNumber: "1234", Status: "received"}
	bus.Publish(e)

	for _, ch := range []<-chan events.Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got != e {
				t.Fatalf("received %+v, want %+v", got, e)
			}
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := events.NewBus()
	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	// overflow the subscriber buffer; Publish must not block
	for i := 0; i < 500; i++ {
		bus.Publish(events.Event{Type: events.TypeOrderStatusChanged})
	}
	if len(ch) == 0 {
		t.Fatal("no events buffered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := events.NewBus()
	id, ch := bus.Subscribe()
	bus.Unsubscribe(id)
	if _, ok := <-ch; ok {
		t.Fatal("channel still open after unsubscribe")
	}
	// double unsubscribe is a no-op
	bus.Unsubscribe(id)
}
