package events

import "testing"

func TestPublishSynchronousAndOrdered(t *testing.T) {
	bus := NewBus()
	var order []int

	bus.Subscribe("topic", func(payload any) { order = append(order, 1) })
	bus.Subscribe("topic", func(payload any) { order = append(order, 2) })

	bus.Publish("topic", nil)

	// Publish must return only after every listener has run, and in
	// registration order, since nothing downstream spawns a goroutine.
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("listener order = %v, want [1 2]", order)
	}
}

func TestPublishUnknownTopicIsNoOp(t *testing.T) {
	bus := NewBus()
	bus.Publish("nothing-subscribed", struct{}{})
}

func TestNilBusPublishIsNoOp(t *testing.T) {
	var bus *Bus
	bus.Publish("topic", nil)
}

func TestPublishDeliversPayload(t *testing.T) {
	bus := NewBus()
	var got NewExecutionReceipt
	bus.Subscribe(NewExecutionReceiptTopic, func(payload any) {
		got = payload.(NewExecutionReceipt)
	})

	bus.Publish(NewExecutionReceiptTopic, NewExecutionReceipt{PrimaryNumber: 7})

	if got.PrimaryNumber != 7 {
		t.Fatalf("got.PrimaryNumber = %d, want 7", got.PrimaryNumber)
	}
}
