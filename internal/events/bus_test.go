package events_test

import (
	"testing"

	"ktmobile/internal/events"

	"github.com/stretchr/testify/assert"
)

func TestBus_SubscribePublishUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	var got []string

	unA := bus.Subscribe(func(ev events.Event) { got = append(got, "a:"+ev.Reason) })
	bus.Subscribe(func(ev events.Event) { got = append(got, "b:"+ev.Reason) })
	assert.Equal(t, 2, bus.Len())

	bus.Publish(events.Event{Kind: events.CatalogChanged, Reason: "import"})
	assert.Equal(t, []string{"a:import", "b:import"}, got)

	unA()
	unA()
	assert.Equal(t, 1, bus.Len())

	got = nil
	bus.Publish(events.Event{Kind: events.CatalogChanged, Reason: "edit"})
	assert.Equal(t, []string{"b:edit"}, got)
}

func TestBus_StampsTime(t *testing.T) {
	bus := events.NewBus()
	var ev events.Event
	bus.Subscribe(func(e events.Event) { ev = e })
	bus.Publish(events.Event{Kind: events.CatalogChanged})
	assert.False(t, ev.At.IsZero())
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *events.Bus
	assert.NotPanics(t, func() { bus.Publish(events.Event{}) })
}
