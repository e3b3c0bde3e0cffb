package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pinged struct{ N int }
type ponged struct{}

func TestBusRoutesByType(t *testing.T) {
	bus := NewBus()
	got := make(chan interface{}, 2)
	bus.Subscribe(TypeOf(pinged{}), func(e interface{}) { got <- e })

	bus.Publish(ponged{})
	bus.Publish(pinged{N: 7})

	select {
	case e := <-got:
		assert.Equal(t, pinged{N: 7}, e)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case e := <-got:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNullBus(t *testing.T) {
	var bus EventBus = &NullBus{}
	bus.Subscribe(TypeOf(pinged{}), func(interface{}) { t.Fatal("called") })
	bus.Publish(pinged{})
}
