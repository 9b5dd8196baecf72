package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifier_DeliversToSubscribers(t *testing.T) {
	n := NewNotifier()

	var got []Event
	n.Subscribe(func(ev Event) { got = append(got, ev) })

	n.Notify(Foreground)
	n.Notify(Background)

	require.Equal(t, []Event{Foreground, Background}, got)
}

func TestNotifier_DeliversInRegistrationOrder(t *testing.T) {
	n := NewNotifier()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		n.Subscribe(func(Event) { got = append(got, i) })
	}

	n.Notify(Foreground)

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestNotifier_UnsubscribeStopsDelivery(t *testing.T) {
	n := NewNotifier()

	var count int
	unsub := n.Subscribe(func(Event) { count++ })

	n.Notify(Foreground)
	unsub()
	n.Notify(Background)

	require.Equal(t, 1, count)
}

func TestNotifier_NotifyWithoutSubscribers(t *testing.T) {
	n := NewNotifier()
	require.NotPanics(t, func() { n.Notify(Foreground) })
}
