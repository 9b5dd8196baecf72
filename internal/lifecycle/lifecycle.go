// Package lifecycle provides an explicit foreground/background notifier owned
// by the composition root. Components subscribe to it instead of hooking a
// process-wide observer, which keeps transitions simulable in tests.
package lifecycle

import (
	"sort"
	"sync"
)

// Event is an application lifecycle transition.
type Event string

const (
	Foreground Event = "foreground"
	Background Event = "background"
)

// Notifier fans lifecycle events out to subscribers in registration order.
// The zero value is unusable; use NewNotifier.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify delivers ev to every subscriber. Delivery is synchronous; a slow
// subscriber delays the rest.
func (n *Notifier) Notify(ev Event) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), len(ids))
	for i, id := range ids {
		fns[i] = n.subs[id]
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
