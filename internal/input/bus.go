// Package input models page-wide listeners (keyboard, click, visibility) as
// explicit subscriptions that are always released.
package input

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Kind is the event type a handler subscribes to.
type Kind string

const (
	KeyDown          Kind = "keydown"
	Click            Kind = "click"
	VisibilityChange Kind = "visibilitychange"
)

// Well-known key names.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEscape     = "Escape"
)

// TargetSearch marks a click that landed inside the search region.
const TargetSearch = "search"

// Event is one page-level input event.
type Event struct {
	Kind   Kind   `json:"kind"`
	Key    string `json:"key,omitempty"`
	Target string `json:"target,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Handler receives dispatched events.
type Handler func(Event)

// Bus fans events out to subscriptions. Handlers are invoked without the bus
// lock held, so a handler may subscribe or close subscriptions.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Kind]map[uint64]*Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Kind]map[uint64]*Subscription)}
}

// Subscription is a live listener registration.
type Subscription struct {
	bus     *Bus
	kind    Kind
	id      uint64
	handler Handler
	closed  atomic.Bool
}

// Subscribe registers h for events of kind. The caller owns the returned
// subscription and must Close it.
func (b *Bus) Subscribe(kind Kind, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s := &Subscription{bus: b, kind: kind, id: b.nextID, handler: h}
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[uint64]*Subscription)
	}
	b.subs[kind][s.id] = s
	return s
}

// Close unregisters the subscription. Dispatches that start after Close, and
// later targets of a Dispatch running on the same goroutine, skip the handler.
// A Dispatch on another goroutine that already passed its closed check may
// still call it once, so handlers guard their own teardown state. Close does
// not wait for running handlers and is safe to call from inside one. Close is
// idempotent.
func (s *Subscription) Close() {
	if s.closed.Swap(true) {
		return
	}
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[s.kind], s.id)
	if len(b.subs[s.kind]) == 0 {
		delete(b.subs, s.kind)
	}
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return !s.closed.Load()
}

// Dispatch delivers ev to every live subscription of its kind in subscription
// order and returns how many handlers ran.
func (b *Bus) Dispatch(ev Event) int {
	b.mu.Lock()
	targets := make([]*Subscription, 0, len(b.subs[ev.Kind]))
	for _, s := range b.subs[ev.Kind] {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	delivered := 0
	for _, s := range targets {
		if s.closed.Load() {
			continue
		}
		s.handler(ev)
		delivered++
	}
	return delivered
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, m := range b.subs {
		n += len(m)
	}
	return n
}

// Group collects subscriptions that share a lifetime.
type Group struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add tracks s and returns it.
func (g *Group) Add(s *Subscription) *Subscription {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, s)
	return s
}

// Close releases every tracked subscription.
func (g *Group) Close() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()
	for _, s := range subs {
		s.Close()
	}
}
