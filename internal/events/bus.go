// Package events carries change notifications from the data layer to
// whatever front end is rendering it, so the core never calls back into
// UI code directly.
package events

import "sync"

// Kind identifies what changed.
type Kind int

const (
	TrackersChanged Kind = iota
	RecordsChanged
	SettingsChanged
)

// Event is a data-changed notification.
type Event struct {
	Kind Kind
}

// Bus is a minimal synchronous publish/subscribe hub. Handlers run on the
// publishing goroutine; all publishing here happens on the single
// UI-driving goroutine, so no delivery ordering issues arise.
type Bus struct {
	mu       sync.Mutex
	handlers []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

// Publish delivers the event to every subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	handlers := make([]func(Event), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
