package client

import (
	"reflect"
	"sync"

	"github.com/kbukum/eventsource/sse"
)

// Handler receives dispatched events.
type Handler func(sse.Event)

// registry maps event-type names to ordered handler lists, plus one
// distinguished default slot per reserved type (open, message, error).
type registry struct {
	mu        sync.Mutex
	listeners map[string][]Handler
	defaults  map[string]Handler
}

func newRegistry() *registry {
	return &registry{
		listeners: make(map[string][]Handler),
		defaults:  make(map[string]Handler),
	}
}

// add appends a handler to the ordered list for eventType.
func (r *registry) add(eventType string, h Handler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[eventType] = append(r.listeners[eventType], h)
}

// remove deletes the first handler registered for eventType that is the
// same function as h. Function identity is compared by code pointer, so
// the caller must pass the same value it registered.
func (r *registry) remove(eventType string, h Handler) {
	if h == nil {
		return
	}
	target := reflect.ValueOf(h).Pointer()
	r.mu.Lock()
	defer r.mu.Unlock()
	hs := r.listeners[eventType]
	for i, existing := range hs {
		if reflect.ValueOf(existing).Pointer() == target {
			r.listeners[eventType] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}

// setDefault installs the reserved default slot for one of the reserved
// types. A nil handler clears the slot.
func (r *registry) setDefault(eventType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		delete(r.defaults, eventType)
		return
	}
	r.defaults[eventType] = h
}

// dispatch invokes the default slot for the record's type (if set) followed
// by the ordered handler list, passing the record to each. The returned
// bool is always false: records are non-cancelable, so "was cancelled" can
// never be true. Handlers run outside the registry lock, so they may
// subscribe, unsubscribe or close from within a callback.
func (r *registry) dispatch(ev sse.Event) bool {
	r.mu.Lock()
	def := r.defaults[ev.Type]
	hs := append([]Handler(nil), r.listeners[ev.Type]...)
	r.mu.Unlock()

	if def != nil {
		def(ev)
	}
	for _, h := range hs {
		h(ev)
	}
	return false
}
