package event

import (
	"reflect"
	"sync"
)

// Bus is a typed event bus. Events emitted with Emit are queued into the
// back buffer and delivered by DispatchAll; Publish delivers immediately.
// Handlers run on the caller's goroutine.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []queued
	back     []queued
	handlers map[reflect.Type][]*handler
}

type queued struct {
	t  reflect.Type
	ev any
}

type handler struct {
	call    func(any)
	removed bool
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]*handler),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event; it is delivered on the next DispatchAll.
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, queued{t: typeKey[T](), ev: event})
}

// Publish delivers an event to the current subscribers right away.
func Publish[T any](b *Bus, event T) {
	b.deliver(typeKey[T](), event)
}

// Subscribe registers a typed handler for events of type T and returns a
// function that unregisters it. A handler unregistered while a dispatch is
// in flight is not called again by that dispatch.
func Subscribe[T any](b *Bus, fn func(T)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeKey[T]()
	h := &handler{call: func(ev any) { fn(ev.(T)) }}
	b.handlers[t] = append(b.handlers[t], h)
	return func() { b.unsubscribe(t, h) }
}

func (b *Bus) unsubscribe(t reflect.Type, h *handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h.removed = true
	hs := b.handlers[t]
	for i, x := range hs {
		if x == h {
			b.handlers[t] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued, undelivered events.
func (b *Bus) Pending() int { return len(b.back) }

// Discard drops every queued event.
func (b *Bus) Discard() { b.back = b.back[:0] }

// DispatchAll swaps buffers and delivers queued events in emission order.
// Events emitted by handlers during delivery are delivered in the same call.
func (b *Bus) DispatchAll() {
	for len(b.back) > 0 {
		b.front, b.back = b.back, b.front[:0]
		for i, q := range b.front {
			b.deliver(q.t, q.ev)
			b.front[i] = queued{}
		}
	}
	b.front = b.front[:0]
}

func (b *Bus) deliver(t reflect.Type, ev any) {
	b.mu.Lock()
	hs := append([]*handler(nil), b.handlers[t]...)
	b.mu.Unlock()
	for _, h := range hs {
		if h.removed {
			continue
		}
		h.call(ev)
	}
}
