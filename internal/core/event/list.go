package event

import (
	"fmt"
	"reflect"
)

// List is an ordered set of listeners. Each iterates over a snapshot, so a
// callback may add or remove listeners (itself included) without corrupting
// the iteration; a listener removed mid-iteration is not called afterwards.
//
// Listeners are matched with ==. When L is an interface the dynamic type
// must be comparable too, so register pointers; Add panics otherwise.
type List[L comparable] struct {
	items []L
}

// Add appends l unless it is already present.
func (l *List[L]) Add(item L) {
	if t := reflect.TypeOf(item); t != nil && !t.Comparable() {
		panic(fmt.Sprintf("event: listener type %s is not comparable", t))
	}
	if l.contains(item) {
		return
	}
	l.items = append(l.items, item)
}

// Remove drops item and reports whether it was present.
func (l *List[L]) Remove(item L) bool {
	for i, x := range l.items {
		if x == item {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l *List[L]) Len() int { return len(l.items) }

// Clear drops every listener.
func (l *List[L]) Clear() { l.items = nil }

// Each calls fn for every listener present when the call started and still
// present when its turn comes.
func (l *List[L]) Each(fn func(L)) {
	if len(l.items) == 0 {
		return
	}
	snapshot := append([]L(nil), l.items...)
	for _, item := range snapshot {
		if !l.contains(item) {
			continue
		}
		fn(item)
	}
}

func (l *List[L]) contains(item L) bool {
	for _, x := range l.items {
		if x == item {
			return true
		}
	}
	return false
}
