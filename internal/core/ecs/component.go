package ecs

import "sort"

// Removable is implemented by all tables so the Registry can bulk-remove an
// entity's data on destroy.
type Removable interface {
	Remove(id ObjectID)
}

// Table is a generic typed store keyed by ObjectID. Iteration is always in
// ascending id order so listener notifications are deterministic.
type Table[T any] struct {
	data map[ObjectID]*T
	ids  []ObjectID
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{
		data: make(map[ObjectID]*T, 256),
		ids:  make([]ObjectID, 0, 256),
	}
}

// Set stores c under id, replacing any existing value.
func (t *Table[T]) Set(id ObjectID, c *T) {
	if _, ok := t.data[id]; !ok {
		t.insertID(id)
	}
	t.data[id] = c
}

func (t *Table[T]) insertID(id ObjectID) {
	n := len(t.ids)
	if n == 0 || t.ids[n-1] < id {
		t.ids = append(t.ids, id)
		return
	}
	i := sort.Search(n, func(i int) bool { return t.ids[i] >= id })
	t.ids = append(t.ids, 0)
	copy(t.ids[i+1:], t.ids[i:])
	t.ids[i] = id
}

func (t *Table[T]) Get(id ObjectID) (*T, bool) {
	c, ok := t.data[id]
	return c, ok
}

func (t *Table[T]) Remove(id ObjectID) {
	if _, ok := t.data[id]; !ok {
		return
	}
	delete(t.data, id)
	i := sort.Search(len(t.ids), func(i int) bool { return t.ids[i] >= id })
	if i < len(t.ids) && t.ids[i] == id {
		t.ids = append(t.ids[:i], t.ids[i+1:]...)
	}
}

func (t *Table[T]) Has(id ObjectID) bool {
	_, ok := t.data[id]
	return ok
}

func (t *Table[T]) Len() int {
	return len(t.data)
}

// IDs returns a copy of the stored ids in ascending order.
func (t *Table[T]) IDs() []ObjectID {
	out := make([]ObjectID, len(t.ids))
	copy(out, t.ids)
	return out
}

// Each visits every entry in ascending id order. fn may remove the entry it
// is visiting.
func (t *Table[T]) Each(fn func(ObjectID, *T)) {
	for _, id := range t.IDs() {
		if c, ok := t.data[id]; ok {
			fn(id, c)
		}
	}
}

// Clear drops every entry.
func (t *Table[T]) Clear() {
	clear(t.data)
	t.ids = t.ids[:0]
}
