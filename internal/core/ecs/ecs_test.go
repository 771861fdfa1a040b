package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDPoolNeverReuses(t *testing.T) {
	p := NewIDPool()
	a := p.Create()
	b := p.Create()
	assert.Equal(t, ObjectID(1), a)
	assert.Equal(t, ObjectID(2), b)

	p.Destroy(a)
	assert.False(t, p.Alive(a))
	assert.True(t, p.Alive(b))

	c := p.Create()
	assert.Equal(t, ObjectID(3), c)

	p.Reset()
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, ObjectID(4), p.Create())
}

func TestTableOrderedIteration(t *testing.T) {
	tab := NewTable[string]()
	for _, id := range []ObjectID{5, 1, 9, 3} {
		v := "v"
		tab.Set(id, &v)
	}
	assert.Equal(t, []ObjectID{1, 3, 5, 9}, tab.IDs())

	tab.Remove(3)
	tab.Remove(42)
	assert.Equal(t, []ObjectID{1, 5, 9}, tab.IDs())
	assert.Equal(t, 3, tab.Len())

	var seen []ObjectID
	tab.Each(func(id ObjectID, _ *string) {
		seen = append(seen, id)
		tab.Remove(id)
	})
	assert.Equal(t, []ObjectID{1, 5, 9}, seen)
	assert.Equal(t, 0, tab.Len())
}

func TestTableReplaceKeepsSingleID(t *testing.T) {
	tab := NewTable[int]()
	a, b := 1, 2
	tab.Set(7, &a)
	tab.Set(7, &b)
	require.Equal(t, 1, tab.Len())
	got, ok := tab.Get(7)
	require.True(t, ok)
	assert.Equal(t, 2, *got)
}

func TestWorldDestroyClearsRegisteredTables(t *testing.T) {
	w := NewWorld()
	names := NewTable[string]()
	w.Registry().Register(names)

	id := w.CreateEntity()
	n := "alpha"
	names.Set(id, &n)

	w.Destroy(id)
	assert.False(t, w.Alive(id))
	assert.False(t, names.Has(id))
}
