package store

import (
	"github.com/simdata/simstore/internal/core/event"
	"github.com/simdata/simstore/internal/simdata"
)

// Listener receives lifecycle and change notifications. Callbacks run
// synchronously on the goroutine that committed, released or updated. A
// listener may add or remove listeners, itself included, from a callback.
type Listener interface {
	OnAddEntity(s *MemoryStore, id simdata.ObjectID, t simdata.ObjectType)
	// OnRemoveEntity runs before the entity is deleted.
	OnRemoveEntity(s *MemoryStore, id simdata.ObjectID, t simdata.ObjectType)
	OnPostRemoveEntity(s *MemoryStore, id simdata.ObjectID, t simdata.ObjectType)
	OnPrefsChange(s *MemoryStore, id simdata.ObjectID)
	OnPropertiesChange(s *MemoryStore, id simdata.ObjectID)
	OnNameChange(s *MemoryStore, id simdata.ObjectID)
	OnCategoryDataChange(s *MemoryStore, id simdata.ObjectID, t simdata.ObjectType)
	// OnChange runs once at the end of every Update that was not skipped.
	OnChange(s *MemoryStore)
	OnFlush(s *MemoryStore, id simdata.ObjectID)
	OnScenarioDelete(s *MemoryStore)
}

// NopListener implements Listener with empty callbacks. Embed it to
// implement only the callbacks of interest.
type NopListener struct{}

func (NopListener) OnAddEntity(*MemoryStore, simdata.ObjectID, simdata.ObjectType)          {}
func (NopListener) OnRemoveEntity(*MemoryStore, simdata.ObjectID, simdata.ObjectType)       {}
func (NopListener) OnPostRemoveEntity(*MemoryStore, simdata.ObjectID, simdata.ObjectType)   {}
func (NopListener) OnPrefsChange(*MemoryStore, simdata.ObjectID)                            {}
func (NopListener) OnPropertiesChange(*MemoryStore, simdata.ObjectID)                       {}
func (NopListener) OnNameChange(*MemoryStore, simdata.ObjectID)                             {}
func (NopListener) OnCategoryDataChange(*MemoryStore, simdata.ObjectID, simdata.ObjectType) {}
func (NopListener) OnChange(*MemoryStore)                                                   {}
func (NopListener) OnFlush(*MemoryStore, simdata.ObjectID)                                  {}
func (NopListener) OnScenarioDelete(*MemoryStore)                                           {}

// Events published on the bus returned by Events.
type (
	EntityAdded struct {
		ID   simdata.ObjectID
		Type simdata.ObjectType
	}
	EntityRemoved struct {
		ID   simdata.ObjectID
		Type simdata.ObjectType
	}
	EntityPostRemoved struct {
		ID   simdata.ObjectID
		Type simdata.ObjectType
	}

	PrefsChanged      struct{ ID simdata.ObjectID }
	PropertiesChanged struct{ ID simdata.ObjectID }
	NameChanged       struct{ ID simdata.ObjectID }

	CategoryDataChanged struct {
		ID   simdata.ObjectID
		Type simdata.ObjectType
	}

	Changed         struct{}
	Flushed         struct{ ID simdata.ObjectID }
	ScenarioDeleted struct{}
)

// bridgeListeners forwards bus events to the listener list. The bridge
// subscribes first, so listeners run before other bus subscribers.
func (s *MemoryStore) bridgeListeners() {
	each := s.listeners.Each
	event.Subscribe(s.bus, func(e EntityAdded) {
		each(func(l Listener) { l.OnAddEntity(s, e.ID, e.Type) })
	})
	event.Subscribe(s.bus, func(e EntityRemoved) {
		each(func(l Listener) { l.OnRemoveEntity(s, e.ID, e.Type) })
	})
	event.Subscribe(s.bus, func(e EntityPostRemoved) {
		each(func(l Listener) { l.OnPostRemoveEntity(s, e.ID, e.Type) })
	})
	event.Subscribe(s.bus, func(e PrefsChanged) {
		each(func(l Listener) { l.OnPrefsChange(s, e.ID) })
	})
	event.Subscribe(s.bus, func(e PropertiesChanged) {
		each(func(l Listener) { l.OnPropertiesChange(s, e.ID) })
	})
	event.Subscribe(s.bus, func(e NameChanged) {
		each(func(l Listener) { l.OnNameChange(s, e.ID) })
	})
	event.Subscribe(s.bus, func(e CategoryDataChanged) {
		each(func(l Listener) { l.OnCategoryDataChange(s, e.ID, e.Type) })
	})
	event.Subscribe(s.bus, func(Changed) {
		each(func(l Listener) { l.OnChange(s) })
	})
	event.Subscribe(s.bus, func(e Flushed) {
		each(func(l Listener) { l.OnFlush(s, e.ID) })
	})
	event.Subscribe(s.bus, func(ScenarioDeleted) {
		each(func(l Listener) { l.OnScenarioDelete(s) })
	})
}
