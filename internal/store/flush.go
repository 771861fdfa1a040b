package store

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/core/event"
	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/slice"
)

// FlushScope selects whether a flush descends into child entities.
type FlushScope int

const (
	FlushNonRecursive FlushScope = iota
	FlushRecursive
)

// FlushFields selects the data a flush erases.
type FlushFields uint32

const (
	FlushUpdates FlushFields = 1 << iota
	FlushCommands
	FlushCategoryData
	FlushGenericData
	FlushDataTables
	// FlushExcludeMinusOne keeps static (time -1) records.
	FlushExcludeMinusOne

	FlushAll = FlushUpdates | FlushCommands | FlushCategoryData | FlushGenericData | FlushDataTables
)

// flushSpan is the time range of a flush. A full flush has no range.
type flushSpan struct {
	ranged     bool
	start, end float64
	keepStatic bool
}

// Flush erases the selected data of id, and of its descendants when scope
// is FlushRecursive. Id 0 flushes the whole scenario.
func (s *MemoryStore) Flush(id simdata.ObjectID, scope FlushScope, fields FlushFields) error {
	return s.flush(id, scope, fields, flushSpan{keepStatic: fields&FlushExcludeMinusOne != 0})
}

// FlushRange is Flush limited to records with start <= time < end.
func (s *MemoryStore) FlushRange(id simdata.ObjectID, scope FlushScope, fields FlushFields, start, end float64) error {
	span := flushSpan{ranged: true, start: start, end: end, keepStatic: fields&FlushExcludeMinusOne != 0}
	if span.keepStatic && span.start <= simdata.StaticTime {
		span.start = math.Nextafter(simdata.StaticTime, math.Inf(1))
	}
	return s.flush(id, scope, fields, span)
}

func (s *MemoryStore) flush(id simdata.ObjectID, scope FlushScope, fields FlushFields, span flushSpan) error {
	if id == 0 {
		s.flushScenario(fields, span)
		for _, child := range s.nodes.IDs() {
			s.flushEntity(child, fields, span)
		}
		event.Publish(s.bus, Flushed{ID: 0})
	} else {
		if !s.nodes.Has(id) {
			return fmt.Errorf("flush %d: %w", id, ErrNotFound)
		}
		ids := []simdata.ObjectID{id}
		if scope == FlushRecursive {
			ids = append(ids, s.descendants(id)...)
		}
		for _, x := range ids {
			s.flushEntity(x, fields, span)
		}
		for _, x := range ids {
			event.Publish(s.bus, Flushed{ID: x})
		}
	}
	s.bounds.invalidate()
	s.changed = true
	s.log.Debug("flush",
		zap.Uint64("id", uint64(id)),
		zap.Bool("recursive", scope == FlushRecursive),
		zap.Uint32("fields", uint32(fields)),
		zap.Bool("ranged", span.ranged))
	return nil
}

func (s *MemoryStore) flushScenario(fields FlushFields, span flushSpan) {
	if fields&FlushGenericData != 0 {
		flushGeneric(s.scenarioGeneric, span)
	}
	if fields&FlushDataTables != 0 {
		s.flushTables(0, span)
	}
}

func (s *MemoryStore) flushEntity(id simdata.ObjectID, fields FlushFields, span flushSpan) {
	n, ok := s.nodes.Get(id)
	if !ok {
		return
	}
	if fields&FlushUpdates != 0 && n.updates != nil {
		flushSeries(n.updates, span)
	}
	if fields&FlushCommands != 0 {
		flushSeries(n.commands, span)
	}
	if fields&FlushCategoryData != 0 {
		if span.ranged {
			n.category.FlushRange(span.start, span.end)
		} else {
			n.category.Flush(span.keepStatic)
		}
	}
	if fields&FlushGenericData != 0 {
		flushGeneric(n.generic, span)
	}
	if fields&FlushDataTables != 0 {
		s.flushTables(id, span)
	}
}

func flushSeries(x series, span flushSpan) {
	if span.ranged {
		x.FlushRange(span.start, span.end)
		return
	}
	x.Flush(span.keepStatic)
}

func flushGeneric(g *slice.GenericDataSlice, span flushSpan) {
	if span.ranged {
		g.FlushRange(span.start, span.end)
		return
	}
	g.Flush()
}

func (s *MemoryStore) flushTables(owner simdata.ObjectID, span flushSpan) {
	for _, t := range s.tables.TablesForOwner(owner) {
		if span.ranged {
			t.FlushRange(span.start, span.end)
		} else {
			t.Flush(span.keepStatic)
		}
	}
}

// RemoveEntity deletes id and, first, every entity hosted by it.
// Listeners get OnRemoveEntity before each deletion and
// OnPostRemoveEntity after.
func (s *MemoryStore) RemoveEntity(id simdata.ObjectID) error {
	n, ok := s.nodes.Get(id)
	if !ok {
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	for _, child := range s.children(id) {
		if err := s.RemoveEntity(child); err != nil {
			return err
		}
	}
	typ := n.typ
	event.Publish(s.bus, EntityRemoved{ID: id, Type: typ})
	s.world.Destroy(id)
	s.tables.DeleteTablesByOwner(id)
	s.bounds.invalidate()
	s.changed = true
	s.log.Debug("entity removed", zap.Uint64("id", uint64(id)), zap.Stringer("type", typ))
	event.Publish(s.bus, EntityPostRemoved{ID: id, Type: typ})
	return nil
}
