package store

import (
	"math"

	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/slice"
)

// ObjectType returns the type of id, or None.
func (s *MemoryStore) ObjectType(id simdata.ObjectID) simdata.ObjectType {
	if n, ok := s.nodes.Get(id); ok {
		return n.typ
	}
	return simdata.None
}

// EntityHostID returns the host of id, 0 for a top-level or unknown entity.
func (s *MemoryStore) EntityHostID(id simdata.ObjectID) simdata.ObjectID {
	if n, ok := s.nodes.Get(id); ok {
		return n.props.GetHostID()
	}
	return 0
}

// All id lists are in ascending id order.

func (s *MemoryStore) collect(keep func(*node) bool) []simdata.ObjectID {
	var out []simdata.ObjectID
	s.nodes.Each(func(id simdata.ObjectID, n *node) {
		if keep(n) {
			out = append(out, id)
		}
	})
	return out
}

// IDList returns the entities whose type is in typ.
func (s *MemoryStore) IDList(typ simdata.ObjectType) []simdata.ObjectID {
	return s.collect(func(n *node) bool { return n.typ&typ != 0 })
}

// IDListByName returns the entities of typ whose name is name.
func (s *MemoryStore) IDListByName(name string, typ simdata.ObjectType) []simdata.ObjectID {
	return s.collect(func(n *node) bool {
		return n.typ&typ != 0 && n.common().GetName() == name
	})
}

func (s *MemoryStore) IDListByOriginalID(originalID uint64, typ simdata.ObjectType) []simdata.ObjectID {
	return s.collect(func(n *node) bool {
		return n.typ&typ != 0 && n.props.GetOriginalID() == originalID
	})
}

func (s *MemoryStore) childrenOfType(host simdata.ObjectID, typ simdata.ObjectType) []simdata.ObjectID {
	return s.collect(func(n *node) bool {
		return n.typ&typ != 0 && n.props.GetHostID() == host
	})
}

func (s *MemoryStore) children(host simdata.ObjectID) []simdata.ObjectID {
	return s.childrenOfType(host, simdata.All)
}

// descendants returns every entity hosted directly or indirectly by id.
func (s *MemoryStore) descendants(id simdata.ObjectID) []simdata.ObjectID {
	var out []simdata.ObjectID
	for _, c := range s.children(id) {
		out = append(out, c)
		out = append(out, s.descendants(c)...)
	}
	return out
}

func (s *MemoryStore) BeamIDListForHost(host simdata.ObjectID) []simdata.ObjectID {
	return s.childrenOfType(host, simdata.Beam)
}

func (s *MemoryStore) GateIDListForHost(host simdata.ObjectID) []simdata.ObjectID {
	return s.childrenOfType(host, simdata.Gate)
}

func (s *MemoryStore) LaserIDListForHost(host simdata.ObjectID) []simdata.ObjectID {
	return s.childrenOfType(host, simdata.Laser)
}

func (s *MemoryStore) ProjectorIDListForHost(host simdata.ObjectID) []simdata.ObjectID {
	return s.childrenOfType(host, simdata.Projector)
}

func (s *MemoryStore) LobGroupIDListForHost(host simdata.ObjectID) []simdata.ObjectID {
	return s.childrenOfType(host, simdata.LobGroup)
}

func (s *MemoryStore) CustomRenderingIDListForHost(host simdata.ObjectID) []simdata.ObjectID {
	return s.childrenOfType(host, simdata.CustomRendering)
}

// timeBounds caches the span of timed updates across the scenario. Static
// records do not count.
type timeBounds struct {
	first, last float64
	valid       bool
}

func emptyBounds() timeBounds {
	return timeBounds{first: slice.MaxTime, last: slice.MinTime, valid: true}
}

func (b *timeBounds) extend(t float64) {
	if !b.valid || t == simdata.StaticTime {
		return
	}
	b.first = math.Min(b.first, t)
	b.last = math.Max(b.last, t)
}

func (b *timeBounds) invalidate() { b.valid = false }

// TimeBounds returns the first and last update times of id, or of the
// whole scenario for id 0. Static records are ignored. ok is false when
// there is no timed update.
func (s *MemoryStore) TimeBounds(id simdata.ObjectID) (first, last float64, ok bool) {
	if id != 0 {
		n, found := s.nodes.Get(id)
		if !found || n.updates == nil {
			return 0, 0, false
		}
		b := emptyBounds()
		addSeries(&b, n.updates)
		return b.first, b.last, b.first <= b.last
	}
	if !s.bounds.valid {
		b := emptyBounds()
		s.nodes.Each(func(_ simdata.ObjectID, n *node) {
			if n.updates != nil {
				addSeries(&b, n.updates)
			}
		})
		s.bounds = b
	}
	return s.bounds.first, s.bounds.last, s.bounds.first <= s.bounds.last
}

// addSeries extends b with the timed records of x. A series holding only
// static records adds nothing.
func addSeries(b *timeBounds, x series) {
	first := x.FirstTimedTime()
	if x.NumItems() == 0 || first == slice.MaxTime {
		return
	}
	b.extend(first)
	b.extend(x.LastTime())
}
