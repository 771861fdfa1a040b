package store

import (
	"github.com/simdata/simstore/internal/category"
	"github.com/simdata/simstore/internal/core/ecs"
	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/slice"
)

type propsPtr[Props any] interface {
	*Props
	simdata.Properties
}

type prefsPtr[P any] interface {
	*P
	simdata.EntityPrefs
}

// series is the type-independent face of update and command slices used by
// flush, data limiting and time bounds.
type series interface {
	NumItems() int
	FirstTime() float64
	FirstTimedTime() float64
	LastTime() float64
	LimitByPrefs(prefs *simdata.CommonPrefs)
	Flush(keepStatic bool)
	FlushRange(start, end float64)
}

// node is the record every entity has regardless of type.
type node struct {
	typ      simdata.ObjectType
	props    simdata.Properties
	prefs    simdata.EntityPrefs
	updates  series // nil for custom renderings
	commands series
	generic  *slice.GenericDataSlice
	category *category.DataSlice
}

func (n *node) common() *simdata.CommonPrefs { return n.prefs.GetCommonPrefs() }

// limit applies the entity's data limits to every slice it owns.
func (n *node) limit() {
	c := n.common()
	if n.updates != nil {
		n.updates.LimitByPrefs(c)
	}
	n.commands.LimitByPrefs(c)
	n.generic.LimitByPrefs(c)
	n.category.LimitByPrefs(c)
}

// entity is the typed record of one entity. prefs is the live preferences
// record; transactions copy into it so the pointer stays valid. rev counts
// the applied preference commits.
type entity[Props any, P any] struct {
	props    *Props
	prefs    *P
	rev      uint64
	commands *slice.CommandSlice[P]
}

// kind bundles the table and default preferences of one entity type.
type kind[Props any, P any] struct {
	typ      simdata.ObjectType
	table    *ecs.Table[entity[Props, P]]
	defaults *P
	info     func(*Props) simdata.Properties
	common   func(*P) simdata.EntityPrefs
}

func newKind[Props any, P any, PP propsPtr[Props], PE prefsPtr[P]](typ simdata.ObjectType, reg *ecs.Registry) *kind[Props, P] {
	k := &kind[Props, P]{
		typ:      typ,
		table:    ecs.NewTable[entity[Props, P]](),
		defaults: new(P),
		info:     func(p *Props) simdata.Properties { return PP(p) },
		common:   func(p *P) simdata.EntityPrefs { return PE(p) },
	}
	reg.Register(k.table)
	return k
}

func (k *kind[Props, P]) setDefaults(p *P) {
	k.defaults = simdata.ClonePrefs(p)
}

func (k *kind[Props, P]) get(id simdata.ObjectID) *entity[Props, P] {
	e, _ := k.table.Get(id)
	return e
}

// opener lets a command slice open preference transactions on its entity.
type opener[Props any, P any] struct {
	s *MemoryStore
	k *kind[Props, P]
}

func (o opener[Props, P]) MutablePrefs(id simdata.ObjectID) (*P, slice.Transaction) {
	p, txn := mutablePrefs(o.s, o.k, id)
	if p == nil {
		return nil, nil
	}
	return p, txn
}

func (o opener[Props, P]) PrefsRevision(id simdata.ObjectID) uint64 {
	if e := o.k.get(id); e != nil {
		return e.rev
	}
	return 0
}

func (k *kind[Props, P]) opener(s *MemoryStore) opener[Props, P] {
	return opener[Props, P]{s: s, k: k}
}

// Properties, preferences and slices by type. Each returns nil when id
// does not name an entity of that type.

func (s *MemoryStore) PlatformProperties(id simdata.ObjectID) *simdata.PlatformProperties {
	return propsOf(s.platforms, id)
}

func (s *MemoryStore) BeamProperties(id simdata.ObjectID) *simdata.BeamProperties {
	return propsOf(s.beams, id)
}

func (s *MemoryStore) GateProperties(id simdata.ObjectID) *simdata.GateProperties {
	return propsOf(s.gates, id)
}

func (s *MemoryStore) LaserProperties(id simdata.ObjectID) *simdata.LaserProperties {
	return propsOf(s.lasers, id)
}

func (s *MemoryStore) ProjectorProperties(id simdata.ObjectID) *simdata.ProjectorProperties {
	return propsOf(s.projectors, id)
}

func (s *MemoryStore) LobGroupProperties(id simdata.ObjectID) *simdata.LobGroupProperties {
	return propsOf(s.lobGroups, id)
}

func (s *MemoryStore) CustomRenderingProperties(id simdata.ObjectID) *simdata.CustomRenderingProperties {
	return propsOf(s.customRenderings, id)
}

func propsOf[Props any, P any](k *kind[Props, P], id simdata.ObjectID) *Props {
	if e := k.get(id); e != nil {
		return e.props
	}
	return nil
}

func prefsOf[Props any, P any](k *kind[Props, P], id simdata.ObjectID) *P {
	if e := k.get(id); e != nil {
		return e.prefs
	}
	return nil
}

func commandsOf[Props any, P any](k *kind[Props, P], id simdata.ObjectID) *slice.CommandSlice[P] {
	if e := k.get(id); e != nil {
		return e.commands
	}
	return nil
}

func sliceOf[T any](tbl *ecs.Table[T], id simdata.ObjectID) *T {
	u, _ := tbl.Get(id)
	return u
}

// PlatformPrefs returns the live preferences. Mutate them only through
// MutablePlatformPrefs.
func (s *MemoryStore) PlatformPrefs(id simdata.ObjectID) *simdata.PlatformPrefs {
	return prefsOf(s.platforms, id)
}

func (s *MemoryStore) BeamPrefs(id simdata.ObjectID) *simdata.BeamPrefs {
	return prefsOf(s.beams, id)
}

func (s *MemoryStore) GatePrefs(id simdata.ObjectID) *simdata.GatePrefs {
	return prefsOf(s.gates, id)
}

func (s *MemoryStore) LaserPrefs(id simdata.ObjectID) *simdata.LaserPrefs {
	return prefsOf(s.lasers, id)
}

func (s *MemoryStore) ProjectorPrefs(id simdata.ObjectID) *simdata.ProjectorPrefs {
	return prefsOf(s.projectors, id)
}

func (s *MemoryStore) LobGroupPrefs(id simdata.ObjectID) *simdata.LobGroupPrefs {
	return prefsOf(s.lobGroups, id)
}

func (s *MemoryStore) CustomRenderingPrefs(id simdata.ObjectID) *simdata.CustomRenderingPrefs {
	return prefsOf(s.customRenderings, id)
}

// CommonPrefs returns the shared preferences of any entity.
func (s *MemoryStore) CommonPrefs(id simdata.ObjectID) *simdata.CommonPrefs {
	if n, ok := s.nodes.Get(id); ok {
		return n.common()
	}
	return nil
}

func (s *MemoryStore) PlatformUpdateSlice(id simdata.ObjectID) *PlatformSlice {
	return sliceOf(s.platformUpdates, id)
}

func (s *MemoryStore) BeamUpdateSlice(id simdata.ObjectID) *BeamSlice {
	return sliceOf(s.beamUpdates, id)
}

func (s *MemoryStore) GateUpdateSlice(id simdata.ObjectID) *GateSlice {
	return sliceOf(s.gateUpdates, id)
}

func (s *MemoryStore) LaserUpdateSlice(id simdata.ObjectID) *LaserSlice {
	return sliceOf(s.laserUpdates, id)
}

func (s *MemoryStore) ProjectorUpdateSlice(id simdata.ObjectID) *ProjectorSlice {
	return sliceOf(s.projectorUpdates, id)
}

func (s *MemoryStore) LobGroupUpdateSlice(id simdata.ObjectID) *LobGroupSlice {
	return sliceOf(s.lobUpdates, id)
}

func (s *MemoryStore) PlatformCommandSlice(id simdata.ObjectID) *slice.CommandSlice[simdata.PlatformPrefs] {
	return commandsOf(s.platforms, id)
}

func (s *MemoryStore) BeamCommandSlice(id simdata.ObjectID) *slice.CommandSlice[simdata.BeamPrefs] {
	return commandsOf(s.beams, id)
}

func (s *MemoryStore) GateCommandSlice(id simdata.ObjectID) *slice.CommandSlice[simdata.GatePrefs] {
	return commandsOf(s.gates, id)
}

func (s *MemoryStore) LaserCommandSlice(id simdata.ObjectID) *slice.CommandSlice[simdata.LaserPrefs] {
	return commandsOf(s.lasers, id)
}

func (s *MemoryStore) ProjectorCommandSlice(id simdata.ObjectID) *slice.CommandSlice[simdata.ProjectorPrefs] {
	return commandsOf(s.projectors, id)
}

func (s *MemoryStore) LobGroupCommandSlice(id simdata.ObjectID) *slice.CommandSlice[simdata.LobGroupPrefs] {
	return commandsOf(s.lobGroups, id)
}

func (s *MemoryStore) CustomRenderingCommandSlice(id simdata.ObjectID) *slice.CommandSlice[simdata.CustomRenderingPrefs] {
	return commandsOf(s.customRenderings, id)
}

// CategoryDataSlice returns the category data of id, or nil.
func (s *MemoryStore) CategoryDataSlice(id simdata.ObjectID) *category.DataSlice {
	if n, ok := s.nodes.Get(id); ok {
		return n.category
	}
	return nil
}

// GenericDataSlice returns the generic data of id; 0 names the scenario.
func (s *MemoryStore) GenericDataSlice(id simdata.ObjectID) *slice.GenericDataSlice {
	if id == 0 {
		return s.scenarioGeneric
	}
	if n, ok := s.nodes.Get(id); ok {
		return n.generic
	}
	return nil
}
