package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/category"
	"github.com/simdata/simstore/internal/core/ecs"
	"github.com/simdata/simstore/internal/core/event"
	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/slice"
)

type txnState int

const (
	txnOpen txnState = iota
	txnCommitted
	txnReleased
)

// CommitResult describes what a Commit did.
type CommitResult struct {
	// Applied is false when the commit was a no-op or was refused.
	Applied     bool
	NameChanged bool
	// Err is set when the commit was refused.
	Err error
}

// Transaction guards a staged record. Commit makes the staged record live
// and queues notifications; Release delivers them, or discards the staged
// record when it was never committed. Commit after Commit, and any call
// after Release, panic.
type Transaction struct {
	state  txnState
	apply  func() CommitResult
	cancel func()
	result CommitResult
	bus    *event.Bus
}

func (s *MemoryStore) newTxn(apply func() CommitResult, cancel func()) *Transaction {
	return &Transaction{apply: apply, cancel: cancel, bus: s.bus}
}

func (t *Transaction) Commit() {
	switch t.state {
	case txnCommitted:
		panic("store: transaction committed twice")
	case txnReleased:
		panic("store: commit of a released transaction")
	}
	t.result = t.apply()
	t.state = txnCommitted
}

func (t *Transaction) Release() {
	switch t.state {
	case txnReleased:
		panic("store: transaction released twice")
	case txnOpen:
		if t.cancel != nil {
			t.cancel()
		}
	case txnCommitted:
		t.bus.DispatchAll()
	}
	t.state = txnReleased
}

// Result returns the outcome of Commit.
func (t *Transaction) Result() CommitResult { return t.result }

// Committed reports whether Commit has run.
func (t *Transaction) Committed() bool { return t.state != txnOpen }

// nameChanged reports whether the displayed name differs between a and b.
func nameChanged(a, b *simdata.CommonPrefs) bool {
	if a.GetUseAlias() != b.GetUseAlias() {
		return true
	}
	if b.GetUseAlias() {
		return a.GetAlias() != b.GetAlias()
	}
	return a.GetName() != b.GetName()
}

func mutablePrefs[Props any, P any](s *MemoryStore, k *kind[Props, P], id simdata.ObjectID) (*P, *Transaction) {
	e := k.get(id)
	if e == nil {
		return nil, nil
	}
	staged := simdata.ClonePrefs(e.prefs)
	return staged, s.newTxn(func() CommitResult {
		if simdata.PrefsEqual(staged, e.prefs) {
			return CommitResult{}
		}
		renamed := nameChanged(k.common(e.prefs).GetCommonPrefs(), k.common(staged).GetCommonPrefs())
		simdata.CopyPrefs(e.prefs, staged)
		e.rev++
		if s.dataLimiting {
			if n, ok := s.nodes.Get(id); ok {
				n.limit()
				s.bounds.invalidate()
			}
		}
		s.changed = true
		event.Emit(s.bus, PrefsChanged{ID: id})
		if renamed {
			event.Emit(s.bus, NameChanged{ID: id})
		}
		return CommitResult{Applied: true, NameChanged: renamed}
	}, nil)
}

func mutableProps[Props comparable, P any](s *MemoryStore, k *kind[Props, P], id simdata.ObjectID) (*Props, *Transaction) {
	e := k.get(id)
	if e == nil {
		return nil, nil
	}
	staged := new(Props)
	*staged = *e.props
	return staged, s.newTxn(func() CommitResult {
		if *staged == *e.props {
			return CommitResult{}
		}
		was, now := k.info(e.props), k.info(staged)
		if was.GetID() != now.GetID() || was.GetHostID() != now.GetHostID() {
			return CommitResult{Err: fmt.Errorf("entity %d: %w", id, ErrImmutable)}
		}
		*e.props = *staged
		s.changed = true
		event.Emit(s.bus, PropertiesChanged{ID: id})
		return CommitResult{Applied: true}
	}, nil)
}

// addEntry stages a new entity of kind k. Commit inserts it with a copy of
// the default preferences; newUpdates, when set, creates its update slice.
func addEntry[Props any, P any](s *MemoryStore, k *kind[Props, P], props *Props, newUpdates func(simdata.ObjectID) series) *Transaction {
	allocated := k.info(props).GetID()
	return s.newTxn(func() CommitResult {
		info := k.info(props)
		id := allocated
		if info.GetID() != allocated {
			s.world.Pool().Destroy(allocated)
			return CommitResult{Err: fmt.Errorf("add %s %d: id changed to %d: %w", k.typ, allocated, info.GetID(), ErrImmutable)}
		}
		if err := s.checkHost(k.typ, info.GetHostID()); err != nil {
			s.world.Pool().Destroy(allocated)
			return CommitResult{Err: fmt.Errorf("add %s %d: %w", k.typ, id, err)}
		}

		prefs := simdata.ClonePrefs(k.defaults)
		cmds := slice.NewCommandSlice[P]()
		k.table.Set(id, &entity[Props, P]{props: props, prefs: prefs, commands: cmds})
		n := &node{
			typ:      k.typ,
			props:    info,
			prefs:    k.common(prefs),
			commands: cmds,
			generic:  slice.NewGenericDataSlice(),
			category: category.NewDataSlice(s.names),
		}
		if newUpdates != nil {
			n.updates = newUpdates(id)
		}
		s.nodes.Set(id, n)
		s.changed = true
		s.log.Debug("entity added", zap.Uint64("id", uint64(id)), zap.Stringer("type", k.typ))
		event.Emit(s.bus, EntityAdded{ID: id, Type: k.typ})
		return CommitResult{Applied: true}
	}, func() { s.world.Pool().Destroy(allocated) })
}

// checkHost verifies that host may own an entity of type child.
func (s *MemoryStore) checkHost(child simdata.ObjectType, host simdata.ObjectID) error {
	hostType := simdata.None
	if host != 0 {
		n, ok := s.nodes.Get(host)
		if !ok {
			return fmt.Errorf("host %d: %w", host, ErrNotFound)
		}
		hostType = n.typ
	}
	if !simdata.ValidHost(child, hostType) {
		return fmt.Errorf("%s cannot host %s: %w", hostType, child, ErrWrongType)
	}
	return nil
}

func newSlice[R any, T slice.RecordPtr[R]](tbl *ecs.Table[slice.DataSlice[R, T]]) func(simdata.ObjectID) series {
	return func(id simdata.ObjectID) series {
		u := slice.NewDataSlice[R, T]()
		tbl.Set(id, u)
		return u
	}
}

func addUpdate[R any, T slice.RecordPtr[R]](s *MemoryStore, tbl *ecs.Table[slice.DataSlice[R, T]], id simdata.ObjectID) (T, *Transaction) {
	u, ok := tbl.Get(id)
	if !ok {
		return nil, nil
	}
	rec := T(new(R))
	return rec, s.newTxn(func() CommitResult {
		u.Insert(rec)
		s.bounds.extend(rec.GetTime())
		if s.dataLimiting {
			if n, ok := s.nodes.Get(id); ok {
				u.LimitByPrefs(n.common())
			}
		}
		s.changed = true
		return CommitResult{Applied: true}
	}, nil)
}

func addCommand[Props any, P any](s *MemoryStore, k *kind[Props, P], id simdata.ObjectID) (*simdata.Command[P], *Transaction) {
	e := k.get(id)
	if e == nil {
		return nil, nil
	}
	cmd := &simdata.Command[P]{}
	return cmd, s.newTxn(func() CommitResult {
		e.commands.Insert(cmd)
		if s.dataLimiting {
			e.commands.LimitByPrefs(k.common(e.prefs).GetCommonPrefs())
		}
		s.changed = true
		return CommitResult{Applied: true}
	}, nil)
}

// AddGenericData stages generic data for id; 0 names the scenario.
func (s *MemoryStore) AddGenericData(id simdata.ObjectID) (*simdata.GenericData, *Transaction) {
	g := s.GenericDataSlice(id)
	if g == nil {
		return nil, nil
	}
	rec := &simdata.GenericData{Duration: -1}
	return rec, s.newTxn(func() CommitResult {
		g.Insert(rec, false)
		if s.dataLimiting {
			if id == 0 {
				g.LimitByPrefs(s.scenarioLimits())
			} else if n, ok := s.nodes.Get(id); ok {
				g.LimitByPrefs(n.common())
			}
		}
		s.changed = true
		return CommitResult{Applied: true}
	}, nil)
}

// AddCategoryData stages category data for entity id.
func (s *MemoryStore) AddCategoryData(id simdata.ObjectID) (*simdata.CategoryData, *Transaction) {
	n, ok := s.nodes.Get(id)
	if !ok {
		return nil, nil
	}
	rec := &simdata.CategoryData{}
	return rec, s.newTxn(func() CommitResult {
		n.category.Insert(rec)
		if s.dataLimiting {
			n.category.LimitByPrefs(n.common())
		}
		s.changed = true
		return CommitResult{Applied: true}
	}, nil)
}

// New entities. The returned properties carry the allocated id; fill the
// rest, including the host id, before Commit.

func (s *MemoryStore) AddPlatform() (*simdata.PlatformProperties, *Transaction) {
	p := &simdata.PlatformProperties{ID: s.world.CreateEntity()}
	return p, addEntry(s, s.platforms, p, newSlice(s.platformUpdates))
}

func (s *MemoryStore) AddBeam() (*simdata.BeamProperties, *Transaction) {
	p := &simdata.BeamProperties{ID: s.world.CreateEntity()}
	return p, addEntry(s, s.beams, p, newSlice(s.beamUpdates))
}

func (s *MemoryStore) AddGate() (*simdata.GateProperties, *Transaction) {
	p := &simdata.GateProperties{ID: s.world.CreateEntity()}
	return p, addEntry(s, s.gates, p, newSlice(s.gateUpdates))
}

func (s *MemoryStore) AddLaser() (*simdata.LaserProperties, *Transaction) {
	p := &simdata.LaserProperties{ID: s.world.CreateEntity()}
	return p, addEntry(s, s.lasers, p, newSlice(s.laserUpdates))
}

func (s *MemoryStore) AddProjector() (*simdata.ProjectorProperties, *Transaction) {
	p := &simdata.ProjectorProperties{ID: s.world.CreateEntity()}
	return p, addEntry(s, s.projectors, p, newSlice(s.projectorUpdates))
}

func (s *MemoryStore) AddLobGroup() (*simdata.LobGroupProperties, *Transaction) {
	p := &simdata.LobGroupProperties{ID: s.world.CreateEntity()}
	return p, addEntry(s, s.lobGroups, p, newSlice(s.lobUpdates))
}

// AddCustomRendering stages a custom rendering. Custom renderings have no
// update slice; only their commands are replayed.
func (s *MemoryStore) AddCustomRendering() (*simdata.CustomRenderingProperties, *Transaction) {
	p := &simdata.CustomRenderingProperties{ID: s.world.CreateEntity()}
	return p, addEntry(s, s.customRenderings, p, nil)
}

// Mutable preferences. Each stages a copy of the live record; Commit skips
// the write when nothing differs.

func (s *MemoryStore) MutablePlatformPrefs(id simdata.ObjectID) (*simdata.PlatformPrefs, *Transaction) {
	return mutablePrefs(s, s.platforms, id)
}

func (s *MemoryStore) MutableBeamPrefs(id simdata.ObjectID) (*simdata.BeamPrefs, *Transaction) {
	return mutablePrefs(s, s.beams, id)
}

func (s *MemoryStore) MutableGatePrefs(id simdata.ObjectID) (*simdata.GatePrefs, *Transaction) {
	return mutablePrefs(s, s.gates, id)
}

func (s *MemoryStore) MutableLaserPrefs(id simdata.ObjectID) (*simdata.LaserPrefs, *Transaction) {
	return mutablePrefs(s, s.lasers, id)
}

func (s *MemoryStore) MutableProjectorPrefs(id simdata.ObjectID) (*simdata.ProjectorPrefs, *Transaction) {
	return mutablePrefs(s, s.projectors, id)
}

func (s *MemoryStore) MutableLobGroupPrefs(id simdata.ObjectID) (*simdata.LobGroupPrefs, *Transaction) {
	return mutablePrefs(s, s.lobGroups, id)
}

func (s *MemoryStore) MutableCustomRenderingPrefs(id simdata.ObjectID) (*simdata.CustomRenderingPrefs, *Transaction) {
	return mutablePrefs(s, s.customRenderings, id)
}

func (s *MemoryStore) MutablePlatformProperties(id simdata.ObjectID) (*simdata.PlatformProperties, *Transaction) {
	return mutableProps(s, s.platforms, id)
}

func (s *MemoryStore) MutableBeamProperties(id simdata.ObjectID) (*simdata.BeamProperties, *Transaction) {
	return mutableProps(s, s.beams, id)
}

func (s *MemoryStore) MutableGateProperties(id simdata.ObjectID) (*simdata.GateProperties, *Transaction) {
	return mutableProps(s, s.gates, id)
}

func (s *MemoryStore) MutableLaserProperties(id simdata.ObjectID) (*simdata.LaserProperties, *Transaction) {
	return mutableProps(s, s.lasers, id)
}

func (s *MemoryStore) MutableProjectorProperties(id simdata.ObjectID) (*simdata.ProjectorProperties, *Transaction) {
	return mutableProps(s, s.projectors, id)
}

func (s *MemoryStore) MutableLobGroupProperties(id simdata.ObjectID) (*simdata.LobGroupProperties, *Transaction) {
	return mutableProps(s, s.lobGroups, id)
}

func (s *MemoryStore) MutableCustomRenderingProperties(id simdata.ObjectID) (*simdata.CustomRenderingProperties, *Transaction) {
	return mutableProps(s, s.customRenderings, id)
}

// New updates and commands. Each returns nil when id does not name an
// entity of the type.

func (s *MemoryStore) AddPlatformUpdate(id simdata.ObjectID) (*simdata.PlatformUpdate, *Transaction) {
	return addUpdate(s, s.platformUpdates, id)
}

func (s *MemoryStore) AddBeamUpdate(id simdata.ObjectID) (*simdata.BeamUpdate, *Transaction) {
	return addUpdate(s, s.beamUpdates, id)
}

func (s *MemoryStore) AddGateUpdate(id simdata.ObjectID) (*simdata.GateUpdate, *Transaction) {
	return addUpdate(s, s.gateUpdates, id)
}

func (s *MemoryStore) AddLaserUpdate(id simdata.ObjectID) (*simdata.LaserUpdate, *Transaction) {
	return addUpdate(s, s.laserUpdates, id)
}

func (s *MemoryStore) AddProjectorUpdate(id simdata.ObjectID) (*simdata.ProjectorUpdate, *Transaction) {
	return addUpdate(s, s.projectorUpdates, id)
}

func (s *MemoryStore) AddLobGroupUpdate(id simdata.ObjectID) (*simdata.LobGroupUpdate, *Transaction) {
	return addUpdate(s, s.lobUpdates, id)
}

func (s *MemoryStore) AddPlatformCommand(id simdata.ObjectID) (*simdata.PlatformCommand, *Transaction) {
	return addCommand(s, s.platforms, id)
}

func (s *MemoryStore) AddBeamCommand(id simdata.ObjectID) (*simdata.BeamCommand, *Transaction) {
	return addCommand(s, s.beams, id)
}

func (s *MemoryStore) AddGateCommand(id simdata.ObjectID) (*simdata.GateCommand, *Transaction) {
	return addCommand(s, s.gates, id)
}

func (s *MemoryStore) AddLaserCommand(id simdata.ObjectID) (*simdata.LaserCommand, *Transaction) {
	return addCommand(s, s.lasers, id)
}

func (s *MemoryStore) AddProjectorCommand(id simdata.ObjectID) (*simdata.ProjectorCommand, *Transaction) {
	return addCommand(s, s.projectors, id)
}

func (s *MemoryStore) AddLobGroupCommand(id simdata.ObjectID) (*simdata.LobGroupCommand, *Transaction) {
	return addCommand(s, s.lobGroups, id)
}

func (s *MemoryStore) AddCustomRenderingCommand(id simdata.ObjectID) (*simdata.CustomRenderingCommand, *Transaction) {
	return addCommand(s, s.customRenderings, id)
}
