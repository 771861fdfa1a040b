// Package store is the in-memory scenario data store. It owns every
// entity's properties, preferences, update slice and command slice, drives
// the per-entity recompute when the scenario clock advances, and notifies
// listeners of lifecycle and change events.
//
// The store is single-threaded. Mutation happens inside a Transaction's
// Commit and recomputation inside Update; neither may run concurrently
// with reads of the same entity.
package store

import (
	"errors"

	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/category"
	"github.com/simdata/simstore/internal/core/ecs"
	"github.com/simdata/simstore/internal/core/event"
	"github.com/simdata/simstore/internal/core/system"
	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/slice"
)

var (
	ErrNotFound  = errors.New("store: entity not found")
	ErrWrongType = errors.New("store: wrong entity type")
	ErrImmutable = errors.New("store: id and host are immutable")
)

type (
	PlatformSlice  = slice.DataSlice[simdata.PlatformUpdate, *simdata.PlatformUpdate]
	BeamSlice      = slice.DataSlice[simdata.BeamUpdate, *simdata.BeamUpdate]
	GateSlice      = slice.DataSlice[simdata.GateUpdate, *simdata.GateUpdate]
	LaserSlice     = slice.DataSlice[simdata.LaserUpdate, *simdata.LaserUpdate]
	ProjectorSlice = slice.DataSlice[simdata.ProjectorUpdate, *simdata.ProjectorUpdate]
	LobGroupSlice  = slice.DataSlice[simdata.LobGroupUpdate, *simdata.LobGroupUpdate]
)

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *MemoryStore) { s.log = log }
}

// WithInterpolator installs interp and enables interpolation.
func WithInterpolator(interp simdata.Interpolator) Option {
	return func(s *MemoryStore) {
		s.interp = interp
		s.interpolate = interp != nil
	}
}

// WithDataLimiting turns data limiting on or off. It is off by default:
// slices keep every record until limiting is enabled, after which each
// commit trims the entity's slices to its datalimitpoints and
// datalimittime prefs.
func WithDataLimiting(on bool) Option {
	return func(s *MemoryStore) { s.dataLimiting = on }
}

// WithFileMode marks the scenario as recorded: a platform is expired once
// the clock leaves the span of its updates.
func WithFileMode(on bool) Option {
	return func(s *MemoryStore) { s.fileMode = on }
}

// WithNames shares a category name manager with the store.
func WithNames(names *category.NameManager) Option {
	return func(s *MemoryStore) { s.names = names }
}

// MemoryStore is the scenario data store.
type MemoryStore struct {
	log *zap.Logger

	world  *ecs.World
	runner *system.Runner
	bus    *event.Bus

	listeners event.List[Listener]

	nodes *ecs.Table[node]

	platforms        *kind[simdata.PlatformProperties, simdata.PlatformPrefs]
	beams            *kind[simdata.BeamProperties, simdata.BeamPrefs]
	gates            *kind[simdata.GateProperties, simdata.GatePrefs]
	lasers           *kind[simdata.LaserProperties, simdata.LaserPrefs]
	projectors       *kind[simdata.ProjectorProperties, simdata.ProjectorPrefs]
	lobGroups        *kind[simdata.LobGroupProperties, simdata.LobGroupPrefs]
	customRenderings *kind[simdata.CustomRenderingProperties, simdata.CustomRenderingPrefs]

	platformUpdates  *ecs.Table[PlatformSlice]
	beamUpdates      *ecs.Table[BeamSlice]
	gateUpdates      *ecs.Table[GateSlice]
	laserUpdates     *ecs.Table[LaserSlice]
	projectorUpdates *ecs.Table[ProjectorSlice]
	lobUpdates       *ecs.Table[LobGroupSlice]
	lobWindows       *ecs.Table[lobWindow]

	names           *category.NameManager
	tables          *slice.TableManager
	scenarioGeneric *slice.GenericDataSlice
	scenario        simdata.ScenarioProperties

	interp       simdata.Interpolator
	interpolate  bool
	dataLimiting bool
	fileMode     bool

	updateTime float64
	changed    bool
	bounds     timeBounds
}

func New(opts ...Option) *MemoryStore {
	w := ecs.NewWorld()
	reg := w.Registry()
	s := &MemoryStore{
		log:             zap.NewNop(),
		world:           w,
		runner:          system.NewRunner(),
		bus:             event.NewBus(),
		tables:          slice.NewTableManager(),
		scenarioGeneric: slice.NewGenericDataSlice(),
		scenario:        simdata.DefaultScenarioProperties(),
		updateTime:      simdata.StaticTime,
		changed:         true,
		bounds:          emptyBounds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.names == nil {
		s.names = category.NewNameManager()
	}

	s.nodes = registerTable[node](reg)
	s.platforms = newKind[simdata.PlatformProperties, simdata.PlatformPrefs](simdata.Platform, reg)
	s.beams = newKind[simdata.BeamProperties, simdata.BeamPrefs](simdata.Beam, reg)
	s.gates = newKind[simdata.GateProperties, simdata.GatePrefs](simdata.Gate, reg)
	s.lasers = newKind[simdata.LaserProperties, simdata.LaserPrefs](simdata.Laser, reg)
	s.projectors = newKind[simdata.ProjectorProperties, simdata.ProjectorPrefs](simdata.Projector, reg)
	s.lobGroups = newKind[simdata.LobGroupProperties, simdata.LobGroupPrefs](simdata.LobGroup, reg)
	s.customRenderings = newKind[simdata.CustomRenderingProperties, simdata.CustomRenderingPrefs](simdata.CustomRendering, reg)

	s.platformUpdates = registerTable[PlatformSlice](reg)
	s.beamUpdates = registerTable[BeamSlice](reg)
	s.gateUpdates = registerTable[GateSlice](reg)
	s.laserUpdates = registerTable[LaserSlice](reg)
	s.projectorUpdates = registerTable[ProjectorSlice](reg)
	s.lobUpdates = registerTable[LobGroupSlice](reg)
	s.lobWindows = registerTable[lobWindow](reg)

	s.bridgeListeners()
	s.registerSystems()
	return s
}

func registerTable[T any](reg *ecs.Registry) *ecs.Table[T] {
	t := ecs.NewTable[T]()
	reg.Register(t)
	return t
}

// Events returns the typed event bus. Subscribers receive the same
// notifications as listeners, as values such as EntityAdded.
func (s *MemoryStore) Events() *event.Bus { return s.bus }

func (s *MemoryStore) AddListener(l Listener)    { s.listeners.Add(l) }
func (s *MemoryStore) RemoveListener(l Listener) { s.listeners.Remove(l) }

// CategoryNames returns the vocabulary shared by every category slice.
func (s *MemoryStore) CategoryNames() *category.NameManager { return s.names }

// DataTableManager returns the data tables of every entity.
func (s *MemoryStore) DataTableManager() *slice.TableManager { return s.tables }

// DataTables returns the tables owned by id; 0 names the scenario.
func (s *MemoryStore) DataTables(id simdata.ObjectID) []*slice.Table {
	return s.tables.TablesForOwner(id)
}

// UpdateTime returns the clock value of the last Update.
func (s *MemoryStore) UpdateTime() float64 { return s.updateTime }

// SetInterpolator installs interp. A nil interpolator disables
// interpolation.
func (s *MemoryStore) SetInterpolator(interp simdata.Interpolator) {
	s.interp = interp
	if interp == nil {
		s.interpolate = false
	}
	s.changed = true
}

func (s *MemoryStore) Interpolator() simdata.Interpolator { return s.interp }

// EnableInterpolation turns interpolation on or off and reports the
// resulting state. It stays off without an interpolator.
func (s *MemoryStore) EnableInterpolation(on bool) bool {
	s.interpolate = on && s.interp != nil
	s.changed = true
	return s.interpolate
}

func (s *MemoryStore) IsInterpolationEnabled() bool { return s.interpolate }

// CanInterpolate reports whether an interpolator is installed.
func (s *MemoryStore) CanInterpolate() bool { return s.interp != nil }

// SetDataLimiting toggles data limiting for later commits; records already
// stored are trimmed by the next commit on their entity. Off by default.
func (s *MemoryStore) SetDataLimiting(on bool) { s.dataLimiting = on }

func (s *MemoryStore) DataLimiting() bool { return s.dataLimiting }

func (s *MemoryStore) SetFileMode(on bool) {
	s.fileMode = on
	s.changed = true
}

func (s *MemoryStore) FileMode() bool { return s.fileMode }

// ScenarioProperties returns a copy of the scenario properties.
func (s *MemoryStore) ScenarioProperties() simdata.ScenarioProperties { return s.scenario }

// MutableScenarioProperties stages a copy of the scenario properties.
// Commit replaces the live copy and notifies a properties change for id 0.
func (s *MemoryStore) MutableScenarioProperties() (*simdata.ScenarioProperties, *Transaction) {
	staged := s.scenario
	return &staged, s.newTxn(func() CommitResult {
		if staged == s.scenario {
			return CommitResult{}
		}
		s.scenario = staged
		if s.dataLimiting {
			s.scenarioGeneric.LimitByPrefs(s.scenarioLimits())
		}
		s.changed = true
		event.Emit(s.bus, PropertiesChanged{ID: 0})
		return CommitResult{Applied: true}
	}, nil)
}

func (s *MemoryStore) scenarioLimits() *simdata.CommonPrefs {
	return &simdata.CommonPrefs{
		DataLimitTime:   simdata.Ptr(s.scenario.DataLimitTime),
		DataLimitPoints: simdata.Ptr(s.scenario.DataLimitPoints),
	}
}

// SetDefaultPrefs replaces the per-type templates copied into new
// entities. Existing entities keep their preferences.
func (s *MemoryStore) SetDefaultPrefs(d simdata.DefaultPrefs) {
	s.platforms.setDefaults(d.Platform)
	s.beams.setDefaults(d.Beam)
	s.gates.setDefaults(d.Gate)
	s.lasers.setDefaults(d.Laser)
	s.projectors.setDefaults(d.Projector)
	s.lobGroups.setDefaults(d.LobGroup)
	s.customRenderings.setDefaults(d.CustomRendering)
}

// DefaultPrefs returns a copy of every template.
func (s *MemoryStore) DefaultPrefs() simdata.DefaultPrefs {
	return simdata.DefaultPrefs{
		Platform:        simdata.ClonePrefs(s.platforms.defaults),
		Beam:            simdata.ClonePrefs(s.beams.defaults),
		Gate:            simdata.ClonePrefs(s.gates.defaults),
		Laser:           simdata.ClonePrefs(s.lasers.defaults),
		Projector:       simdata.ClonePrefs(s.projectors.defaults),
		LobGroup:        simdata.ClonePrefs(s.lobGroups.defaults),
		CustomRendering: simdata.ClonePrefs(s.customRenderings.defaults),
	}
}

func (s *MemoryStore) DefaultPlatformPrefs() *simdata.PlatformPrefs {
	return simdata.ClonePrefs(s.platforms.defaults)
}

func (s *MemoryStore) DefaultBeamPrefs() *simdata.BeamPrefs {
	return simdata.ClonePrefs(s.beams.defaults)
}

func (s *MemoryStore) DefaultGatePrefs() *simdata.GatePrefs {
	return simdata.ClonePrefs(s.gates.defaults)
}

// Clear removes every entity, data table, scenario generic value and
// category name. Listeners get OnScenarioDelete first. Ids are not reused.
func (s *MemoryStore) Clear() {
	event.Publish(s.bus, ScenarioDeleted{})
	for _, id := range s.nodes.IDs() {
		s.world.Destroy(id)
	}
	s.world.Reset()
	s.tables.Clear()
	s.scenarioGeneric.Flush()
	s.names.Clear()
	s.scenario = simdata.DefaultScenarioProperties()
	s.bounds = emptyBounds()
	s.changed = true
	s.log.Debug("scenario cleared")
}

// NumEntities returns the number of live entities.
func (s *MemoryStore) NumEntities() int { return s.nodes.Len() }
