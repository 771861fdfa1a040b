package store

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/core/event"
	"github.com/simdata/simstore/internal/core/system"
	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/slice"
)

// registerSystems builds the per-advance pipeline. Hosts run before the
// entities that read them.
func (s *MemoryStore) registerSystems() {
	for _, sys := range []system.Func{
		{P: system.PhaseHosts, Fn: s.updatePlatforms},
		{P: system.PhaseDependents, Fn: s.updateBeams},
		{P: system.PhaseSecondary, Fn: s.updateGates},
		{P: system.PhaseData, Fn: s.updateGenericData},
		{P: system.PhaseData, Fn: s.updateCategoryData},
		{P: system.PhaseLeaves, Fn: s.updateLasers},
		{P: system.PhaseLeaves, Fn: s.updateProjectors},
		{P: system.PhaseLeaves, Fn: s.updateLobGroups},
		{P: system.PhaseLeaves, Fn: s.updateCustomRenderings},
		{P: system.PhaseNotify, Fn: s.notifyChange},
	} {
		s.runner.Register(sys)
	}
}

// Update advances the scenario clock to t and recomputes the current
// update and preferences of every entity. It does nothing when t equals
// the previous time and nothing was committed since.
func (s *MemoryStore) Update(t float64) {
	if !s.changed && t == s.updateTime {
		return
	}
	s.updateTime = t
	s.runner.Tick(t)
}

func (s *MemoryStore) notifyChange(float64) {
	s.changed = false
	event.Emit(s.bus, Changed{})
	s.bus.DispatchAll()
}

// advance moves u to t. A hidden entity (datadraw off) has no current
// update.
func advance[R any, T slice.RecordPtr[R]](s *MemoryStore, u *slice.DataSlice[R, T], common *simdata.CommonPrefs, interpolate bool, t float64) {
	if !common.GetDataDraw() {
		u.ClearChanged()
		u.SetCurrent(nil)
		return
	}
	if interpolate && s.interpolate {
		u.UpdateInterpolated(t, s.interp)
		return
	}
	u.Update(t)
}

// expired reports whether t lies outside the timed span of u.
func expired(u *PlatformSlice, t float64) bool {
	if u.NumItems() == 0 || u.FirstTime() == simdata.StaticTime {
		return false
	}
	return t < u.FirstTime() || t > u.LastTime()
}

func (s *MemoryStore) updatePlatforms(t float64) {
	op := s.platforms.opener(s)
	s.platforms.table.Each(func(id simdata.ObjectID, e *entity[simdata.PlatformProperties, simdata.PlatformPrefs]) {
		e.commands.Update(op, id, t)
		u := sliceOf(s.platformUpdates, id)
		if u == nil {
			return
		}
		if s.fileMode && expired(u, t) {
			u.ClearChanged()
			u.SetCurrent(nil)
			return
		}
		advance(s, u, e.prefs.GetCommonPrefs(), e.prefs.GetInterpolatePos(), t)
	})
}

func (s *MemoryStore) updateBeams(t float64) {
	op := s.beams.opener(s)
	s.beams.table.Each(func(id simdata.ObjectID, e *entity[simdata.BeamProperties, simdata.BeamPrefs]) {
		e.commands.Update(op, id, t)
		u := sliceOf(s.beamUpdates, id)
		if u == nil {
			return
		}
		advance(s, u, e.prefs.GetCommonPrefs(), e.prefs.GetInterpolateBeamPos(), t)
		if e.props.Type == simdata.BeamTarget && u.Current() != nil {
			s.aimAtTarget(e, u, t)
		}
	})
}

// aimAtTarget points a target beam from its host platform at its target
// platform. The beam is off when either platform has no current update.
func (s *MemoryStore) aimAtTarget(e *entity[simdata.BeamProperties, simdata.BeamPrefs], u *BeamSlice, t float64) {
	u.Invalidate()
	host := sliceOf(s.platformUpdates, e.props.HostID)
	target := sliceOf(s.platformUpdates, simdata.ObjectID(e.prefs.GetTargetID()))
	if host == nil || target == nil || host.Current() == nil || target.Current() == nil {
		u.SetCurrent(nil)
		return
	}
	out := u.CurrentInterpolated()
	out.Time = t
	out.Azimuth, out.Elevation, out.Range = azElRange(host.Current().Position(), target.Current().Position())
	u.SetCurrent(out)
	u.SetChanged()
}

// azElRange returns the bearing from a to b in a local frame where x is
// east, y north and z up.
func azElRange(a, b [3]float64) (az, el, rng float64) {
	dx, dy, dz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	ground := math.Hypot(dx, dy)
	rng = math.Hypot(ground, dz)
	if rng == 0 {
		return 0, 0, 0
	}
	az = math.Atan2(dx, dy)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az, math.Atan2(dz, ground), rng
}

func (s *MemoryStore) updateGates(t float64) {
	op := s.gates.opener(s)
	s.gates.table.Each(func(id simdata.ObjectID, e *entity[simdata.GateProperties, simdata.GatePrefs]) {
		e.commands.Update(op, id, t)
		u := sliceOf(s.gateUpdates, id)
		if u == nil {
			return
		}
		advance(s, u, e.prefs.GetCommonPrefs(), e.prefs.GetInterpolateGatePos(), t)
		s.resolveGate(e, u)
	})
}

// resolveGate fills in what a gate takes from its host beam: az/el for
// target gates and the beam widths for a width or height of -1.
func (s *MemoryStore) resolveGate(e *entity[simdata.GateProperties, simdata.GatePrefs], u *GateSlice) {
	cur := u.Current()
	if cur == nil {
		return
	}
	target := e.props.Type == simdata.GateTarget
	useBeamWidth, useBeamHeight := cur.Width < 0, cur.Height < 0
	if !target && !useBeamWidth && !useBeamHeight {
		return
	}
	u.Invalidate()

	beam := s.beams.get(e.props.HostID)
	beamUpdates := sliceOf(s.beamUpdates, e.props.HostID)
	if target && (beamUpdates == nil || beamUpdates.Current() == nil) {
		u.SetCurrent(nil)
		return
	}

	out := u.CurrentInterpolated()
	if out != cur {
		*out = *cur
	}
	if target {
		bc := beamUpdates.Current()
		out.Azimuth, out.Elevation = bc.Azimuth, bc.Elevation
	}
	if beam != nil {
		if useBeamWidth {
			out.Width = beam.prefs.GetHorizontalWidth()
		}
		if useBeamHeight {
			out.Height = beam.prefs.GetVerticalWidth()
		}
	}
	u.SetCurrent(out)
	u.SetChanged()
}

func (s *MemoryStore) updateLasers(t float64) {
	op := s.lasers.opener(s)
	s.lasers.table.Each(func(id simdata.ObjectID, e *entity[simdata.LaserProperties, simdata.LaserPrefs]) {
		e.commands.Update(op, id, t)
		if u := sliceOf(s.laserUpdates, id); u != nil {
			advance(s, u, e.prefs.GetCommonPrefs(), true, t)
		}
	})
}

func (s *MemoryStore) updateProjectors(t float64) {
	op := s.projectors.opener(s)
	s.projectors.table.Each(func(id simdata.ObjectID, e *entity[simdata.ProjectorProperties, simdata.ProjectorPrefs]) {
		e.commands.Update(op, id, t)
		if u := sliceOf(s.projectorUpdates, id); u != nil {
			advance(s, u, e.prefs.GetCommonPrefs(), e.prefs.GetInterpolateProjectorFov(), t)
		}
	})
}

// lobWindow identifies the records merged into a lob group's current
// update.
type lobWindow struct {
	first, last *simdata.LobGroupUpdate
	count       int
}

func (s *MemoryStore) updateLobGroups(t float64) {
	op := s.lobGroups.opener(s)
	s.lobGroups.table.Each(func(id simdata.ObjectID, e *entity[simdata.LobGroupProperties, simdata.LobGroupPrefs]) {
		e.commands.Update(op, id, t)
		u := sliceOf(s.lobUpdates, id)
		if u == nil {
			return
		}
		advance(s, u, e.prefs.GetCommonPrefs(), false, t)
		s.windowLobGroup(id, e.prefs, u, t)
	})
}

// windowLobGroup replaces the current record of a lob group with the
// merge of its most recent records at or before t, bounded by the
// maxdatapoints and maxdataseconds preferences.
func (s *MemoryStore) windowLobGroup(id simdata.ObjectID, prefs *simdata.LobGroupPrefs, u *LobGroupSlice, t float64) {
	latest := u.Current()
	if latest == nil {
		s.lobWindows.Remove(id)
		return
	}
	u.Invalidate()
	maxPoints, maxSeconds := prefs.GetMaxDataPoints(), prefs.GetMaxDataSeconds()

	var recs []*simdata.LobGroupUpdate
	it := u.UpperBound(t)
	for it.HasPrevious() {
		rec := it.PeekPrevious()
		if maxPoints > 0 && uint32(len(recs)) >= maxPoints {
			break
		}
		if maxSeconds > 0 && len(recs) > 0 && latest.Time-rec.Time >= maxSeconds {
			break
		}
		recs = append(recs, it.Previous())
	}
	slices.Reverse(recs)

	out := u.CurrentInterpolated()
	out.Time = latest.Time
	out.Points = out.Points[:0]
	for _, r := range recs {
		out.Points = append(out.Points, r.Points...)
	}
	u.SetCurrent(out)
	u.ClearChanged()

	w := lobWindow{first: recs[0], last: latest, count: len(recs)}
	prev, ok := s.lobWindows.Get(id)
	if !ok || *prev != w {
		u.SetChanged()
		s.lobWindows.Set(id, &w)
	}
}

func (s *MemoryStore) updateCustomRenderings(t float64) {
	op := s.customRenderings.opener(s)
	s.customRenderings.table.Each(func(id simdata.ObjectID, e *entity[simdata.CustomRenderingProperties, simdata.CustomRenderingPrefs]) {
		e.commands.Update(op, id, t)
	})
}

func (s *MemoryStore) updateGenericData(t float64) {
	s.scenarioGeneric.Update(t)
	s.nodes.Each(func(_ simdata.ObjectID, n *node) {
		n.generic.Update(t)
	})
}

func (s *MemoryStore) updateCategoryData(t float64) {
	s.nodes.Each(func(id simdata.ObjectID, n *node) {
		if n.category.Update(t) {
			s.log.Debug("category data changed", zap.Uint64("id", uint64(id)), zap.Float64("time", t))
			event.Publish(s.bus, CategoryDataChanged{ID: id, Type: n.typ})
		}
	})
}
