package slice

import (
	"fmt"

	"github.com/simdata/simstore/internal/simdata"
)

// Transaction is the commit handle for a staged preferences record.
type Transaction interface {
	Commit()
	Release()
}

// PrefsOpener opens a transaction on an entity's live preferences. It
// returns a nil record when the entity does not exist. PrefsRevision
// changes whenever a commit alters the live record.
type PrefsOpener[P any] interface {
	MutablePrefs(id simdata.ObjectID) (*P, Transaction)
	PrefsRevision(id simdata.ObjectID) uint64
}

// CommandSlice holds the time-ordered preference commands of one entity
// and replays them onto its live preferences as the clock moves.
type CommandSlice[P any] struct {
	commands []*simdata.Command[P]

	// cache accumulates every merge command applied through lastUpdateTime.
	cache          *P
	lastUpdateTime float64
	earliestInsert float64
	changed        bool

	// synced is set while the live prefs hold the cache as of revision.
	synced   bool
	revision uint64
}

func NewCommandSlice[P any]() *CommandSlice[P] {
	return &CommandSlice[P]{
		cache:          new(P),
		lastUpdateTime: MinTime,
		earliestInsert: MaxTime,
	}
}

// Insert places cmd in time order. A command already at cmd's time absorbs
// the new patch instead of being duplicated.
func (s *CommandSlice[P]) Insert(cmd *simdata.Command[P]) {
	if cmd.Time < s.earliestInsert {
		s.earliestInsert = cmd.Time
	}
	i := lowerBound(s.commands, cmd.Time)
	if i < len(s.commands) && s.commands[i].Time == cmd.Time {
		existing := s.commands[i]
		if cmd.UpdatePrefs != nil {
			dst := existing.MutableUpdatePrefs()
			simdata.ClearOverlappingRepeated(dst, cmd.UpdatePrefs)
			simdata.MergePrefs(dst, cmd.UpdatePrefs)
		}
		// Same-time commands merge field by field. An unset clear flag
		// does not overwrite a set one.
		existing.IsClearCommand = existing.IsClearCommand || cmd.IsClearCommand
		return
	}
	s.commands = append(s.commands, nil)
	copy(s.commands[i+1:], s.commands[i:])
	s.commands[i] = cmd
}

// Current returns the last command replayed, or nil.
func (s *CommandSlice[P]) Current() *simdata.Command[P] {
	i := upperBound(s.commands, s.lastUpdateTime)
	if i == 0 {
		return nil
	}
	return s.commands[i-1]
}

// HasChanged reports whether the last Update applied any command.
func (s *CommandSlice[P]) HasChanged() bool { return s.changed }

func (s *CommandSlice[P]) NumItems() int { return len(s.commands) }

// Update replays commands through t onto the preferences of entity id.
// Moving forward extends the accumulated state; moving backward, or
// having received a command at or before the replayed horizon, rebuilds
// it from the first command. The accumulated state is merged over the
// live prefs on every call unless no command was crossed and the live
// prefs are unchanged since the last merge.
func (s *CommandSlice[P]) Update(opener PrefsOpener[P], id simdata.ObjectID, t float64) {
	s.changed = false
	if len(s.commands) == 0 || t < s.commands[0].Time {
		s.reset()
		return
	}

	last := s.Current()
	forward := (last == nil || t >= last.Time) && s.earliestInsert > s.lastUpdateTime
	if forward && s.synced && !s.crosses(t) && opener.PrefsRevision(id) == s.revision {
		return
	}

	prefs, txn := opener.MutablePrefs(id)
	if prefs == nil {
		return
	}
	defer txn.Release()

	if forward {
		s.changed = s.advance(prefs, s.lastUpdateTime, t)
	} else {
		for _, path := range simdata.SetFieldPaths(s.cache) {
			mustClear(prefs, path)
		}
		s.reset()
		s.advance(prefs, MinTime, t)
		s.changed = true
	}

	simdata.ClearOverlappingRepeated(prefs, s.cache)
	simdata.MergePrefs(prefs, s.cache)
	txn.Commit()
	s.earliestInsert = MaxTime
	s.synced, s.revision = true, opener.PrefsRevision(id)
}

// crosses reports whether a command lies in (lastUpdateTime, t].
func (s *CommandSlice[P]) crosses(t float64) bool {
	return upperBound(s.commands, t) > upperBound(s.commands, s.lastUpdateTime)
}

// advance applies the commands in (start, t] and reports whether any were.
func (s *CommandSlice[P]) advance(prefs *P, start, t float64) bool {
	if t < start {
		return false
	}
	lo, hi := upperBound(s.commands, start), upperBound(s.commands, t)
	for _, cmd := range s.commands[lo:hi] {
		if cmd.UpdatePrefs != nil {
			if cmd.IsClearCommand {
				for _, path := range simdata.SetFieldPaths(cmd.UpdatePrefs) {
					mustClear(s.cache, path)
					mustClear(prefs, path)
				}
			} else {
				simdata.ClearOverlappingRepeated(s.cache, cmd.UpdatePrefs)
				simdata.MergePrefs(s.cache, cmd.UpdatePrefs)
			}
		}
		s.lastUpdateTime = cmd.Time
	}
	return hi > lo
}

func (s *CommandSlice[P]) reset() {
	s.changed = true
	s.synced = false
	s.cache = new(P)
	s.lastUpdateTime = MinTime
	s.earliestInsert = MaxTime
}

func mustClear(p any, path string) {
	if err := simdata.ClearFieldPath(p, path); err != nil {
		panic(fmt.Sprintf("slice: clear command: %v", err))
	}
}

// Modify calls fn on every command. Commands for which fn returns a
// negative value are deleted. The next Update rebuilds from the start.
func (s *CommandSlice[P]) Modify(fn func(*simdata.Command[P]) int) {
	kept := s.commands[:0]
	for _, cmd := range s.commands {
		if fn(cmd) >= 0 {
			kept = append(kept, cmd)
		}
	}
	clear(s.commands[len(kept):])
	s.commands = kept
	s.forceReplay()
}

func (s *CommandSlice[P]) forceReplay() {
	s.earliestInsert = MinTime
}

// LowerBound returns an iterator positioned before the first command with
// time >= t.
func (s *CommandSlice[P]) LowerBound(t float64) *Iterator[*simdata.Command[P]] {
	return newIterator(s.commands, lowerBound(s.commands, t))
}

// UpperBound returns an iterator positioned before the first command with
// time > t.
func (s *CommandSlice[P]) UpperBound(t float64) *Iterator[*simdata.Command[P]] {
	return newIterator(s.commands, upperBound(s.commands, t))
}

func (s *CommandSlice[P]) Visit(fn func(*simdata.Command[P])) {
	for _, cmd := range s.commands {
		fn(cmd)
	}
}

func (s *CommandSlice[P]) FirstTime() float64 {
	if len(s.commands) == 0 {
		return MaxTime
	}
	return s.commands[0].Time
}

func (s *CommandSlice[P]) FirstTimedTime() float64 {
	if i := upperBound(s.commands, simdata.StaticTime); i < len(s.commands) {
		return s.commands[i].Time
	}
	return MaxTime
}

func (s *CommandSlice[P]) LastTime() float64 {
	if len(s.commands) == 0 {
		return MinTime
	}
	return s.commands[len(s.commands)-1].Time
}

// DeltaTime is always -1: commands carry no interpolation distance.
func (s *CommandSlice[P]) DeltaTime(float64) float64 { return -1 }

func (s *CommandSlice[P]) LimitByPoints(limit uint32) {
	s.dropFront(pointsToDrop(len(s.commands), limit))
}

func (s *CommandSlice[P]) LimitByTime(window float64) {
	if window < 0 || len(s.commands) == 0 {
		return
	}
	s.dropFront(timeToDrop(s.commands, s.LastTime()-window))
}

func (s *CommandSlice[P]) LimitByPrefs(prefs *simdata.CommonPrefs) {
	s.LimitByPoints(prefs.GetDataLimitPoints())
	s.LimitByTime(prefs.GetDataLimitTime())
}

// dropFront removes already-accumulated history; the cache keeps its
// effect so the live preferences do not change.
func (s *CommandSlice[P]) dropFront(n int) {
	if n <= 0 {
		return
	}
	s.commands = removeRange(s.commands, 0, n)
}

// Flush removes every command. With keepStatic a lone static command is
// kept.
func (s *CommandSlice[P]) Flush(keepStatic bool) {
	s.earliestInsert = MaxTime
	if keepStatic && len(s.commands) == 1 && s.commands[0].Time == simdata.StaticTime {
		return
	}
	clear(s.commands)
	s.commands = s.commands[:0]
}

// FlushRange removes commands with start <= time < end.
func (s *CommandSlice[P]) FlushRange(start, end float64) {
	lo, hi := flushRange(s.commands, start, end)
	if lo == hi {
		return
	}
	s.commands = removeRange(s.commands, lo, hi)
	if start <= s.lastUpdateTime {
		s.forceReplay()
	}
}
