package slice

import "github.com/simdata/simstore/internal/simdata"

// RecordPtr constrains T to a pointer to R that is a time-stamped record.
// It lets a slice allocate its own scratch record.
type RecordPtr[R any] interface {
	*R
	simdata.Record
}

// forwardScan is how many records Update walks forward from the cursor
// before falling back to binary search.
const forwardScan = 4

// DataSlice is the time-ordered update history of one entity. Readers use
// Current after the clock driver calls Update or UpdateInterpolated.
type DataSlice[R any, T RecordPtr[R]] struct {
	updates []T

	current      T
	scratch      T
	changed      bool
	dirty        bool
	interpolated bool
	boundsLow    T
	boundsHigh   T

	cursor      int
	cursorValid bool

	notify func()
}

func NewDataSlice[R any, T RecordPtr[R]]() *DataSlice[R, T] {
	return &DataSlice[R, T]{}
}

// SetChangeNotifier installs fn, called whenever data limiting removes
// records.
func (s *DataSlice[R, T]) SetChangeNotifier(fn func()) { s.notify = fn }

// Insert places r in time order. A record already at r's time is replaced.
func (s *DataSlice[R, T]) Insert(r T) {
	t := r.GetTime()
	n := len(s.updates)
	if n == 0 || s.updates[n-1].GetTime() < t {
		s.updates = append(s.updates, r)
		s.dirty = true
		return
	}
	i := lowerBound(s.updates, t)
	if s.updates[i].GetTime() == t {
		if s.current == s.updates[i] {
			s.SetCurrent(nil)
		}
		s.updates[i] = r
		s.dirty = true
		return
	}
	s.updates = append(s.updates, nil)
	copy(s.updates[i+1:], s.updates[i:])
	s.updates[i] = r
	s.cursorValid = false
	s.dirty = true
}

// Current returns the record selected by the last update, or nil.
func (s *DataSlice[R, T]) Current() T { return s.current }

func (s *DataSlice[R, T]) NumItems() int { return len(s.updates) }

// HasChanged reports whether the last update selected a different record
// (by identity) or produced an interpolated one.
func (s *DataSlice[R, T]) HasChanged() bool { return s.changed }

// IsDirty reports whether records were added or removed since the last
// update.
func (s *DataSlice[R, T]) IsDirty() bool { return s.dirty }

func (s *DataSlice[R, T]) SetChanged()   { s.changed = true }
func (s *DataSlice[R, T]) ClearChanged() { s.changed = false }

// SetCurrent overrides the current record. The change flag is raised when
// the identity differs from the previous current record.
func (s *DataSlice[R, T]) SetCurrent(r T) {
	if s.current != r {
		s.changed = true
		s.current = r
	}
}

// CurrentInterpolated returns the slice-owned scratch record. Interpolated
// results live here, and callers that synthesize a current value (target
// beams and gates) fill it and pass it to SetCurrent.
func (s *DataSlice[R, T]) CurrentInterpolated() T {
	if s.scratch == nil {
		s.scratch = T(new(R))
	}
	return s.scratch
}

// Invalidate makes the next update locate its record again even when the
// time has not moved. Callers that synthesize the current record use it.
func (s *DataSlice[R, T]) Invalidate() { s.dirty = true }

func (s *DataSlice[R, T]) IsInterpolated() bool { return s.interpolated }

// InterpolationBounds returns the records bracketing the current
// interpolated record. Both are nil when current is not interpolated.
func (s *DataSlice[R, T]) InterpolationBounds() (low, high T) {
	return s.boundsLow, s.boundsHigh
}

func (s *DataSlice[R, T]) setInterpolated(on bool, low, high T) {
	s.interpolated = on
	s.boundsLow, s.boundsHigh = low, high
	if on {
		s.changed = true
	}
}

// LowerBound returns an iterator positioned before the first record with
// time >= t.
func (s *DataSlice[R, T]) LowerBound(t float64) *Iterator[T] {
	return newIterator(s.updates, lowerBound(s.updates, t))
}

// UpperBound returns an iterator positioned before the first record with
// time > t.
func (s *DataSlice[R, T]) UpperBound(t float64) *Iterator[T] {
	return newIterator(s.updates, upperBound(s.updates, t))
}

// Visit calls fn for every record in time order.
func (s *DataSlice[R, T]) Visit(fn func(T)) {
	for _, r := range s.updates {
		fn(r)
	}
}

// FirstTime returns the earliest record time, or MaxTime when empty.
func (s *DataSlice[R, T]) FirstTime() float64 {
	if len(s.updates) == 0 {
		return MaxTime
	}
	return s.updates[0].GetTime()
}

// FirstTimedTime is FirstTime ignoring static records.
func (s *DataSlice[R, T]) FirstTimedTime() float64 {
	if i := upperBound(s.updates, simdata.StaticTime); i < len(s.updates) {
		return s.updates[i].GetTime()
	}
	return MaxTime
}

// LastTime returns the latest record time, or MinTime when empty.
func (s *DataSlice[R, T]) LastTime() float64 {
	if len(s.updates) == 0 {
		return MinTime
	}
	return s.updates[len(s.updates)-1].GetTime()
}

// DeltaTime returns how long before t the applicable record was stamped:
// 0 for an exact match, -1 when there is no applicable timed record.
func (s *DataSlice[R, T]) DeltaTime(t float64) float64 {
	if len(s.updates) == 0 || t < 0 {
		return -1
	}
	i := upperBound(s.updates, t)
	if i == 0 {
		return -1
	}
	prev := s.updates[i-1].GetTime()
	if prev == simdata.StaticTime {
		return -1
	}
	return t - prev
}

func (s *DataSlice[R, T]) fastPath(t float64) bool {
	if s.dirty || s.current == nil {
		return false
	}
	ct := s.current.GetTime()
	return ct == t || ct == simdata.StaticTime
}

// locate returns the index of the latest record with time <= t, or -1.
// It starts from the cursor when the cursor is at or before t.
func (s *DataSlice[R, T]) locate(t float64) int {
	n := len(s.updates)
	if n == 0 {
		return -1
	}
	if s.cursorValid && s.cursor >= 0 && s.cursor < n && s.updates[s.cursor].GetTime() <= t {
		c := s.cursor
		for step := 0; step < forwardScan && c+1 < n && s.updates[c+1].GetTime() <= t; step++ {
			c++
		}
		if c+1 >= n || s.updates[c+1].GetTime() > t {
			return c
		}
		return c + upperBound(s.updates[c+1:], t)
	}
	return upperBound(s.updates, t) - 1
}

// Update selects the latest record with time <= t as current.
func (s *DataSlice[R, T]) Update(t float64) {
	s.changed = false
	if !s.interpolated && s.fastPath(t) {
		return
	}
	s.dirty = false
	s.setInterpolated(false, nil, nil)

	idx := s.locate(t)
	s.cursor, s.cursorValid = idx, idx >= 0
	if idx >= 0 {
		s.SetCurrent(s.updates[idx])
	} else {
		s.SetCurrent(nil)
	}
}

// UpdateInterpolated behaves like Update, except that a time strictly
// between two timed records yields a record blended by interp. Record
// types that do not implement simdata.Lerper are never interpolated.
func (s *DataSlice[R, T]) UpdateInterpolated(t float64, interp simdata.Interpolator) {
	if interp == nil {
		s.Update(t)
		return
	}
	s.changed = false
	if s.fastPath(t) {
		return
	}
	s.dirty = false

	idx := s.locate(t)
	s.cursor, s.cursorValid = idx, idx >= 0
	if idx < 0 {
		s.SetCurrent(nil)
		s.setInterpolated(false, nil, nil)
		return
	}
	low := s.updates[idx]
	if idx+1 < len(s.updates) {
		high := s.updates[idx+1]
		lt, ht := low.GetTime(), high.GetTime()
		if lt != t && lt != simdata.StaticTime && ht != simdata.StaticTime {
			if lerper, ok := any(low).(simdata.Lerper[T]); ok {
				out := s.CurrentInterpolated()
				lerper.LerpInto(out, high, t, interp.Factor(lt, t, ht))
				s.SetCurrent(out)
				s.setInterpolated(true, low, high)
				return
			}
		}
	}
	s.SetCurrent(low)
	s.setInterpolated(false, nil, nil)
}

// LimitByPoints drops the oldest records until at most limit remain. Zero
// means unlimited.
func (s *DataSlice[R, T]) LimitByPoints(limit uint32) {
	s.dropFront(pointsToDrop(len(s.updates), limit))
}

// LimitByTime drops records older than LastTime()-window, always keeping
// at least one. A negative window disables the limit.
func (s *DataSlice[R, T]) LimitByTime(window float64) {
	if window < 0 || len(s.updates) == 0 {
		return
	}
	s.dropFront(timeToDrop(s.updates, s.LastTime()-window))
}

// LimitByPrefs applies the point and time limits from prefs.
func (s *DataSlice[R, T]) LimitByPrefs(prefs *simdata.CommonPrefs) {
	s.LimitByPoints(prefs.GetDataLimitPoints())
	s.LimitByTime(prefs.GetDataLimitTime())
}

func (s *DataSlice[R, T]) dropFront(n int) {
	if n <= 0 {
		return
	}
	for _, r := range s.updates[:n] {
		if r == s.current {
			s.current = nil
			s.changed = true
		}
	}
	s.updates = removeRange(s.updates, 0, n)
	s.cursorValid = false
	s.dirty = true
	if s.notify != nil {
		s.notify()
	}
}

// Flush removes every record. With keepStatic, a slice holding only a
// single static record is left untouched.
func (s *DataSlice[R, T]) Flush(keepStatic bool) {
	s.dirty = true
	if keepStatic && len(s.updates) == 1 && s.updates[0].GetTime() == simdata.StaticTime {
		return
	}
	if len(s.updates) == 0 {
		return
	}
	clear(s.updates)
	s.updates = s.updates[:0]
	s.cursorValid = false
	s.SetCurrent(nil)
	s.setInterpolated(false, nil, nil)
}

// FlushRange removes records with start <= time < end.
func (s *DataSlice[R, T]) FlushRange(start, end float64) {
	s.dirty = true
	lo, hi := flushRange(s.updates, start, end)
	if lo == hi {
		return
	}
	s.updates = removeRange(s.updates, lo, hi)
	s.cursorValid = false
	s.SetCurrent(nil)
	s.setInterpolated(false, nil, nil)
}

// FlushKeepStatic removes every record except those at the static time.
func (s *DataSlice[R, T]) FlushKeepStatic() {
	s.dirty = true
	n := upperBound(s.updates, simdata.StaticTime)
	if n == len(s.updates) {
		return
	}
	if s.current != nil && s.current.GetTime() != simdata.StaticTime {
		s.SetCurrent(nil)
	}
	clear(s.updates[n:])
	s.updates = s.updates[:n]
	s.cursorValid = false
	s.setInterpolated(false, nil, nil)
}
