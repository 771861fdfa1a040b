package slice

import (
	"slices"

	"github.com/simdata/simstore/internal/simdata"
)

type genericPoint struct {
	time     float64
	duration float64
	value    string
}

func (p *genericPoint) GetTime() float64 { return p.time }

// live reports whether p is still in effect at t.
func (p *genericPoint) live(t float64) bool {
	return p.duration < 0 || t < p.time+p.duration
}

type genericKey struct {
	points []*genericPoint
	dirty  bool
}

// GenericDataSlice holds free-form key/value data for one entity. Each key
// has its own history; the current value of a key is its latest value at
// or before the update time that has not expired.
type GenericDataSlice struct {
	keys     map[string]*genericKey
	current  simdata.GenericData
	lastTime float64
	force    bool
	changed  bool
}

func NewGenericDataSlice() *GenericDataSlice {
	return &GenericDataSlice{
		keys:     make(map[string]*genericKey),
		lastTime: simdata.StaticTime,
	}
}

// Insert adds every entry of data at data.Time. An entry whose value equals
// the key's value at that time is dropped; with ignoreDuplicates, so is an
// entry repeating the previous value of its key.
func (s *GenericDataSlice) Insert(data *simdata.GenericData, ignoreDuplicates bool) {
	for _, e := range data.Entries {
		k, ok := s.keys[e.Key]
		if !ok {
			k = &genericKey{}
			s.keys[e.Key] = k
		}
		k.insert(&genericPoint{time: data.Time, duration: data.Duration, value: e.Value}, ignoreDuplicates)
	}
}

func (k *genericKey) insert(p *genericPoint, ignoreDuplicates bool) {
	i := lowerBound(k.points, p.time)
	if i < len(k.points) && k.points[i].time == p.time {
		if k.points[i].value == p.value && k.points[i].duration == p.duration {
			return
		}
		k.points[i] = p
		k.dirty = true
		return
	}
	if ignoreDuplicates && i > 0 && k.points[i-1].value == p.value {
		return
	}
	k.points = slices.Insert(k.points, i, p)
	k.dirty = true
}

// RemoveTag drops all data for key and reports whether it existed.
func (s *GenericDataSlice) RemoveTag(key string) bool {
	if _, ok := s.keys[key]; !ok {
		return false
	}
	delete(s.keys, key)
	s.force = true
	return true
}

// Update recomputes the current entries for time t and reports whether
// they differ from the previous ones.
func (s *GenericDataSlice) Update(t float64) bool {
	if !s.isDirty() && t == s.lastTime {
		s.changed = false
		return false
	}
	s.lastTime = t
	s.force = false

	names := make([]string, 0, len(s.keys))
	for name := range s.keys {
		names = append(names, name)
	}
	slices.Sort(names)

	entries := make([]simdata.GenericEntry, 0, len(names))
	for _, name := range names {
		k := s.keys[name]
		k.dirty = false
		i := upperBound(k.points, t)
		if i == 0 || !k.points[i-1].live(t) {
			continue
		}
		entries = append(entries, simdata.GenericEntry{Key: name, Value: k.points[i-1].value})
	}
	s.changed = !slices.Equal(entries, s.current.Entries)
	s.current = simdata.GenericData{Time: t, Duration: -1, Entries: entries}
	return s.changed
}

func (s *GenericDataSlice) isDirty() bool {
	if s.force {
		return true
	}
	for _, k := range s.keys {
		if k.dirty {
			return true
		}
	}
	return false
}

// Current returns the entries in effect at the last update time, sorted
// by key.
func (s *GenericDataSlice) Current() *simdata.GenericData { return &s.current }

func (s *GenericDataSlice) HasChanged() bool { return s.changed }

// Value returns the current value of key.
func (s *GenericDataSlice) Value(key string) (string, bool) {
	for _, e := range s.current.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// NumItems returns the number of stored key/value points.
func (s *GenericDataSlice) NumItems() int {
	n := 0
	for _, k := range s.keys {
		n += len(k.points)
	}
	return n
}

// Visit calls fn once per distinct time, in time order, with every entry
// stamped at that time.
func (s *GenericDataSlice) Visit(fn func(*simdata.GenericData)) {
	byTime := make(map[float64]*simdata.GenericData)
	var times []float64
	names := make([]string, 0, len(s.keys))
	for name := range s.keys {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, p := range s.keys[name].points {
			d, ok := byTime[p.time]
			if !ok {
				d = &simdata.GenericData{Time: p.time, Duration: -1}
				byTime[p.time] = d
				times = append(times, p.time)
			}
			d.Entries = append(d.Entries, simdata.GenericEntry{Key: name, Value: p.value})
		}
	}
	slices.Sort(times)
	for _, t := range times {
		fn(byTime[t])
	}
}

// LimitByPrefs applies the point and time limits of prefs to every key.
func (s *GenericDataSlice) LimitByPrefs(prefs *simdata.CommonPrefs) {
	limit, window := prefs.GetDataLimitPoints(), prefs.GetDataLimitTime()
	for _, k := range s.keys {
		n := pointsToDrop(len(k.points), limit)
		if n > 0 {
			k.points = removeRange(k.points, 0, n)
			k.dirty = true
		}
		if window > 0 && len(k.points) > 0 {
			n = timeToDrop(k.points, k.points[len(k.points)-1].time-window)
			if n > 0 {
				k.points = removeRange(k.points, 0, n)
				k.dirty = true
			}
		}
	}
}

// Flush removes every key.
func (s *GenericDataSlice) Flush() {
	clear(s.keys)
	s.current = simdata.GenericData{}
	s.lastTime = simdata.StaticTime
	s.force = true
}

// FlushRange removes points with start <= time < end.
func (s *GenericDataSlice) FlushRange(start, end float64) {
	for _, k := range s.keys {
		lo, hi := flushRange(k.points, start, end)
		if lo < hi {
			k.points = removeRange(k.points, lo, hi)
			k.dirty = true
		}
	}
	s.lastTime = simdata.StaticTime
}
