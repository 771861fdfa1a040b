package category

import (
	"slices"

	"github.com/simdata/simstore/internal/simdata"
)

type timeValue struct {
	time  float64
	value int
}

type timeValues struct {
	entries    []timeValue
	lastValue  int
	hasCurrent bool
}

func (tv *timeValues) upperBound(t float64) int {
	lo, hi := 0, len(tv.entries)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if tv.entries[mid].time <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (tv *timeValues) insert(t float64, value int) {
	n := len(tv.entries)
	if n == 0 || tv.entries[n-1].time < t {
		tv.entries = append(tv.entries, timeValue{t, value})
		return
	}
	i := tv.upperBound(t)
	if i > 0 && tv.entries[i-1].time == t {
		tv.entries[i-1].value = value
		return
	}
	tv.entries = slices.Insert(tv.entries, i, timeValue{t, value})
}

// at returns the value in effect at t.
func (tv *timeValues) at(t float64) (int, bool) {
	i := tv.upperBound(t)
	if i == 0 {
		return 0, false
	}
	return tv.entries[i-1].value, true
}

// staticDefault reports whether the first entry is a static default,
// which data limiting preserves.
func (tv *timeValues) staticDefault() (timeValue, bool) {
	if len(tv.entries) > 0 && tv.entries[0].time == simdata.StaticTime {
		return tv.entries[0], true
	}
	return timeValue{}, false
}

func (tv *timeValues) limitByPoints(limit uint32) {
	if limit == 0 || len(tv.entries) <= int(limit) {
		return
	}
	def, keep := tv.staticDefault()
	drop := len(tv.entries) - int(limit)
	if keep && drop == 1 {
		return
	}
	tv.entries = slices.Delete(tv.entries, 0, drop)
	if keep {
		tv.entries = slices.Insert(tv.entries, 0, def)
	}
}

func (tv *timeValues) limitByTime(window float64) {
	if window <= 0 || len(tv.entries) < 2 {
		return
	}
	def, keep := tv.staticDefault()
	if keep && len(tv.entries) < 3 {
		return
	}
	cutoff := tv.entries[len(tv.entries)-1].time - window
	i, _ := slices.BinarySearchFunc(tv.entries, cutoff, func(e timeValue, t float64) int {
		switch {
		case e.time < t:
			return -1
		case e.time > t:
			return 1
		}
		return 0
	})
	if i == 0 {
		return
	}
	tv.entries = slices.Delete(tv.entries, 0, i)
	if keep {
		tv.entries = slices.Insert(tv.entries, 0, def)
	}
}

// Pair is one category name/value in effect for an entity.
type Pair struct {
	Name  int
	Value int
}

// DataSlice holds the category data of one entity: for each category name
// a time-ordered list of values.
type DataSlice struct {
	names    *NameManager
	data     map[int]*timeValues
	lastTime float64
	size     int
	dirty    bool
}

func NewDataSlice(names *NameManager) *DataSlice {
	return &DataSlice{
		names:    names,
		data:     make(map[int]*timeValues),
		lastTime: simdata.StaticTime,
	}
}

// Insert interns every entry and stores it at data.Time. A value already
// stored at that time for the same category is overwritten.
func (s *DataSlice) Insert(data *simdata.CategoryData) {
	for _, e := range data.Entries {
		nameInt := s.names.AddCategoryName(e.Key)
		valueInt := s.names.AddCategoryValue(nameInt, e.Value)
		tv, ok := s.data[nameInt]
		if !ok {
			tv = &timeValues{}
			s.data[nameInt] = tv
		}
		before := len(tv.entries)
		tv.insert(data.Time, valueInt)
		s.size += len(tv.entries) - before
	}
}

// Update moves to time t and reports whether any category's current value
// appeared, disappeared or changed.
func (s *DataSlice) Update(t float64) bool {
	changed := s.dirty
	s.dirty = false
	for _, tv := range s.data {
		i := tv.upperBound(t)
		if i == 0 {
			if tv.hasCurrent {
				tv.hasCurrent = false
				changed = true
			}
			continue
		}
		e := tv.entries[i-1]
		if !tv.hasCurrent || e.value != tv.lastValue {
			changed = true
		}
		tv.hasCurrent = true
		tv.lastValue = e.value
	}
	s.lastTime = t
	return changed
}

func (s *DataSlice) LastUpdateTime() float64 { return s.lastTime }

func (s *DataSlice) sortedNames() []int {
	out := make([]int, 0, len(s.data))
	for n := range s.data {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Current returns the name/value pairs in effect at the last update time,
// ordered by name int.
func (s *DataSlice) Current() []Pair {
	var out []Pair
	for _, n := range s.sortedNames() {
		if v, ok := s.data[n].at(s.lastTime); ok {
			out = append(out, Pair{Name: n, Value: v})
		}
	}
	return out
}

// CurrentValues maps each category name int to its current value int.
func (s *DataSlice) CurrentValues() map[int]int {
	out := make(map[int]int, len(s.data))
	for n, tv := range s.data {
		if v, ok := tv.at(s.lastTime); ok {
			out[n] = v
		}
	}
	return out
}

// AllStrings returns the current values as name/value strings.
func (s *DataSlice) AllStrings() [][2]string {
	var out [][2]string
	for _, p := range s.Current() {
		out = append(out, [2]string{s.names.NameIntToString(p.Name), s.names.ValueIntToString(p.Value)})
	}
	return out
}

// AllNameInts returns every category with data, current or not.
func (s *DataSlice) AllNameInts() []int { return s.sortedNames() }

func (s *DataSlice) NumItems() int { return s.size }

// RemovePoint deletes the entry for category nameInt at exactly time, if
// its value is valueInt.
func (s *DataSlice) RemovePoint(time float64, nameInt, valueInt int) bool {
	tv, ok := s.data[nameInt]
	if !ok {
		return false
	}
	i := tv.upperBound(time)
	if i == 0 || tv.entries[i-1].time != time || tv.entries[i-1].value != valueInt {
		return false
	}
	tv.entries = slices.Delete(tv.entries, i-1, i)
	s.size--
	s.dirty = true
	return true
}

// IsDuplicateValue reports whether category name already has value in
// effect at time.
func (s *DataSlice) IsDuplicateValue(time float64, name, value string) bool {
	nameInt := s.names.NameToInt(name)
	tv, ok := s.data[nameInt]
	if !ok {
		return false
	}
	v, ok := tv.at(time)
	return ok && v == s.names.ValueToInt(nameInt, value)
}

// Visit calls fn once per stored entry, grouped by category.
func (s *DataSlice) Visit(fn func(*simdata.CategoryData)) {
	for _, n := range s.sortedNames() {
		for _, e := range s.data[n].entries {
			fn(&simdata.CategoryData{
				Time: e.time,
				Entries: []simdata.CategoryEntry{{
					Key:   s.names.NameIntToString(n),
					Value: s.names.ValueIntToString(e.value),
				}},
			})
		}
	}
}

func (s *DataSlice) recount() {
	s.dirty = true
	s.size = 0
	for _, tv := range s.data {
		s.size += len(tv.entries)
	}
}

// LimitByPrefs applies the point and time limits of prefs. A static default
// entry survives both limits.
func (s *DataSlice) LimitByPrefs(prefs *simdata.CommonPrefs) {
	limit, window := prefs.GetDataLimitPoints(), prefs.GetDataLimitTime()
	for _, tv := range s.data {
		tv.limitByPoints(limit)
		tv.limitByTime(window)
	}
	s.recount()
}

// Flush removes every entry. With keepStatic, static entries stay.
func (s *DataSlice) Flush(keepStatic bool) {
	for n, tv := range s.data {
		if keepStatic {
			if def, ok := tv.staticDefault(); ok {
				tv.entries = append(tv.entries[:0], def)
				continue
			}
		}
		delete(s.data, n)
	}
	s.recount()
}

// FlushRange removes entries with start <= time < end.
func (s *DataSlice) FlushRange(start, end float64) {
	for _, tv := range s.data {
		tv.entries = slices.DeleteFunc(tv.entries, func(e timeValue) bool {
			return e.time >= start && e.time < end
		})
	}
	s.recount()
}
