// Package category interns category names and values, stores per-entity
// category data over time, and filters entities by their category values.
package category

import (
	"errors"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/simdata/simstore/internal/core/event"
)

// Sentinel ints. Interned ids are always positive.
const (
	NoCategoryName        = -1
	NoCategoryValue       = -1
	NoCategoryValueAtTime = -2
	UnlistedCategoryValue = -3
)

const (
	NoCategoryNameString        = "No Name"
	NoCategoryValueString       = "No Value"
	NoCategoryValueAtTimeString = "No Value"
	UnlistedCategoryValueString = "Unlisted Value"
)

// ErrNotEmpty is returned when a setting can only change before any name
// has been interned.
var ErrNotEmpty = errors.New("category names already interned")

// Listener is notified as the vocabulary grows or is cleared.
type Listener interface {
	OnAddCategory(nameInt int)
	OnAddValue(nameInt, valueInt int)
	OnClear()
	DoneClearing()
}

// NameManager interns category names and values. Names and values share
// one id space, so a string used both as a name and as a value maps to one
// int.
type NameManager struct {
	caseSensitive bool
	upper         cases.Caser
	next          int
	ids           map[string]int
	strs          map[int]string
	values        map[int][]int
	listeners     event.List[Listener]
}

func NewNameManager() *NameManager {
	return &NameManager{
		caseSensitive: true,
		upper:         cases.Upper(language.Und),
		next:          1,
		ids:           make(map[string]int),
		strs:          make(map[int]string),
		values:        make(map[int][]int),
	}
}

func (m *NameManager) AddListener(l Listener)    { m.listeners.Add(l) }
func (m *NameManager) RemoveListener(l Listener) { m.listeners.Remove(l) }

// SetCaseSensitive selects case-sensitive or case-folded lookup. It fails
// with ErrNotEmpty once anything is interned.
func (m *NameManager) SetCaseSensitive(on bool) error {
	if len(m.ids) > 0 {
		return ErrNotEmpty
	}
	m.caseSensitive = on
	return nil
}

func (m *NameManager) CaseSensitive() bool { return m.caseSensitive }

func (m *NameManager) key(s string) string {
	if m.caseSensitive {
		return s
	}
	return m.upper.String(s)
}

// intern returns the id of s, creating it if needed. The first spelling
// seen is kept for display.
func (m *NameManager) intern(s string) int {
	k := m.key(s)
	if id, ok := m.ids[k]; ok {
		return id
	}
	id := m.next
	m.next++
	m.ids[k] = id
	m.strs[id] = s
	return id
}

// AddCategoryName interns name as a category and returns its int.
func (m *NameManager) AddCategoryName(name string) int {
	id := m.intern(name)
	if _, ok := m.values[id]; !ok {
		m.values[id] = nil
		m.listeners.Each(func(l Listener) { l.OnAddCategory(id) })
	}
	return id
}

// AddCategoryValue interns value under category nameInt and returns its int.
func (m *NameManager) AddCategoryValue(nameInt int, value string) int {
	id := m.intern(value)
	if slices.Contains(m.values[nameInt], id) {
		return id
	}
	m.values[nameInt] = append(m.values[nameInt], id)
	m.listeners.Each(func(l Listener) { l.OnAddValue(nameInt, id) })
	return id
}

// NameToInt returns the int of a category name, or NoCategoryName.
func (m *NameManager) NameToInt(name string) int {
	id, ok := m.ids[m.key(name)]
	if !ok {
		return NoCategoryName
	}
	if _, isName := m.values[id]; !isName {
		return NoCategoryName
	}
	return id
}

// ValueToInt returns the int of value within category nameInt, or
// NoCategoryValue.
func (m *NameManager) ValueToInt(nameInt int, value string) int {
	id, ok := m.ids[m.key(value)]
	if !ok || !slices.Contains(m.values[nameInt], id) {
		return NoCategoryValue
	}
	return id
}

// NameIntToString returns the display string of an interned int or
// sentinel, or "" when unknown.
func (m *NameManager) NameIntToString(id int) string {
	if s, ok := m.strs[id]; ok {
		return s
	}
	switch id {
	case NoCategoryName:
		return NoCategoryNameString
	case NoCategoryValueAtTime:
		return NoCategoryValueAtTimeString
	case UnlistedCategoryValue:
		return UnlistedCategoryValueString
	}
	return ""
}

// ValueIntToString is NameIntToString; names and values share ids. The
// NoCategoryValue sentinel reads as "No Value" here.
func (m *NameManager) ValueIntToString(id int) string {
	if id == NoCategoryValue {
		if _, ok := m.strs[id]; !ok {
			return NoCategoryValueString
		}
	}
	return m.NameIntToString(id)
}

// AllCategoryNameInts returns every category name int in ascending order.
func (m *NameManager) AllCategoryNameInts() []int {
	out := make([]int, 0, len(m.values))
	for id := range m.values {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// AllCategoryNames returns the display names in ascending int order.
func (m *NameManager) AllCategoryNames() []string {
	ids := m.AllCategoryNameInts()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.strs[id]
	}
	return out
}

// AllValueIntsInCategory returns the value ints of nameInt in insertion
// order.
func (m *NameManager) AllValueIntsInCategory(nameInt int) []int {
	return slices.Clone(m.values[nameInt])
}

func (m *NameManager) AllValuesInCategory(nameInt int) []string {
	ids := m.values[nameInt]
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.strs[id]
	}
	return out
}

// RemoveCategory forgets the category's value list. Interned strings stay.
func (m *NameManager) RemoveCategory(nameInt int) {
	delete(m.values, nameInt)
}

func (m *NameManager) RemoveValue(nameInt, valueInt int) {
	vals := m.values[nameInt]
	if i := slices.Index(vals, valueInt); i >= 0 {
		m.values[nameInt] = slices.Delete(vals, i, i+1)
	}
}

// Clear forgets every name and value. Ids keep increasing afterwards.
func (m *NameManager) Clear() {
	clear(m.ids)
	clear(m.strs)
	clear(m.values)
	m.listeners.Each(func(l Listener) { l.OnClear() })
	m.listeners.Each(func(l Listener) { l.DoneClearing() })
}
