package category

import (
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/simdata"
)

// Serialization separators.
const (
	catSep    = "`"
	valSep    = "~"
	regExpSep = "^"
)

// ValuesCheck maps a value int (or a value sentinel) to its checked state.
type ValuesCheck map[int]bool

// CategoryValues is the checked state of one category and its values.
type CategoryValues struct {
	Checked bool
	Values  ValuesCheck
}

func (cv CategoryValues) clone() CategoryValues {
	out := CategoryValues{Checked: cv.Checked, Values: make(ValuesCheck, len(cv.Values))}
	for k, v := range cv.Values {
		out.Values[k] = v
	}
	return out
}

// SliceSource resolves an entity's category data.
type SliceSource interface {
	CategoryDataSlice(id simdata.ObjectID) *DataSlice
}

type categoryRegExp struct {
	pattern string
	re      *regexp.Regexp
}

// Filter selects entities by their current category values. A category
// takes part in matching when it is checked and has values, or when it has
// a regular expression.
type Filter struct {
	names      *NameManager
	log        *zap.Logger
	autoUpdate bool
	checks     map[int]CategoryValues
	regExps    map[int]categoryRegExp
}

// NewFilter returns an empty filter over names. With autoUpdate the filter
// starts with every known category checked and follows the vocabulary as it
// grows; call Close to stop following.
func NewFilter(names *NameManager, autoUpdate bool, log *zap.Logger) *Filter {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Filter{
		names:      names,
		log:        log,
		autoUpdate: autoUpdate,
		checks:     make(map[int]CategoryValues),
		regExps:    make(map[int]categoryRegExp),
	}
	if autoUpdate {
		f.BuildFromNames()
		names.AddListener(f)
	}
	return f
}

// Close detaches an auto-updating filter from its name manager.
func (f *Filter) Close() {
	if f.autoUpdate {
		f.names.RemoveListener(f)
	}
}

func (f *Filter) OnAddCategory(nameInt int) { f.AddCategoryName(nameInt) }

func (f *Filter) OnAddValue(nameInt, valueInt int) { f.addCategoryValue(nameInt, valueInt) }

func (f *Filter) OnClear() { f.Clear() }

func (f *Filter) DoneClearing() {}

// AddCategoryName adds a checked category whose "No Value" and "Unlisted
// Value" entries are checked. Existing categories are left alone.
func (f *Filter) AddCategoryName(nameInt int) {
	if _, ok := f.checks[nameInt]; ok {
		return
	}
	f.checks[nameInt] = CategoryValues{
		Checked: true,
		Values: ValuesCheck{
			NoCategoryValueAtTime: true,
			UnlistedCategoryValue: true,
		},
	}
}

func (f *Filter) addCategoryValue(nameInt, valueInt int) {
	f.AddCategoryName(nameInt)
	cv := f.checks[nameInt]
	if _, ok := cv.Values[valueInt]; ok {
		return
	}
	cv.Values[valueInt] = cv.Checked
}

// BuildFromNames adds every category and value of the name manager,
// keeping the state of entries already present and checking new ones.
func (f *Filter) BuildFromNames() {
	old := f.checks
	f.checks = make(map[int]CategoryValues)
	for _, nameInt := range f.names.AllCategoryNameInts() {
		prev, had := old[nameInt]
		cv := CategoryValues{Checked: true, Values: make(ValuesCheck)}
		if had {
			cv.Checked = prev.Checked
		}
		keys := append(f.names.AllValueIntsInCategory(nameInt), NoCategoryValueAtTime, UnlistedCategoryValue)
		for _, v := range keys {
			state := true
			if had {
				if s, ok := prev.Values[v]; ok {
					state = s
				}
			}
			cv.Values[v] = state
		}
		f.checks[nameInt] = cv
	}
}

// Clear removes every category and regular expression.
func (f *Filter) Clear() {
	clear(f.checks)
	clear(f.regExps)
}

// IsEmpty reports whether no category is configured.
func (f *Filter) IsEmpty() bool {
	return len(f.checks) == 0 && len(f.regExps) == 0
}

// SetAll sets the state of every category and value.
func (f *Filter) SetAll(checked bool) {
	for n := range f.checks {
		f.UpdateCategoryFilterName(n, checked)
	}
}

func (f *Filter) setCategory(cv CategoryValues, checked bool) {
	for v := range cv.Values {
		cv.Values[v] = checked
	}
}

// UpdateCategoryFilterName sets a category and all of its values.
func (f *Filter) UpdateCategoryFilterName(nameInt int, checked bool) {
	cv, ok := f.checks[nameInt]
	if !ok {
		return
	}
	f.setCategory(cv, checked)
	cv.Checked = checked
	f.checks[nameInt] = cv
}

// UpdateCategoryFilterValue sets one value. The category becomes checked
// when any of its values is.
func (f *Filter) UpdateCategoryFilterValue(nameInt, valueInt int, checked bool) {
	cv, ok := f.checks[nameInt]
	if !ok {
		return
	}
	if _, ok := cv.Values[valueInt]; !ok {
		return
	}
	cv.Values[valueInt] = checked
	cv.Checked = checked
	if !checked {
		for _, s := range cv.Values {
			if s {
				cv.Checked = true
				break
			}
		}
	}
	f.checks[nameInt] = cv
}

// SetCategoryRegExp attaches pattern to a category. An empty pattern
// removes it; a pattern that does not compile is ignored.
func (f *Filter) SetCategoryRegExp(nameInt int, pattern string) {
	if pattern == "" {
		delete(f.regExps, nameInt)
		return
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		f.log.Debug("ignoring invalid category expression",
			zap.String("category", f.names.NameIntToString(nameInt)),
			zap.String("pattern", pattern),
			zap.Error(err),
		)
		return
	}
	f.regExps[nameInt] = categoryRegExp{pattern: pattern, re: re}
}

// RegExpPattern returns the expression attached to a category, or "".
func (f *Filter) RegExpPattern(nameInt int) string {
	return f.regExps[nameInt].pattern
}

// CategoryValues returns a copy of the state of one category.
func (f *Filter) CategoryValues(nameInt int) (CategoryValues, bool) {
	cv, ok := f.checks[nameInt]
	if !ok {
		return CategoryValues{}, false
	}
	return cv.clone(), true
}

// Checks returns a copy of the whole checked-state mapping.
func (f *Filter) Checks() map[int]CategoryValues {
	out := make(map[int]CategoryValues, len(f.checks))
	for n, cv := range f.checks {
		out[n] = cv.clone()
	}
	return out
}

// MatchData reports whether entity id passes the filter, using its
// current category data from src. Entities without category data are
// matched as having no values.
func (f *Filter) MatchData(src SliceSource, id simdata.ObjectID) bool {
	var values map[int]int
	if s := src.CategoryDataSlice(id); s != nil {
		values = s.CurrentValues()
	}
	return f.Match(values)
}

// Match reports whether an entity with the given current values (name int
// to value int) passes. An empty filter matches everything.
func (f *Filter) Match(values map[int]int) bool {
	for nameInt, cv := range f.checks {
		if !cv.Checked || len(cv.Values) == 0 || nameInt == NoCategoryName {
			continue
		}
		if _, hasRE := f.regExps[nameInt]; hasRE {
			continue
		}
		v, ok := values[nameInt]
		if !ok {
			if !cv.Values[NoCategoryValueAtTime] {
				return false
			}
			continue
		}
		state, listed := cv.Values[v]
		if !listed {
			state = cv.Values[UnlistedCategoryValue]
		}
		if !state {
			return false
		}
	}
	return f.matchRegExps(values)
}

func (f *Filter) matchRegExps(values map[int]int) bool {
	for nameInt, cre := range f.regExps {
		s := ""
		if v, ok := values[nameInt]; ok {
			s = f.names.ValueIntToString(v)
		}
		if !cre.re.MatchString(s) {
			return false
		}
	}
	return true
}

// Simplify drops entries that cannot change a match result: values whose
// state equals the "Unlisted Value" state, unchecked sentinels, unchecked
// categories, and categories that pass every entity.
func (f *Filter) Simplify() {
	f.checks = f.simplified()
}

func (f *Filter) simplified() map[int]CategoryValues {
	out := make(map[int]CategoryValues, len(f.checks))
	for nameInt, cv := range f.checks {
		if _, hasRE := f.regExps[nameInt]; hasRE {
			out[nameInt] = cv.clone()
			continue
		}
		if !cv.Checked {
			continue
		}
		if len(cv.Values) == 0 {
			// An empty category passes every entity.
			continue
		}
		unlisted := cv.Values[UnlistedCategoryValue]
		vals := make(ValuesCheck)
		for v, state := range cv.Values {
			switch v {
			case UnlistedCategoryValue, NoCategoryValueAtTime:
				if state {
					vals[v] = true
				}
			default:
				if state != unlisted {
					vals[v] = state
				}
			}
		}
		if unlisted && vals[NoCategoryValueAtTime] && len(vals) == 2 {
			continue
		}
		if len(vals) == 0 {
			// Keep a falsy entry so the category still rejects everything.
			vals[NoCategoryValueAtTime] = false
		}
		out[nameInt] = CategoryValues{Checked: true, Values: vals}
	}
	return out
}

// Serialize renders the filter in the category rule text format:
// name(state)[^regexp]~value(state)~... with categories joined by a
// back-tick. An empty filter renders as a single space.
func (f *Filter) Serialize(simplify bool) string {
	checks := f.checks
	if simplify {
		checks = f.simplified()
	}
	nameInts := make([]int, 0, len(checks))
	for n := range checks {
		nameInts = append(nameInts, n)
	}
	slices.Sort(nameInts)

	var b strings.Builder
	for _, nameInt := range nameInts {
		cv := checks[nameInt]
		pattern := f.regExps[nameInt].pattern
		if (len(cv.Values) == 0 && pattern == "") || nameInt == NoCategoryName {
			continue
		}
		name := f.names.NameIntToString(nameInt)
		if name == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(catSep)
		}
		b.WriteString(name)
		writeState(&b, cv.Checked)
		if pattern != "" {
			b.WriteString(regExpSep)
			b.WriteString(pattern)
		}

		valueInts := make([]int, 0, len(cv.Values))
		for v := range cv.Values {
			valueInts = append(valueInts, v)
		}
		slices.Sort(valueInts)
		for _, v := range valueInts {
			if v == NoCategoryValue {
				continue
			}
			s := f.names.ValueIntToString(v)
			if s == "" {
				continue
			}
			b.WriteString(valSep)
			b.WriteString(s)
			writeState(&b, cv.Values[v])
		}
	}
	if b.Len() == 0 {
		return " "
	}
	return b.String()
}

func writeState(b *strings.Builder, on bool) {
	if on {
		b.WriteString("(1)")
	} else {
		b.WriteString("(0)")
	}
}

// parseToken splits "label(s)" into its label and state.
func parseToken(tok string) (string, bool, bool) {
	n := len(tok)
	if n < 4 || tok[n-3] != '(' || tok[n-1] != ')' {
		return "", false, false
	}
	state := tok[n-2]
	if state != '0' && state != '1' {
		return "", false, false
	}
	return tok[:n-3], state == '1', true
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Deserialize replaces the filter with the one described by s. Malformed
// tokens are logged and skipped; the result is false if any were found.
// With skipEmptyCategories, unchecked categories are not loaded. New names
// and values are interned in the name manager.
func (f *Filter) Deserialize(s string, skipEmptyCategories bool) bool {
	f.Clear()
	if strings.TrimSpace(s) == "" {
		return true
	}
	ok := true
	for _, catTok := range splitNonEmpty(s, catSep) {
		parts := strings.Split(catTok, valSep)
		head := parts[0]
		pattern := ""
		if i := strings.Index(head, regExpSep); i > 0 {
			pattern = head[i+1:]
			head = head[:i]
		}
		name, checked, good := parseToken(head)
		if !good || name == "" {
			f.log.Debug("skipping malformed category token", zap.String("token", catTok))
			ok = false
			continue
		}
		if skipEmptyCategories && !checked {
			continue
		}
		nameInt := f.names.AddCategoryName(name)
		if pattern != "" {
			f.SetCategoryRegExp(nameInt, pattern)
		}
		cv, exists := f.checks[nameInt]
		if !exists {
			cv = CategoryValues{Values: make(ValuesCheck)}
		}
		cv.Checked = checked
		for _, valTok := range parts[1:] {
			value, state, good := parseToken(valTok)
			if !good || value == "" {
				f.log.Debug("skipping malformed category value token",
					zap.String("category", name),
					zap.String("token", valTok),
				)
				ok = false
				continue
			}
			switch value {
			case NoCategoryValueAtTimeString:
				cv.Values[NoCategoryValueAtTime] = state
			case UnlistedCategoryValueString:
				cv.Values[UnlistedCategoryValue] = state
			default:
				cv.Values[f.names.AddCategoryValue(nameInt, value)] = state
			}
		}
		f.checks[nameInt] = cv
	}
	return ok
}

// Equal compares the checked-state mappings of two filters.
func (f *Filter) Equal(other *Filter) bool {
	if len(f.checks) != len(other.checks) {
		return false
	}
	for n, cv := range f.checks {
		ocv, ok := other.checks[n]
		if !ok || cv.Checked != ocv.Checked || len(cv.Values) != len(ocv.Values) {
			return false
		}
		for v, s := range cv.Values {
			if os, ok := ocv.Values[v]; !ok || os != s {
				return false
			}
		}
	}
	return true
}

// Clone returns an independent copy that does not follow the name manager.
func (f *Filter) Clone() *Filter {
	out := &Filter{
		names:   f.names,
		log:     f.log,
		checks:  f.Checks(),
		regExps: make(map[int]categoryRegExp, len(f.regExps)),
	}
	for n, r := range f.regExps {
		out.regExps[n] = r
	}
	return out
}
