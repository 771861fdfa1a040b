// Package slice holds the time-ordered record containers of the data
// store: update slices, command slices, generic data and data tables.
package slice

import (
	"math"
	"sort"

	"github.com/simdata/simstore/internal/simdata"
)

// Empty-slice sentinels for FirstTime and LastTime.
var (
	MaxTime = math.MaxFloat64
	MinTime = -math.MaxFloat64
)

// lowerBound returns the index of the first record with time >= t.
func lowerBound[T simdata.Record](recs []T, t float64) int {
	return sort.Search(len(recs), func(i int) bool { return recs[i].GetTime() >= t })
}

// upperBound returns the index of the first record with time > t.
func upperBound[T simdata.Record](recs []T, t float64) int {
	return sort.Search(len(recs), func(i int) bool { return recs[i].GetTime() > t })
}

// removeRange deletes recs[lo:hi] in place and zeroes the vacated tail so
// dropped records can be collected.
func removeRange[T any](recs []T, lo, hi int) []T {
	if lo >= hi {
		return recs
	}
	n := copy(recs[lo:], recs[hi:])
	clear(recs[lo+n:])
	return recs[:lo+n]
}

// pointsToDrop returns how many leading records to drop so that at most
// limit remain. A limit of zero means unlimited.
func pointsToDrop(count int, limit uint32) int {
	if limit == 0 || count <= int(limit) {
		return 0
	}
	return count - int(limit)
}

// timeToDrop returns how many leading records have time <= limitTime,
// never counting the last record.
func timeToDrop[T simdata.Record](recs []T, limitTime float64) int {
	if len(recs) == 0 {
		return 0
	}
	first := upperBound(recs, limitTime)
	if first == len(recs) {
		first--
	}
	return first
}

// flushRange returns the [lo, hi) index span of records with
// start <= time < end, or lo == hi when nothing is in range.
func flushRange[T simdata.Record](recs []T, start, end float64) (int, int) {
	lo := lowerBound(recs, start)
	if lo == len(recs) || recs[lo].GetTime() >= end {
		return lo, lo
	}
	hi := lo + lowerBound(recs[lo:], end)
	return lo, hi
}
