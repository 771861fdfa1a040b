package slice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdata/simstore/internal/simdata"
)

func generic(time, duration float64, kv ...string) *simdata.GenericData {
	d := &simdata.GenericData{Time: time, Duration: duration}
	for i := 0; i+1 < len(kv); i += 2 {
		d.Entries = append(d.Entries, simdata.GenericEntry{Key: kv[i], Value: kv[i+1]})
	}
	return d
}

func TestGenericCurrentPerKey(t *testing.T) {
	s := NewGenericDataSlice()
	s.Insert(generic(1, -1, "mode", "search", "fuel", "90"), false)
	s.Insert(generic(5, -1, "mode", "track"), false)
	s.Insert(generic(3, 1, "alert", "on"), false)

	assert.False(t, s.Update(0.5), "nothing in effect yet")
	assert.Empty(t, s.Current().Entries)

	assert.True(t, s.Update(3.5))
	assert.Equal(t, []simdata.GenericEntry{
		{Key: "alert", Value: "on"},
		{Key: "fuel", Value: "90"},
		{Key: "mode", Value: "search"},
	}, s.Current().Entries)

	assert.True(t, s.Update(4), "alert expired")
	_, ok := s.Value("alert")
	assert.False(t, ok)

	assert.False(t, s.Update(4))
	assert.False(t, s.Update(4.5), "same entries")

	s.Update(6)
	v, ok := s.Value("mode")
	require.True(t, ok)
	assert.Equal(t, "track", v)
	assert.Equal(t, 6.0, s.Current().Time)
}

func TestGenericDuplicates(t *testing.T) {
	s := NewGenericDataSlice()
	s.Insert(generic(1, -1, "k", "a"), true)
	s.Insert(generic(2, -1, "k", "a"), true)
	assert.Equal(t, 1, s.NumItems())
	s.Insert(generic(2, -1, "k", "a"), false)
	assert.Equal(t, 2, s.NumItems())
	s.Insert(generic(2, -1, "k", "b"), false)
	assert.Equal(t, 2, s.NumItems(), "same time overwrites")
}

func TestGenericLimitAndFlush(t *testing.T) {
	s := NewGenericDataSlice()
	for i := 0; i < 10; i++ {
		s.Insert(generic(float64(i), -1, "k", string(rune('a'+i))), false)
	}
	s.LimitByPrefs(&simdata.CommonPrefs{DataLimitPoints: simdata.Ptr[uint32](4)})
	assert.Equal(t, 4, s.NumItems())

	s.LimitByPrefs(&simdata.CommonPrefs{DataLimitPoints: simdata.Ptr[uint32](0), DataLimitTime: simdata.Ptr(1.0)})
	assert.Equal(t, 1, s.NumItems())

	s.Insert(generic(20, -1, "k", "z", "other", "x"), false)
	s.FlushRange(9, 10)
	assert.Equal(t, 2, s.NumItems())

	var times []float64
	s.Visit(func(d *simdata.GenericData) { times = append(times, d.Time) })
	assert.Equal(t, []float64{20}, times)

	assert.True(t, s.RemoveTag("other"))
	assert.False(t, s.RemoveTag("other"))
	assert.True(t, s.Update(20))

	s.Flush()
	assert.Zero(t, s.NumItems())
	assert.False(t, s.Update(20))
	assert.Empty(t, s.Current().Entries)
}
