package slice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdata/simstore/internal/simdata"
)

type platformSlice = DataSlice[simdata.PlatformUpdate, *simdata.PlatformUpdate]

func newPlatformSlice(times ...float64) *platformSlice {
	s := NewDataSlice[simdata.PlatformUpdate]()
	for _, t := range times {
		s.Insert(&simdata.PlatformUpdate{Time: t, X: t})
	}
	return s
}

func TestUpdateSelectsLatestAtOrBefore(t *testing.T) {
	s := newPlatformSlice(3, 1, 2)
	require.Equal(t, 3, s.NumItems())

	tests := []struct {
		name string
		at   float64
		want float64
		none bool
	}{
		{name: "before first", at: 0.5, none: true},
		{name: "exact", at: 1, want: 1},
		{name: "between", at: 2.5, want: 2},
		{name: "after last", at: 9, want: 3},
		{name: "backwards", at: 1.5, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Update(tt.at)
			if tt.none {
				assert.Nil(t, s.Current())
				return
			}
			require.NotNil(t, s.Current())
			assert.Equal(t, tt.want, s.Current().X)
		})
	}
}

func TestUpdateChangedTracksIdentity(t *testing.T) {
	s := newPlatformSlice(1, 2)
	s.Update(1)
	assert.True(t, s.HasChanged())
	s.Update(1)
	assert.False(t, s.HasChanged(), "fast path")
	s.Update(1.5)
	assert.False(t, s.HasChanged(), "same record")
	s.Update(2)
	assert.True(t, s.HasChanged())
}

func TestInsertEqualTimeReplaces(t *testing.T) {
	s := newPlatformSlice(1, 2)
	s.Update(1)
	first := s.Current()
	require.NotNil(t, first)

	repl := &simdata.PlatformUpdate{Time: 1, X: 42}
	s.Insert(repl)
	assert.Equal(t, 2, s.NumItems())
	assert.True(t, s.IsDirty())
	assert.Nil(t, s.Current(), "replaced record was current")

	s.Update(1)
	assert.Same(t, repl, s.Current())
	assert.True(t, s.HasChanged())
	assert.False(t, s.IsDirty())
}

func TestStaticRecordFastPath(t *testing.T) {
	s := newPlatformSlice(simdata.StaticTime)
	s.Update(5)
	require.NotNil(t, s.Current())
	assert.Equal(t, simdata.StaticTime, s.Current().Time)
	s.Update(100)
	assert.False(t, s.HasChanged())
	assert.Equal(t, -1.0, s.DeltaTime(100))
}

func TestInterpolatedMidpoint(t *testing.T) {
	s := NewDataSlice[simdata.PlatformUpdate]()
	s.Insert(&simdata.PlatformUpdate{Time: 0, X: 0, Y: 10})
	s.Insert(&simdata.PlatformUpdate{Time: 10, X: 10, Y: 30})

	s.UpdateInterpolated(5, simdata.LinearInterpolator{})
	require.NotNil(t, s.Current())
	assert.True(t, s.IsInterpolated())
	assert.True(t, s.HasChanged())
	assert.InDelta(t, 5.0, s.Current().X, 1e-9)
	assert.InDelta(t, 20.0, s.Current().Y, 1e-9)
	assert.Equal(t, 5.0, s.Current().Time)
	assert.Same(t, s.CurrentInterpolated(), s.Current())

	low, high := s.InterpolationBounds()
	require.NotNil(t, low)
	require.NotNil(t, high)
	assert.Equal(t, 0.0, low.Time)
	assert.Equal(t, 10.0, high.Time)

	s.UpdateInterpolated(7.5, simdata.LinearInterpolator{})
	assert.True(t, s.HasChanged(), "interpolated results always flag a change")
	assert.InDelta(t, 7.5, s.Current().X, 1e-9)

	s.Update(7.5)
	assert.False(t, s.IsInterpolated(), "plain update drops the blended record")
	assert.Equal(t, 0.0, s.Current().Time)

	s.UpdateInterpolated(10, simdata.LinearInterpolator{})
	assert.False(t, s.IsInterpolated())
	assert.Equal(t, 10.0, s.Current().X)
	low, high = s.InterpolationBounds()
	assert.Nil(t, low)
	assert.Nil(t, high)
}

func TestInterpolationSkipsStaticBound(t *testing.T) {
	s := newPlatformSlice(simdata.StaticTime, 10)
	s.UpdateInterpolated(5, simdata.LinearInterpolator{})
	assert.False(t, s.IsInterpolated())
	assert.Equal(t, simdata.StaticTime, s.Current().Time)
}

func TestInterpolationUnsupportedType(t *testing.T) {
	s := NewDataSlice[simdata.LobGroupUpdate]()
	s.Insert(&simdata.LobGroupUpdate{Time: 0})
	s.Insert(&simdata.LobGroupUpdate{Time: 10})
	s.UpdateInterpolated(5, simdata.LinearInterpolator{})
	assert.False(t, s.IsInterpolated())
	assert.Equal(t, 0.0, s.Current().Time)
}

func TestLimitByPoints(t *testing.T) {
	tests := []struct {
		limit uint32
		want  int
	}{
		{limit: 0, want: 5},
		{limit: 1, want: 1},
		{limit: 3, want: 3},
		{limit: 5, want: 5},
		{limit: 10, want: 5},
	}
	for _, tt := range tests {
		s := newPlatformSlice(1, 2, 3, 4, 5)
		fired := 0
		s.SetChangeNotifier(func() { fired++ })
		s.LimitByPoints(tt.limit)
		assert.Equal(t, tt.want, s.NumItems(), "limit %d", tt.limit)
		assert.Equal(t, 5.0, s.LastTime(), "newest record survives")
		if tt.want < 5 {
			assert.Equal(t, 1, fired)
		} else {
			assert.Zero(t, fired)
		}
	}
}

func TestLimitByTimeKeepsOne(t *testing.T) {
	s := newPlatformSlice(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	s.LimitByTime(3)
	assert.Equal(t, 8.0, s.FirstTime())
	assert.Equal(t, 3, s.NumItems())

	s.LimitByTime(0)
	assert.Equal(t, 1, s.NumItems())
	assert.Equal(t, 10.0, s.FirstTime())

	s.LimitByTime(-1)
	assert.Equal(t, 1, s.NumItems())
}

func TestLimitDropsCurrent(t *testing.T) {
	s := newPlatformSlice(1, 2, 3)
	s.Update(1)
	s.LimitByPoints(2)
	assert.Nil(t, s.Current())
	s.Update(1)
	assert.Nil(t, s.Current())
	s.Update(2.5)
	assert.Equal(t, 2.0, s.Current().Time)
}

func TestLimitByPrefs(t *testing.T) {
	s := newPlatformSlice(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	prefs := &simdata.CommonPrefs{
		DataLimitPoints: simdata.Ptr[uint32](5),
		DataLimitTime:   simdata.Ptr(2.0),
	}
	s.LimitByPrefs(prefs)
	assert.Equal(t, 2, s.NumItems())
	assert.Equal(t, 9.0, s.FirstTime())
}

func TestFlush(t *testing.T) {
	t.Run("keep static", func(t *testing.T) {
		s := newPlatformSlice(simdata.StaticTime)
		s.Flush(true)
		assert.Equal(t, 1, s.NumItems())
		s.Flush(false)
		assert.Zero(t, s.NumItems())
	})
	t.Run("static among others", func(t *testing.T) {
		s := newPlatformSlice(simdata.StaticTime, 1)
		s.Update(1)
		s.Flush(true)
		assert.Zero(t, s.NumItems())
		assert.Nil(t, s.Current())
	})
	t.Run("range is half open", func(t *testing.T) {
		s := newPlatformSlice(1, 2, 3, 4)
		s.FlushRange(2, 4)
		var times []float64
		s.Visit(func(u *simdata.PlatformUpdate) { times = append(times, u.Time) })
		assert.Equal(t, []float64{1, 4}, times)
	})
	t.Run("keep static points only", func(t *testing.T) {
		s := newPlatformSlice(simdata.StaticTime, 1, 2)
		s.FlushKeepStatic()
		assert.Equal(t, 1, s.NumItems())
		assert.Equal(t, simdata.StaticTime, s.FirstTime())
	})
}

func TestEmptySentinels(t *testing.T) {
	s := newPlatformSlice()
	assert.Equal(t, MaxTime, s.FirstTime())
	assert.Equal(t, MinTime, s.LastTime())
	assert.Equal(t, -1.0, s.DeltaTime(3))
	s.Update(3)
	assert.Nil(t, s.Current())
}

func TestDeltaTime(t *testing.T) {
	s := newPlatformSlice(1, 4)
	assert.Equal(t, -1.0, s.DeltaTime(-2))
	assert.Equal(t, -1.0, s.DeltaTime(0.5))
	assert.Equal(t, 0.0, s.DeltaTime(4))
	assert.Equal(t, 2.0, s.DeltaTime(3))
}

func TestIteratorsAreIndependent(t *testing.T) {
	s := newPlatformSlice(1, 2, 3, 4)
	a := s.LowerBound(2)
	b := s.UpperBound(2)

	assert.Equal(t, 2.0, a.Next().Time)
	assert.Equal(t, 3.0, b.Next().Time)
	assert.Equal(t, 3.0, a.PeekNext().Time)

	c := a.Clone()
	c.ToBack()
	assert.False(t, c.HasNext())
	assert.Equal(t, 4.0, c.Previous().Time)
	assert.Equal(t, 3.0, a.Next().Time, "clone did not move original")

	a.ToFront()
	assert.False(t, a.HasPrevious())
	assert.Nil(t, a.Previous())
	assert.Equal(t, 1.0, a.PeekNext().Time)
}

func TestCursorSurvivesAppend(t *testing.T) {
	s := newPlatformSlice()
	for i := 0; i < 50; i++ {
		s.Insert(&simdata.PlatformUpdate{Time: float64(i), X: float64(i)})
		s.Update(float64(i) + 0.5)
		require.Equal(t, float64(i), s.Current().X)
	}
	s.Update(20.2)
	assert.Equal(t, 20.0, s.Current().X)
	s.Update(40.7)
	assert.Equal(t, 40.0, s.Current().X)
	s.Insert(&simdata.PlatformUpdate{Time: 40.5, X: -1})
	s.Update(40.7)
	assert.Equal(t, -1.0, s.Current().X)
}
