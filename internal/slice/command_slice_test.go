package slice

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdata/simstore/internal/simdata"
)

// prefsHost is a minimal PrefsOpener keeping one live record per id.
type prefsHost struct {
	live    map[simdata.ObjectID]*simdata.PlatformPrefs
	revs    map[simdata.ObjectID]uint64
	opens   int
	commits int
}

func newPrefsHost(id simdata.ObjectID) *prefsHost {
	return &prefsHost{
		live: map[simdata.ObjectID]*simdata.PlatformPrefs{id: {}},
		revs: map[simdata.ObjectID]uint64{},
	}
}

func (h *prefsHost) PrefsRevision(id simdata.ObjectID) uint64 { return h.revs[id] }

// edit changes the live record outside of any command, as a user would.
func (h *prefsHost) edit(id simdata.ObjectID, fn func(*simdata.PlatformPrefs)) {
	fn(h.live[id])
	h.revs[id]++
}

type hostTxn struct {
	host   *prefsHost
	id     simdata.ObjectID
	staged *simdata.PlatformPrefs
}

func (h *prefsHost) MutablePrefs(id simdata.ObjectID) (*simdata.PlatformPrefs, Transaction) {
	p, ok := h.live[id]
	if !ok {
		return nil, nil
	}
	h.opens++
	staged := simdata.ClonePrefs(p)
	return staged, &hostTxn{host: h, id: id, staged: staged}
}

func (t *hostTxn) Commit() {
	t.host.commits++
	live := t.host.live[t.id]
	if simdata.PrefsEqual(live, t.staged) {
		return
	}
	simdata.CopyPrefs(live, t.staged)
	t.host.revs[t.id]++
}

func (t *hostTxn) Release() {}

func drawCmd(time float64, draw bool) *simdata.PlatformCommand {
	c := &simdata.PlatformCommand{Time: time}
	c.MutableUpdatePrefs().MutableCommonPrefs().DataDraw = simdata.Ptr(draw)
	return c
}

func nameCmd(time float64, name string) *simdata.PlatformCommand {
	c := &simdata.PlatformCommand{Time: time}
	c.MutableUpdatePrefs().MutableCommonPrefs().Name = simdata.Ptr(name)
	return c
}

func TestDataDrawReplayWalkthrough(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(drawCmd(5, false))
	clr := drawCmd(10, true)
	clr.IsClearCommand = true
	s.Insert(clr)

	live := host.live[1]
	steps := []struct {
		at   float64
		want bool
	}{
		{at: 3, want: true},
		{at: 7, want: false},
		{at: 12, want: true},
		{at: 7, want: false},
		{at: 12, want: true},
	}
	for _, st := range steps {
		s.Update(host, 1, st.at)
		assert.Equal(t, st.want, live.GetCommonPrefs().GetDataDraw(), "update(%v)", st.at)
	}
	assert.Nil(t, live.GetCommonPrefs().DataDraw, "clear leaves the field unset")
}

func TestCurrentFollowsReplayHorizon(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(nameCmd(5, "a"))
	s.Insert(nameCmd(10, "b"))

	assert.Nil(t, s.Current())
	s.Update(host, 1, 7)
	require.NotNil(t, s.Current())
	assert.Equal(t, 5.0, s.Current().Time)
	assert.True(t, s.HasChanged())

	s.Update(host, 1, 8)
	assert.False(t, s.HasChanged())
	assert.Equal(t, 5.0, s.Current().Time)

	s.Update(host, 1, 10)
	assert.Equal(t, 10.0, s.Current().Time)
	assert.Equal(t, "b", host.live[1].GetCommonPrefs().GetName())
	assert.Equal(t, -1.0, s.DeltaTime(10))
}

func TestInsertSameTimeMerges(t *testing.T) {
	s := NewCommandSlice[simdata.PlatformPrefs]()
	a := nameCmd(5, "a")
	a.MutableUpdatePrefs().MutableCommonPrefs().AcceptProjectorIDs = []uint64{1, 2}
	s.Insert(a)

	b := drawCmd(5, false)
	b.MutableUpdatePrefs().MutableCommonPrefs().AcceptProjectorIDs = []uint64{3}
	s.Insert(b)

	require.Equal(t, 1, s.NumItems())
	got := s.LowerBound(5).Next().UpdatePrefs.GetCommonPrefs()
	assert.Equal(t, "a", got.GetName())
	assert.False(t, got.GetDataDraw())
	assert.Equal(t, []uint64{3}, got.AcceptProjectorIDs, "repeated field replaced, not appended")
}

func TestInsertSameTimeKeepsClearFlag(t *testing.T) {
	tests := []struct {
		name          string
		first, second bool
		want          bool
	}{
		{"neither", false, false, false},
		{"first only", true, false, true},
		{"second only", false, true, true},
		{"both", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCommandSlice[simdata.PlatformPrefs]()
			a := drawCmd(5, true)
			a.IsClearCommand = tt.first
			s.Insert(a)
			b := nameCmd(5, "b")
			b.IsClearCommand = tt.second
			s.Insert(b)

			require.Equal(t, 1, s.NumItems())
			got := s.LowerBound(5).Next()
			assert.Equal(t, tt.want, got.IsClearCommand)
			assert.Equal(t, "b", got.UpdatePrefs.GetCommonPrefs().GetName())
			assert.True(t, got.UpdatePrefs.GetCommonPrefs().GetDataDraw())
		})
	}
}

func TestSteadyReplaySkipsTransaction(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(drawCmd(5, false))
	s.Insert(nameCmd(10, "b"))

	s.Update(host, 1, 6)
	require.Equal(t, 1, host.opens)

	for _, at := range []float64{6, 7, 8, 9.5} {
		s.Update(host, 1, at)
		assert.False(t, s.HasChanged(), "update(%v)", at)
	}
	assert.Equal(t, 1, host.opens, "nothing crossed, prefs untouched")

	s.Update(host, 1, 10)
	assert.Equal(t, 2, host.opens)
	assert.True(t, s.HasChanged())
	assert.Equal(t, "b", host.live[1].GetCommonPrefs().GetName())

	s.Insert(nameCmd(12, "c"))
	s.Update(host, 1, 11)
	assert.Equal(t, 2, host.opens, "later command not reached yet")
	s.Update(host, 1, 12)
	assert.Equal(t, 3, host.opens)
	assert.Equal(t, "c", host.live[1].GetCommonPrefs().GetName())

	s.Update(host, 1, 7)
	assert.Equal(t, 4, host.opens, "backward replay always rebuilds")
	assert.Empty(t, host.live[1].GetCommonPrefs().GetName())
}

func TestCommandsOverrideDirectEdits(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(drawCmd(5, false))
	s.Update(host, 1, 6)
	require.False(t, host.live[1].GetCommonPrefs().GetDataDraw())

	host.edit(1, func(p *simdata.PlatformPrefs) {
		p.MutableCommonPrefs().DataDraw = simdata.Ptr(true)
		p.Scale = simdata.Ptr(2.0)
	})
	s.Update(host, 1, 7)
	assert.False(t, host.live[1].GetCommonPrefs().GetDataDraw(), "command state wins")
	assert.Equal(t, 2.0, host.live[1].GetScale(), "fields without commands are kept")
	assert.Equal(t, 2, host.opens)

	s.Update(host, 1, 8)
	assert.Equal(t, 2, host.opens)
}

func TestForwardAndBackwardReplayAgree(t *testing.T) {
	build := func() *CommandSlice[simdata.PlatformPrefs] {
		s := NewCommandSlice[simdata.PlatformPrefs]()
		for i := 1; i <= 10; i++ {
			s.Insert(nameCmd(float64(i), fmt.Sprintf("n%d", i)))
		}
		proj := &simdata.PlatformCommand{Time: 2}
		proj.MutableUpdatePrefs().MutableCommonPrefs().AcceptProjectorIDs = []uint64{7, 8}
		s.Insert(proj)
		proj = &simdata.PlatformCommand{Time: 6}
		proj.MutableUpdatePrefs().MutableCommonPrefs().AcceptProjectorIDs = []uint64{9}
		s.Insert(proj)
		s.Insert(drawCmd(3, false))
		clr := drawCmd(8, false)
		clr.IsClearCommand = true
		s.Insert(clr)
		icon := &simdata.PlatformCommand{Time: 9}
		icon.MutableUpdatePrefs().Icon = simdata.Ptr("ship")
		s.Insert(icon)
		return s
	}

	for _, target := range []float64{1, 2.5, 3, 5.5, 7, 8, 9.5, 11} {
		t.Run(fmt.Sprint(target), func(t *testing.T) {
			fwdHost := newPrefsHost(1)
			fwd := build()
			for tm := 1.0; tm <= target; tm += 0.5 {
				fwd.Update(fwdHost, 1, tm)
			}
			fwd.Update(fwdHost, 1, target)

			backHost := newPrefsHost(1)
			back := build()
			back.Update(backHost, 1, 20)
			back.Update(backHost, 1, target)

			if diff := cmp.Diff(fwdHost.live[1], backHost.live[1], cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("replay mismatch at %v (-forward +backward):\n%s", target, diff)
			}
		})
	}
}

func TestLateInsertRebuilds(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(nameCmd(2, "a"))
	s.Insert(nameCmd(8, "b"))
	s.Update(host, 1, 10)
	require.Equal(t, "b", host.live[1].GetCommonPrefs().GetName())

	s.Insert(nameCmd(9, "c"))
	s.Update(host, 1, 10)
	assert.Equal(t, "c", host.live[1].GetCommonPrefs().GetName())

	color := &simdata.PlatformCommand{Time: 3}
	color.MutableUpdatePrefs().MutableCommonPrefs().Color = simdata.Ptr[uint32](0xFF)
	s.Insert(color)
	s.Update(host, 1, 10)
	assert.True(t, s.HasChanged())
	assert.Equal(t, "c", host.live[1].GetCommonPrefs().GetName())
	assert.Equal(t, uint32(0xFF), host.live[1].GetCommonPrefs().GetColor())
}

func TestUpdateBeforeFirstLeavesPrefs(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Update(host, 1, 4)
	assert.True(t, s.HasChanged())
	assert.Zero(t, host.commits)

	s.Insert(nameCmd(5, "a"))
	s.Update(host, 1, 4)
	assert.Zero(t, host.commits)
	assert.Nil(t, s.Current())
}

func TestUpdateMissingEntity(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(nameCmd(1, "a"))
	assert.NotPanics(t, func() { s.Update(host, 99, 5) })
	assert.Zero(t, host.commits)
}

func TestModifyDeletesAndRebuilds(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(nameCmd(1, "x"))
	s.Insert(drawCmd(5, false))
	s.Update(host, 1, 7)
	require.False(t, host.live[1].GetCommonPrefs().GetDataDraw())

	s.Modify(func(c *simdata.PlatformCommand) int {
		if c.UpdatePrefs.GetCommonPrefs().DataDraw != nil {
			return -1
		}
		return 0
	})
	assert.Equal(t, 1, s.NumItems())

	s.Update(host, 1, 7)
	assert.True(t, host.live[1].GetCommonPrefs().GetDataDraw())
	assert.Equal(t, "x", host.live[1].GetCommonPrefs().GetName())
}

func TestCommandLimitKeepsReplayedState(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	for i := 1; i <= 5; i++ {
		s.Insert(nameCmd(float64(i), fmt.Sprint(i)))
	}
	s.Update(host, 1, 5)
	s.LimitByPoints(2)
	assert.Equal(t, 2, s.NumItems())
	assert.Equal(t, 4.0, s.FirstTime())

	s.Update(host, 1, 6)
	assert.Equal(t, "5", host.live[1].GetCommonPrefs().GetName())

	s.LimitByTime(0)
	assert.Equal(t, 1, s.NumItems())
}

func TestCommandFlush(t *testing.T) {
	host := newPrefsHost(1)
	s := NewCommandSlice[simdata.PlatformPrefs]()
	s.Insert(nameCmd(1, "a"))
	s.Insert(drawCmd(3, false))
	s.Insert(nameCmd(5, "b"))
	s.Update(host, 1, 6)

	s.FlushRange(3, 5)
	assert.Equal(t, 2, s.NumItems())
	s.Update(host, 1, 6)
	assert.True(t, host.live[1].GetCommonPrefs().GetDataDraw(), "flushed command no longer applies")
	assert.Equal(t, "b", host.live[1].GetCommonPrefs().GetName())

	s.Flush(false)
	assert.Zero(t, s.NumItems())
	assert.Equal(t, MaxTime, s.FirstTime())
	assert.Equal(t, MinTime, s.LastTime())
}

func TestBackThenForwardMatchesFreshReplay(t *testing.T) {
	build := func() *CommandSlice[simdata.PlatformPrefs] {
		s := NewCommandSlice[simdata.PlatformPrefs]()
		s.Insert(nameCmd(1, "a"))
		s.Insert(drawCmd(2, false))
		s.Insert(nameCmd(4, "b"))
		clr := drawCmd(6, false)
		clr.IsClearCommand = true
		s.Insert(clr)
		return s
	}

	fresh := newPrefsHost(1)
	build().Update(fresh, 1, 7)

	host := newPrefsHost(1)
	s := build()
	s.Update(host, 1, 7)
	s.Update(host, 1, 3)
	assert.False(t, host.live[1].GetCommonPrefs().GetDataDraw())
	assert.Equal(t, "a", host.live[1].GetCommonPrefs().GetName())
	s.Update(host, 1, 7)

	assert.True(t, simdata.PrefsEqual(fresh.live[1], host.live[1]))
}
