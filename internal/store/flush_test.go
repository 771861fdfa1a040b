package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/slice"
)

// hierarchy builds platform -> beam -> gate, each with two updates and a
// command, and returns the ids.
func hierarchy(t *testing.T, s *MemoryStore) (platform, beam, gate simdata.ObjectID) {
	t.Helper()
	platform = addPlatform(t, s)
	beam = addBeam(t, s, platform, simdata.BeamAbsolutePosition)
	gate = addGate(t, s, beam, simdata.GateAbsolutePosition)
	for _, tm := range []float64{simdata.StaticTime, 5} {
		addPosition(t, s, platform, tm, 0, 0, 0)
		bu, txn := s.AddBeamUpdate(beam)
		bu.Time = tm
		commit(t, txn)
		gu, txn := s.AddGateUpdate(gate)
		gu.Time = tm
		commit(t, txn)
	}
	cmd, txn := s.AddPlatformCommand(platform)
	cmd.Time = 1
	cmd.MutableUpdatePrefs().Icon = simdata.Ptr("ship")
	commit(t, txn)
	return platform, beam, gate
}

func TestFlushUnknownEntity(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Flush(42, FlushNonRecursive, FlushAll), ErrNotFound)
	assert.ErrorIs(t, s.FlushRange(42, FlushRecursive, FlushAll, 0, 1), ErrNotFound)
}

func TestFlushScopeAndFields(t *testing.T) {
	s := New()
	platform, beam, gate := hierarchy(t, s)
	rec := &recorder{}
	s.AddListener(rec)

	require.NoError(t, s.Flush(platform, FlushNonRecursive, FlushUpdates))
	assert.Zero(t, s.PlatformUpdateSlice(platform).NumItems())
	assert.Equal(t, 1, s.PlatformCommandSlice(platform).NumItems(), "commands not selected")
	assert.Equal(t, 2, s.BeamUpdateSlice(beam).NumItems(), "children untouched")
	assert.Equal(t, []string{fmt.Sprintf("flush %d", platform)}, rec.events)

	rec.events = nil
	require.NoError(t, s.Flush(platform, FlushRecursive, FlushCommands|FlushExcludeMinusOne))
	assert.Zero(t, s.PlatformCommandSlice(platform).NumItems())
	assert.Equal(t, 2, s.BeamUpdateSlice(beam).NumItems())
	assert.Equal(t, []string{
		fmt.Sprintf("flush %d", platform),
		fmt.Sprintf("flush %d", beam),
		fmt.Sprintf("flush %d", gate),
	}, rec.events)

	require.NoError(t, s.FlushRange(beam, FlushRecursive, FlushUpdates|FlushExcludeMinusOne, simdata.StaticTime, 10))
	assert.Equal(t, 1, s.BeamUpdateSlice(beam).NumItems())
	assert.Equal(t, simdata.StaticTime, s.BeamUpdateSlice(beam).FirstTime(), "static record kept")
	assert.Equal(t, 1, s.GateUpdateSlice(gate).NumItems())

	require.NoError(t, s.Flush(beam, FlushNonRecursive, FlushUpdates|FlushExcludeMinusOne))
	assert.Equal(t, 1, s.BeamUpdateSlice(beam).NumItems(), "a lone static point survives")
	require.NoError(t, s.Flush(beam, FlushNonRecursive, FlushUpdates))
	assert.Zero(t, s.BeamUpdateSlice(beam).NumItems())
}

func TestFlushRangeIsHalfOpen(t *testing.T) {
	s := New()
	id := addPlatform(t, s)
	for _, tm := range []float64{1, 2, 3, 4} {
		addPosition(t, s, id, tm, 0, 0, 0)
	}
	require.NoError(t, s.FlushRange(id, FlushNonRecursive, FlushUpdates, 2, 4))
	var times []float64
	s.PlatformUpdateSlice(id).Visit(func(u *simdata.PlatformUpdate) { times = append(times, u.Time) })
	assert.Equal(t, []float64{1, 4}, times)
}

func TestFlushScenario(t *testing.T) {
	s := New()
	platform, beam, _ := hierarchy(t, s)
	g, txn := s.AddGenericData(0)
	g.Entries = []simdata.GenericEntry{{Key: "k", Value: "v"}}
	commit(t, txn)
	scenarioTable, err := s.DataTableManager().AddTable(0, "weather")
	require.NoError(t, err)
	col, err := scenarioTable.AddColumn("wind", slice.VariableFloat)
	require.NoError(t, err)
	row := &slice.TableRow{Time: 1}
	row.SetCell(col.ID(), slice.Cell{Float: 3})
	require.NoError(t, scenarioTable.AddRow(row))

	require.NoError(t, s.Flush(0, FlushNonRecursive, FlushAll))
	assert.Zero(t, s.PlatformUpdateSlice(platform).NumItems())
	assert.Zero(t, s.BeamUpdateSlice(beam).NumItems())
	assert.Zero(t, s.GenericDataSlice(0).NumItems())
	assert.Zero(t, col.Len())
}

func TestFlushCategoryAndGenericData(t *testing.T) {
	s := New()
	id := addPlatform(t, s)
	cd, txn := s.AddCategoryData(id)
	cd.Time = simdata.StaticTime
	cd.Entries = []simdata.CategoryEntry{{Key: "Affinity", Value: "Neutral"}}
	commit(t, txn)
	cd, txn = s.AddCategoryData(id)
	cd.Time = 3
	cd.Entries = []simdata.CategoryEntry{{Key: "Affinity", Value: "Hostile"}}
	commit(t, txn)
	g, txn := s.AddGenericData(id)
	g.Time = 3
	g.Entries = []simdata.GenericEntry{{Key: "k", Value: "v"}}
	commit(t, txn)

	require.NoError(t, s.Flush(id, FlushNonRecursive, FlushCategoryData|FlushExcludeMinusOne))
	assert.Equal(t, 1, s.CategoryDataSlice(id).NumItems())
	assert.Equal(t, 1, s.GenericDataSlice(id).NumItems())

	require.NoError(t, s.Flush(id, FlushNonRecursive, FlushGenericData))
	assert.Zero(t, s.GenericDataSlice(id).NumItems())
}

func TestRemoveEntityIsRecursive(t *testing.T) {
	s := New()
	platform, beam, gate := hierarchy(t, s)
	other := addPlatform(t, s)
	_, err := s.DataTableManager().AddTable(beam, "power")
	require.NoError(t, err)

	rec := &recorder{}
	s.AddListener(rec)
	require.NoError(t, s.RemoveEntity(platform))

	assert.Equal(t, []string{
		fmt.Sprintf("remove %d", gate),
		fmt.Sprintf("postremove %d", gate),
		fmt.Sprintf("remove %d", beam),
		fmt.Sprintf("postremove %d", beam),
		fmt.Sprintf("remove %d", platform),
		fmt.Sprintf("postremove %d", platform),
	}, rec.events)
	assert.Equal(t, []simdata.ObjectID{other}, s.IDList(simdata.All))
	assert.Nil(t, s.GateUpdateSlice(gate))
	assert.Empty(t, s.DataTables(beam))
	assert.ErrorIs(t, s.RemoveEntity(platform), ErrNotFound)
}

func TestRemoveListenerSeesEntityBeforeDeletion(t *testing.T) {
	s := New()
	id := addPlatform(t, s)
	var seen, after bool
	s.AddListener(&removeProbe{
		onRemove: func(st *MemoryStore) { seen = st.PlatformPrefs(id) != nil },
		onPost:   func(st *MemoryStore) { after = st.PlatformPrefs(id) != nil },
	})
	require.NoError(t, s.RemoveEntity(id))
	assert.True(t, seen)
	assert.False(t, after)
}

type removeProbe struct {
	NopListener
	onRemove, onPost func(*MemoryStore)
}

func (p *removeProbe) OnRemoveEntity(s *MemoryStore, _ simdata.ObjectID, _ simdata.ObjectType) {
	p.onRemove(s)
}

func (p *removeProbe) OnPostRemoveEntity(s *MemoryStore, _ simdata.ObjectID, _ simdata.ObjectType) {
	p.onPost(s)
}
