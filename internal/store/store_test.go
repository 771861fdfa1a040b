package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/simdata/simstore/internal/core/event"
	"github.com/simdata/simstore/internal/simdata"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder logs every notification as "<callback> <id>".
type recorder struct {
	NopListener
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnAddEntity(_ *MemoryStore, id simdata.ObjectID, t simdata.ObjectType) {
	r.add("add %d %s", id, t)
}

func (r *recorder) OnRemoveEntity(_ *MemoryStore, id simdata.ObjectID, _ simdata.ObjectType) {
	r.add("remove %d", id)
}

func (r *recorder) OnPostRemoveEntity(_ *MemoryStore, id simdata.ObjectID, _ simdata.ObjectType) {
	r.add("postremove %d", id)
}

func (r *recorder) OnPrefsChange(_ *MemoryStore, id simdata.ObjectID) { r.add("prefs %d", id) }
func (r *recorder) OnNameChange(_ *MemoryStore, id simdata.ObjectID)  { r.add("name %d", id) }
func (r *recorder) OnFlush(_ *MemoryStore, id simdata.ObjectID)       { r.add("flush %d", id) }
func (r *recorder) OnChange(*MemoryStore)                             { r.add("change") }
func (r *recorder) OnScenarioDelete(*MemoryStore)                     { r.add("delete") }

func (r *recorder) OnPropertiesChange(_ *MemoryStore, id simdata.ObjectID) {
	r.add("props %d", id)
}

func (r *recorder) OnCategoryDataChange(_ *MemoryStore, id simdata.ObjectID, _ simdata.ObjectType) {
	r.add("category %d", id)
}

func (r *recorder) count(ev string) int {
	n := 0
	for _, e := range r.events {
		if e == ev {
			n++
		}
	}
	return n
}

func commit(t *testing.T, txn *Transaction) {
	t.Helper()
	require.NotNil(t, txn)
	txn.Commit()
	txn.Release()
	require.NoError(t, txn.Result().Err)
}

func addPlatform(t *testing.T, s *MemoryStore) simdata.ObjectID {
	t.Helper()
	p, txn := s.AddPlatform()
	commit(t, txn)
	return p.ID
}

func addBeam(t *testing.T, s *MemoryStore, host simdata.ObjectID, typ simdata.BeamType) simdata.ObjectID {
	t.Helper()
	p, txn := s.AddBeam()
	p.HostID = host
	p.Type = typ
	commit(t, txn)
	return p.ID
}

func addGate(t *testing.T, s *MemoryStore, host simdata.ObjectID, typ simdata.GateType) simdata.ObjectID {
	t.Helper()
	p, txn := s.AddGate()
	p.HostID = host
	p.Type = typ
	commit(t, txn)
	return p.ID
}

func addPosition(t *testing.T, s *MemoryStore, id simdata.ObjectID, time, x, y, z float64) {
	t.Helper()
	u, txn := s.AddPlatformUpdate(id)
	require.NotNil(t, u)
	u.Time, u.X, u.Y, u.Z = time, x, y, z
	commit(t, txn)
}

func TestAddEntityLifecycle(t *testing.T) {
	s := New()
	rec := &recorder{}
	s.AddListener(rec)

	p, txn := s.AddPlatform()
	assert.Equal(t, simdata.ObjectID(1), p.ID)
	txn.Release()
	assert.Equal(t, simdata.None, s.ObjectType(p.ID), "released before commit")
	assert.Empty(t, rec.events)

	id := addPlatform(t, s)
	assert.Equal(t, simdata.ObjectID(2), id, "ids are never reused")
	assert.Equal(t, simdata.Platform, s.ObjectType(id))
	assert.Equal(t, []string{"add 2 platform"}, rec.events)
	assert.NotNil(t, s.PlatformPrefs(id))
	assert.NotNil(t, s.PlatformUpdateSlice(id))
	assert.NotNil(t, s.CategoryDataSlice(id))
	assert.NotNil(t, s.GenericDataSlice(id))

	assert.Nil(t, s.BeamPrefs(id), "wrong type")
	u, utxn := s.AddBeamUpdate(id)
	assert.Nil(t, u)
	assert.Nil(t, utxn)
	prefs, ptxn := s.MutablePlatformPrefs(99)
	assert.Nil(t, prefs)
	assert.Nil(t, ptxn)
}

func TestTransactionMisusePanics(t *testing.T) {
	s := New()
	_, txn := s.AddPlatform()
	txn.Commit()
	assert.Panics(t, func() { txn.Commit() })
	txn.Release()
	assert.Panics(t, func() { txn.Release() })
	assert.Panics(t, func() { txn.Commit() })
}

func TestAddRejectsChangedID(t *testing.T) {
	s := New()
	kept := addPlatform(t, s)
	pt, txn := s.MutablePlatformPrefs(kept)
	pt.MutableCommonPrefs().Name = simdata.Ptr("kept")
	commit(t, txn)

	tests := []struct {
		name string
		id   simdata.ObjectID
	}{
		{"unused id", 999},
		{"id of a live entity", kept},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, txn := s.AddPlatform()
			allocated := p.ID
			p.ID = tt.id
			txn.Commit()
			txn.Release()
			require.ErrorIs(t, txn.Result().Err, ErrImmutable)
			assert.False(t, txn.Result().Applied)
			assert.Equal(t, simdata.None, s.ObjectType(allocated))
		})
	}
	assert.Equal(t, simdata.None, s.ObjectType(999))
	assert.Equal(t, []simdata.ObjectID{kept}, s.IDList(simdata.All))
	assert.Equal(t, "kept", s.PlatformPrefs(kept).GetCommonPrefs().GetName())
}

func TestAddRejectsInvalidHost(t *testing.T) {
	s := New()
	platform := addPlatform(t, s)

	p, txn := s.AddBeam()
	txn.Commit()
	txn.Release()
	require.ErrorIs(t, txn.Result().Err, ErrWrongType, "a beam needs a platform host")
	assert.Equal(t, simdata.None, s.ObjectType(p.ID))

	g, txn := s.AddGate()
	g.HostID = platform
	txn.Commit()
	txn.Release()
	require.ErrorIs(t, txn.Result().Err, ErrWrongType)

	l, txn := s.AddLaser()
	l.HostID = 1000
	txn.Commit()
	txn.Release()
	require.ErrorIs(t, txn.Result().Err, ErrNotFound)
	assert.False(t, txn.Result().Applied)

	pr, txn := s.AddProjector()
	commit(t, txn)
	assert.Equal(t, simdata.Projector, s.ObjectType(pr.ID), "projectors may be top level")
}

func TestMutablePrefsNotifications(t *testing.T) {
	s := New()
	id := addPlatform(t, s)
	rec := &recorder{}
	s.AddListener(rec)

	prefs, txn := s.MutablePlatformPrefs(id)
	commit(t, txn)
	assert.False(t, txn.Result().Applied, "unchanged prefs are not an event")
	assert.Empty(t, rec.events)

	prefs, txn = s.MutablePlatformPrefs(id)
	prefs.MutableCommonPrefs().Color = simdata.Ptr(uint32(0x00FF00FF))
	assert.Equal(t, uint32(0xFFFF00FF), s.PlatformPrefs(id).GetCommonPrefs().GetColor(), "staged until commit")
	commit(t, txn)
	assert.True(t, txn.Result().Applied)
	assert.False(t, txn.Result().NameChanged)
	assert.Equal(t, uint32(0x00FF00FF), s.PlatformPrefs(id).GetCommonPrefs().GetColor())
	assert.Equal(t, []string{fmt.Sprintf("prefs %d", id)}, rec.events)

	rec.events = nil
	prefs, txn = s.MutablePlatformPrefs(id)
	prefs.MutableCommonPrefs().Name = simdata.Ptr("alpha")
	commit(t, txn)
	assert.True(t, txn.Result().NameChanged)
	assert.Equal(t, 1, rec.count(fmt.Sprintf("prefs %d", id)))
	assert.Equal(t, 1, rec.count(fmt.Sprintf("name %d", id)))

	rec.events = nil
	prefs, txn = s.MutablePlatformPrefs(id)
	prefs.MutableCommonPrefs().Alias = simdata.Ptr("a")
	commit(t, txn)
	assert.False(t, txn.Result().NameChanged, "alias is not displayed")

	prefs, txn = s.MutablePlatformPrefs(id)
	prefs.MutableCommonPrefs().UseAlias = simdata.Ptr(true)
	commit(t, txn)
	assert.True(t, txn.Result().NameChanged)
}

func TestReleaseWithoutCommitDiscards(t *testing.T) {
	s := New()
	id := addPlatform(t, s)
	prefs, txn := s.MutablePlatformPrefs(id)
	prefs.MutableCommonPrefs().Name = simdata.Ptr("lost")
	txn.Release()
	assert.Equal(t, "entity", s.PlatformPrefs(id).GetCommonPrefs().GetName())

	u, txn := s.AddPlatformUpdate(id)
	u.Time = 1
	txn.Release()
	assert.Zero(t, s.PlatformUpdateSlice(id).NumItems())
}

func TestMutableProperties(t *testing.T) {
	s := New()
	id := addPlatform(t, s)
	rec := &recorder{}
	s.AddListener(rec)

	p, txn := s.MutablePlatformProperties(id)
	p.OriginalID = 77
	commit(t, txn)
	assert.Equal(t, uint64(77), s.PlatformProperties(id).OriginalID)
	assert.Equal(t, []string{fmt.Sprintf("props %d", id)}, rec.events)

	p, txn = s.MutablePlatformProperties(id)
	p.ID = 500
	txn.Commit()
	txn.Release()
	assert.ErrorIs(t, txn.Result().Err, ErrImmutable)
	assert.Equal(t, id, s.PlatformProperties(id).ID)
}

func TestScenarioProperties(t *testing.T) {
	s := New()
	rec := &recorder{}
	s.AddListener(rec)

	p, txn := s.MutableScenarioProperties()
	p.Description = "exercise"
	commit(t, txn)
	assert.Equal(t, "exercise", s.ScenarioProperties().Description)
	assert.Equal(t, []string{"props 0"}, rec.events)
}

func TestDefaultPrefsTemplate(t *testing.T) {
	s := New()
	s.SetDefaultPrefs(simdata.DefaultPrefs{
		Platform: &simdata.PlatformPrefs{Icon: simdata.Ptr("ship")},
	})
	id := addPlatform(t, s)
	assert.Equal(t, "ship", s.PlatformPrefs(id).GetIcon())

	def := s.DefaultPlatformPrefs()
	def.Icon = simdata.Ptr("plane")
	assert.Equal(t, "ship", s.DefaultPrefs().Platform.GetIcon(), "defaults are returned as copies")

	prefs, txn := s.MutablePlatformPrefs(id)
	prefs.Icon = simdata.Ptr("sub")
	commit(t, txn)
	assert.Equal(t, "ship", s.DefaultPlatformPrefs().GetIcon(), "entities do not share the template")
}

func TestListenerRemovedDuringDispatch(t *testing.T) {
	s := New()
	second := &recorder{}
	first := &removing{store: s, victim: second}
	s.AddListener(first)
	s.AddListener(second)

	addPlatform(t, s)
	assert.Empty(t, second.events)
	assert.Equal(t, 1, first.calls)
}

type removing struct {
	NopListener
	store  *MemoryStore
	victim Listener
	calls  int
}

func (r *removing) OnAddEntity(*MemoryStore, simdata.ObjectID, simdata.ObjectType) {
	r.calls++
	r.store.RemoveListener(r.victim)
}

func TestEventsBus(t *testing.T) {
	s := New()
	var added []EntityAdded
	cancel := event.Subscribe(s.Events(), func(e EntityAdded) { added = append(added, e) })
	id := addPlatform(t, s)
	cancel()
	addPlatform(t, s)
	assert.Equal(t, []EntityAdded{{ID: id, Type: simdata.Platform}}, added)
}

func TestClear(t *testing.T) {
	s := New()
	id := addPlatform(t, s)
	addBeam(t, s, id, simdata.BeamAbsolutePosition)
	cd, txn := s.AddCategoryData(id)
	cd.Entries = []simdata.CategoryEntry{{Key: "Affinity", Value: "Hostile"}}
	commit(t, txn)
	_, err := s.DataTableManager().AddTable(id, "fuel")
	require.NoError(t, err)

	rec := &recorder{}
	s.AddListener(rec)
	s.Clear()

	assert.Equal(t, []string{"delete"}, rec.events)
	assert.Zero(t, s.NumEntities())
	assert.Empty(t, s.IDList(simdata.All))
	assert.Empty(t, s.CategoryNames().AllCategoryNames())
	assert.Zero(t, s.DataTableManager().TableCount())
	assert.Greater(t, addPlatform(t, s), simdata.ObjectID(2))
}
