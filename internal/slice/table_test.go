package slice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdata/simstore/internal/simdata"
)

type tableRecorder struct {
	added, removed []string
	rows           []float64
	removedRows    []float64
}

func (r *tableRecorder) OnAddTable(t *Table)       { r.added = append(r.added, t.Name()) }
func (r *tableRecorder) OnPreRemoveTable(t *Table) { r.removed = append(r.removed, t.Name()) }

func (r *tableRecorder) OnAddColumn(*Table, *Column) {}

func (r *tableRecorder) OnAddRow(_ *Table, row *TableRow) {
	r.rows = append(r.rows, row.Time)
}

func (r *tableRecorder) OnPreRemoveRow(_ *Table, time float64) {
	r.removedRows = append(r.removedRows, time)
}

func TestTableManagerLifecycle(t *testing.T) {
	m := NewTableManager()
	rec := &tableRecorder{}
	m.AddListener(rec)

	a, err := m.AddTable(1, "fuel")
	require.NoError(t, err)
	_, err = m.AddTable(1, "fuel")
	assert.True(t, errors.Is(err, ErrTableExists))
	b, err := m.AddTable(1, "radar")
	require.NoError(t, err)
	_, err = m.AddTable(2, "fuel")
	require.NoError(t, err)

	assert.Equal(t, 3, m.TableCount())
	assert.Same(t, a, m.FindTable(1, "fuel"))
	assert.Same(t, b, m.Table(b.ID()))
	assert.Equal(t, []*Table{a, b}, m.TablesForOwner(1))

	m.DeleteTablesByOwner(1)
	assert.Equal(t, 1, m.TableCount())
	assert.Nil(t, m.FindTable(1, "fuel"))
	assert.ErrorIs(t, m.DeleteTable(a.ID()), ErrNoTable)

	m.Clear()
	assert.Zero(t, m.TableCount())
	assert.Equal(t, []string{"fuel", "radar", "fuel"}, rec.added)
	assert.Equal(t, []string{"fuel", "radar", "fuel"}, rec.removed)
}

func TestTableRowsMergeByTime(t *testing.T) {
	m := NewTableManager()
	tab, err := m.AddTable(1, "nav")
	require.NoError(t, err)
	rec := &tableRecorder{}
	tab.AddListener(rec)

	speed, err := tab.AddColumn("speed", VariableFloat)
	require.NoError(t, err)
	label, err := tab.AddColumn("label", VariableString)
	require.NoError(t, err)
	_, err = tab.AddColumn("speed", VariableInt)
	assert.ErrorIs(t, err, ErrColumnExists)

	row := &TableRow{Time: 1}
	row.SetCell(speed.ID(), Cell{Float: 10})
	row.SetCell(label.ID(), Cell{Str: "slow"})
	require.NoError(t, tab.AddRow(row))

	row = &TableRow{Time: 3}
	row.SetCell(speed.ID(), Cell{Float: 30})
	require.NoError(t, tab.AddRow(row))

	row = &TableRow{Time: 1}
	row.SetCell(speed.ID(), Cell{Float: 11})
	require.NoError(t, tab.AddRow(row))

	bad := &TableRow{Time: 2}
	bad.SetCell(99, Cell{})
	assert.ErrorIs(t, tab.AddRow(bad), ErrNoColumn)

	var got []*TableRow
	tab.Rows(0, 10, func(r *TableRow) bool {
		got = append(got, r)
		return true
	})
	require.Len(t, got, 2)
	assert.Equal(t, 11.0, got[0].Cells[speed.ID()].Float)
	assert.Equal(t, "slow", got[0].Cells[label.ID()].Str)
	assert.NotContains(t, got[1].Cells, label.ID())

	cell, at, ok := label.ValueAt(5)
	require.True(t, ok)
	assert.Equal(t, "slow", cell.Str)
	assert.Equal(t, 1.0, at)

	v, err := speed.Interpolate(2, simdata.LinearInterpolator{})
	require.NoError(t, err)
	assert.InDelta(t, 20.5, v, 1e-9)
	_, err = label.Interpolate(2, nil)
	assert.ErrorIs(t, err, ErrNotNumeric)

	tab.FlushRange(0, 2)
	assert.Equal(t, 1, speed.Len())
	assert.Zero(t, label.Len())
	assert.Equal(t, []float64{1, 3, 1}, rec.rows)
	assert.Equal(t, []float64{1}, rec.removedRows)
}

func TestTableFlushKeepStatic(t *testing.T) {
	m := NewTableManager()
	tab, _ := m.AddTable(1, "t")
	col, _ := tab.AddColumn("c", VariableInt)
	for _, tm := range []float64{simdata.StaticTime, 1, 2} {
		row := &TableRow{Time: tm}
		row.SetCell(col.ID(), Cell{Int: int64(tm)})
		require.NoError(t, tab.AddRow(row))
	}
	tab.Flush(true)
	assert.Equal(t, 1, col.Len())
	tab.Flush(false)
	assert.Zero(t, col.Len())
}
