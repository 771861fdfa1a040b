package slice

import (
	"errors"
	"fmt"
	"slices"

	"github.com/simdata/simstore/internal/core/event"
	"github.com/simdata/simstore/internal/simdata"
)

var (
	ErrTableExists  = errors.New("table already exists")
	ErrColumnExists = errors.New("column already exists")
	ErrNoTable      = errors.New("no such table")
	ErrNoColumn     = errors.New("no such column")
	ErrNotNumeric   = errors.New("column is not numeric")
)

type TableID uint64
type ColumnID int64

// VariableType is the storage type of a table column.
type VariableType int

const (
	VariableFloat VariableType = iota
	VariableInt
	VariableString
)

func (v VariableType) String() string {
	switch v {
	case VariableFloat:
		return "float"
	case VariableInt:
		return "int"
	case VariableString:
		return "string"
	}
	return fmt.Sprintf("VariableType(%d)", int(v))
}

// Cell is one typed column value.
type Cell struct {
	Float float64
	Int   int64
	Str   string
}

// TableRow is a set of cells stamped with one time.
type TableRow struct {
	Time  float64
	Cells map[ColumnID]Cell
}

func (r *TableRow) GetTime() float64 { return r.Time }

// SetCell stores c under column id.
func (r *TableRow) SetCell(id ColumnID, c Cell) {
	if r.Cells == nil {
		r.Cells = make(map[ColumnID]Cell)
	}
	r.Cells[id] = c
}

type columnPoint struct {
	time float64
	cell Cell
}

func (p *columnPoint) GetTime() float64 { return p.time }

// Column is one time-ordered series of a data table.
type Column struct {
	id     ColumnID
	name   string
	vtype  VariableType
	points []*columnPoint
}

func (c *Column) ID() ColumnID       { return c.id }
func (c *Column) Name() string       { return c.name }
func (c *Column) Type() VariableType { return c.vtype }
func (c *Column) Len() int           { return len(c.points) }

// ValueAt returns the latest cell at or before t.
func (c *Column) ValueAt(t float64) (Cell, float64, bool) {
	i := upperBound(c.points, t)
	if i == 0 {
		return Cell{}, 0, false
	}
	p := c.points[i-1]
	return p.cell, p.time, true
}

func (c *Column) numeric(cell Cell) float64 {
	if c.vtype == VariableInt {
		return float64(cell.Int)
	}
	return cell.Float
}

// Interpolate returns the column value at t, blended between the
// bracketing points by interp. Outside the column's time span the nearest
// end point is used.
func (c *Column) Interpolate(t float64, interp simdata.Interpolator) (float64, error) {
	if c.vtype == VariableString {
		return 0, fmt.Errorf("interpolate %s: %w", c.name, ErrNotNumeric)
	}
	if len(c.points) == 0 {
		return 0, fmt.Errorf("interpolate %s: empty column", c.name)
	}
	i := upperBound(c.points, t)
	if i == 0 {
		return c.numeric(c.points[0].cell), nil
	}
	low := c.points[i-1]
	if low.time == t || i == len(c.points) || interp == nil {
		return c.numeric(low.cell), nil
	}
	high := c.points[i]
	f := interp.Factor(low.time, t, high.time)
	lv, hv := c.numeric(low.cell), c.numeric(high.cell)
	return lv + (hv-lv)*f, nil
}

func (c *Column) set(t float64, cell Cell) {
	i := lowerBound(c.points, t)
	if i < len(c.points) && c.points[i].time == t {
		c.points[i].cell = cell
		return
	}
	c.points = slices.Insert(c.points, i, &columnPoint{time: t, cell: cell})
}

// TableListener is notified of structural table changes.
type TableListener interface {
	OnAddColumn(t *Table, c *Column)
	OnAddRow(t *Table, row *TableRow)
	OnPreRemoveRow(t *Table, time float64)
}

// Table is a named set of time-aligned columns owned by one entity.
type Table struct {
	id        TableID
	owner     simdata.ObjectID
	name      string
	columns   []*Column
	nextCol   ColumnID
	listeners event.List[TableListener]
}

func (t *Table) ID() TableID                    { return t.id }
func (t *Table) Name() string                   { return t.name }
func (t *Table) Owner() simdata.ObjectID        { return t.owner }
func (t *Table) ColumnCount() int               { return len(t.columns) }
func (t *Table) AddListener(l TableListener)    { t.listeners.Add(l) }
func (t *Table) RemoveListener(l TableListener) { t.listeners.Remove(l) }

// AddColumn creates a column. Names are unique within a table.
func (t *Table) AddColumn(name string, vtype VariableType) (*Column, error) {
	if t.ColumnByName(name) != nil {
		return nil, fmt.Errorf("add column %q to %s: %w", name, t.name, ErrColumnExists)
	}
	t.nextCol++
	c := &Column{id: t.nextCol, name: name, vtype: vtype}
	t.columns = append(t.columns, c)
	t.listeners.Each(func(l TableListener) { l.OnAddColumn(t, c) })
	return c, nil
}

func (t *Table) Column(id ColumnID) *Column {
	for _, c := range t.columns {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (t *Table) ColumnByName(name string) *Column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Columns returns the columns in creation order.
func (t *Table) Columns() []*Column { return slices.Clone(t.columns) }

// AddRow writes every cell of row into its column at row.Time. Cells of a
// row at an existing time overwrite only the columns they name.
func (t *Table) AddRow(row *TableRow) error {
	for id := range row.Cells {
		if t.Column(id) == nil {
			return fmt.Errorf("add row to %s: column %d: %w", t.name, id, ErrNoColumn)
		}
	}
	for id, cell := range row.Cells {
		t.Column(id).set(row.Time, cell)
	}
	t.listeners.Each(func(l TableListener) { l.OnAddRow(t, row) })
	return nil
}

// Rows calls fn with each row in [begin, end), merging the cells of all
// columns that share a time. Returning false stops the walk.
func (t *Table) Rows(begin, end float64, fn func(*TableRow) bool) {
	rows := make(map[float64]*TableRow)
	var times []float64
	for _, c := range t.columns {
		lo, hi := flushRange(c.points, begin, end)
		for _, p := range c.points[lo:hi] {
			r, ok := rows[p.time]
			if !ok {
				r = &TableRow{Time: p.time}
				rows[p.time] = r
				times = append(times, p.time)
			}
			r.SetCell(c.id, p.cell)
		}
	}
	slices.Sort(times)
	for _, tm := range times {
		if !fn(rows[tm]) {
			return
		}
	}
}

func (t *Table) rowTimes(keep func(float64) bool) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, c := range t.columns {
		for _, p := range c.points {
			if !seen[p.time] && !keep(p.time) {
				seen[p.time] = true
				out = append(out, p.time)
			}
		}
	}
	slices.Sort(out)
	return out
}

func (t *Table) removeWhere(drop func(float64) bool) {
	for _, tm := range t.rowTimes(func(x float64) bool { return !drop(x) }) {
		t.listeners.Each(func(l TableListener) { l.OnPreRemoveRow(t, tm) })
	}
	for _, c := range t.columns {
		c.points = slices.DeleteFunc(c.points, func(p *columnPoint) bool { return drop(p.time) })
	}
}

// Flush removes every row. With keepStatic, rows at the static time stay.
func (t *Table) Flush(keepStatic bool) {
	t.removeWhere(func(tm float64) bool { return !keepStatic || tm != simdata.StaticTime })
}

// FlushRange removes rows with start <= time < end.
func (t *Table) FlushRange(start, end float64) {
	t.removeWhere(func(tm float64) bool { return tm >= start && tm < end })
}

// LimitByPrefs drops the oldest rows of each column beyond the point and
// time limits of prefs.
func (t *Table) LimitByPrefs(prefs *simdata.CommonPrefs) {
	limit, window := prefs.GetDataLimitPoints(), prefs.GetDataLimitTime()
	for _, c := range t.columns {
		if n := pointsToDrop(len(c.points), limit); n > 0 {
			c.points = removeRange(c.points, 0, n)
		}
		if window >= 0 && len(c.points) > 0 {
			n := timeToDrop(c.points, c.points[len(c.points)-1].time-window)
			c.points = removeRange(c.points, 0, n)
		}
	}
}

// ManagerListener is notified when tables come and go.
type ManagerListener interface {
	OnAddTable(t *Table)
	OnPreRemoveTable(t *Table)
}

// TableManager owns every data table of a scenario, indexed by id and by
// owner.
type TableManager struct {
	nextID    TableID
	tables    map[TableID]*Table
	byOwner   map[simdata.ObjectID][]*Table
	listeners event.List[ManagerListener]
}

func NewTableManager() *TableManager {
	return &TableManager{
		tables:  make(map[TableID]*Table),
		byOwner: make(map[simdata.ObjectID][]*Table),
	}
}

func (m *TableManager) AddListener(l ManagerListener)    { m.listeners.Add(l) }
func (m *TableManager) RemoveListener(l ManagerListener) { m.listeners.Remove(l) }

// AddTable creates a table named name for owner. Names are unique per owner.
func (m *TableManager) AddTable(owner simdata.ObjectID, name string) (*Table, error) {
	if m.FindTable(owner, name) != nil {
		return nil, fmt.Errorf("add table %q for %d: %w", name, owner, ErrTableExists)
	}
	m.nextID++
	t := &Table{id: m.nextID, owner: owner, name: name}
	m.tables[t.id] = t
	m.byOwner[owner] = append(m.byOwner[owner], t)
	m.listeners.Each(func(l ManagerListener) { l.OnAddTable(t) })
	return t, nil
}

func (m *TableManager) DeleteTable(id TableID) error {
	t, ok := m.tables[id]
	if !ok {
		return fmt.Errorf("delete table %d: %w", id, ErrNoTable)
	}
	m.listeners.Each(func(l ManagerListener) { l.OnPreRemoveTable(t) })
	delete(m.tables, id)
	owned := slices.DeleteFunc(m.byOwner[t.owner], func(x *Table) bool { return x == t })
	if len(owned) == 0 {
		delete(m.byOwner, t.owner)
	} else {
		m.byOwner[t.owner] = owned
	}
	return nil
}

func (m *TableManager) DeleteTablesByOwner(owner simdata.ObjectID) {
	for _, t := range slices.Clone(m.byOwner[owner]) {
		_ = m.DeleteTable(t.id)
	}
}

func (m *TableManager) TableCount() int { return len(m.tables) }

func (m *TableManager) Table(id TableID) *Table { return m.tables[id] }

func (m *TableManager) FindTable(owner simdata.ObjectID, name string) *Table {
	for _, t := range m.byOwner[owner] {
		if t.name == name {
			return t
		}
	}
	return nil
}

// TablesForOwner returns owner's tables in creation order.
func (m *TableManager) TablesForOwner(owner simdata.ObjectID) []*Table {
	return slices.Clone(m.byOwner[owner])
}

// Clear deletes every table.
func (m *TableManager) Clear() {
	ids := make([]TableID, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		_ = m.DeleteTable(id)
	}
}
