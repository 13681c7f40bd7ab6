package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Table holds several category series on a common monthly index.
// Columns keep the order they were aligned in.
type Table struct {
	Index   []time.Time
	Columns []*Sparse
}

// Align outer-joins the given series on calendar month. The index is the union of
// every month observed by any series, normalized to the first of the month; a
// series with no observation in a month leaves that slot absent.
//
// Each series needs a unique, non-empty Name, which becomes its column label.
func Align(series ...*Series) (*Table, error) {
	seen := make(map[string]bool, len(series))
	months := make(map[int]time.Time)

	for _, s := range series {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: series without a name cannot be aligned", ErrInvalidArgument)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate series %q", ErrInvalidArgument, s.Name)
		}
		seen[s.Name] = true

		if err := s.Validate(); err != nil {
			return nil, err
		}
		for _, t := range s.Timestamps {
			months[monthKey(t)] = MonthStart(t)
		}
	}

	keys := make([]int, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	index := make([]time.Time, len(keys))
	slot := make(map[int]int, len(keys))
	for i, k := range keys {
		index[i] = months[k]
		slot[k] = i
	}

	table := &Table{Index: index, Columns: make([]*Sparse, 0, len(series))}
	for _, s := range series {
		col := NewSparse(s.Name, index)
		for i, t := range s.Timestamps {
			col.Set(slot[monthKey(t)], s.Values[i])
		}
		table.Columns = append(table.Columns, col)
	}
	return table, nil
}

// Len returns the number of rows in the index.
func (t *Table) Len() int {
	return len(t.Index)
}

// Labels returns the column labels in order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Name
	}
	return labels
}

// Column returns the column with the given label.
func (t *Table) Column(label string) (*Sparse, bool) {
	for _, c := range t.Columns {
		if c.Name == label {
			return c, true
		}
	}
	return nil, false
}

// YoY returns the year-over-year percentage change of every column on the same index.
func (t *Table) YoY() (*Table, error) {
	return t.PctChange(YoYLag)
}

// PctChange applies Series.PctChange column by column. Rows are kept; slots with
// no observation months earlier are absent. A column with fewer than months+1
// observations comes back entirely absent.
func (t *Table) PctChange(months int) (*Table, error) {
	if months < 1 {
		return nil, fmt.Errorf("%w: lag must be at least 1 month, got %d", ErrInvalidArgument, months)
	}
	if err := checkMonthly(t.Index); err != nil {
		return nil, err
	}
	if t.Len() < months+1 {
		return nil, fmt.Errorf("%w: percent change over %d months needs at least %d rows, got %d",
			ErrInsufficientData, months, months+1, t.Len())
	}

	out := &Table{Index: copyTimes(t.Index), Columns: make([]*Sparse, 0, len(t.Columns))}
	for _, c := range t.Columns {
		col := NewSparse(c.Name, t.Index)
		if c.Count() >= months+1 {
			values, ok := pctChange(c.Timestamps, c.Values, c.Present, months)
			for i := range values {
				if ok[i] {
					col.Set(i, values[i])
				}
			}
		}
		out.Columns = append(out.Columns, col)
	}
	return out, nil
}

// DropIncomplete returns the rows in which every column is present.
func (t *Table) DropIncomplete() *Table {
	return t.keepRows(func(i int) bool {
		for _, c := range t.Columns {
			if !c.Present[i] {
				return false
			}
		}
		return true
	})
}

// DropEmpty returns the rows in which at least one column is present.
func (t *Table) DropEmpty() *Table {
	return t.keepRows(func(i int) bool {
		for _, c := range t.Columns {
			if c.Present[i] {
				return true
			}
		}
		return false
	})
}

func (t *Table) keepRows(keepRow func(i int) bool) *Table {
	var keep []int
	for i := range t.Index {
		if keepRow(i) {
			keep = append(keep, i)
		}
	}

	index := make([]time.Time, len(keep))
	for j, i := range keep {
		index[j] = t.Index[i]
	}

	out := &Table{Index: index, Columns: make([]*Sparse, 0, len(t.Columns))}
	for _, c := range t.Columns {
		col := NewSparse(c.Name, index)
		for j, i := range keep {
			if v, ok := c.At(i); ok {
				col.Set(j, v)
			}
		}
		out.Columns = append(out.Columns, col)
	}
	return out
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	out := &Table{Index: copyTimes(t.Index), Columns: make([]*Sparse, len(t.Columns))}
	for i, c := range t.Columns {
		out.Columns[i] = c.Copy()
	}
	return out
}

// Tail returns a copy of the last n rows.
func (t *Table) Tail(n int) *Table {
	out := &Table{Columns: make([]*Sparse, 0, len(t.Columns))}
	for _, c := range t.Columns {
		out.Columns = append(out.Columns, c.Tail(n))
	}
	if n > t.Len() {
		n = t.Len()
	}
	if n < 0 {
		n = 0
	}
	out.Index = copyTimes(t.Index[t.Len()-n:])
	return out
}

func copyTimes(ts []time.Time) []time.Time {
	out := make([]time.Time, len(ts))
	copy(out, ts)
	return out
}
