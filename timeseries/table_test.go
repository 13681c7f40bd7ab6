package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignOuterJoin(t *testing.T) {
	a := NewMonthly("All Items", jan2020, []float64{1, 2, 3, 4})
	b := NewMonthly("Energy", jan2020.AddDate(0, 2, 0), []float64{10, 20, 30, 40})

	table, err := Align(a, b)
	require.NoError(t, err)

	require.Equal(t, 6, table.Len())
	assert.Equal(t, []string{"All Items", "Energy"}, table.Labels())

	energy, ok := table.Column("Energy")
	require.True(t, ok)
	_, present := energy.At(0)
	assert.False(t, present, "January has no energy observation")
	v, present := energy.At(2)
	require.True(t, present)
	assert.Equal(t, 10.0, v)

	all, _ := table.Column("All Items")
	_, present = all.At(5)
	assert.False(t, present)
	assert.Equal(t, 4, all.Count())
}

func TestAlignNormalizesDay(t *testing.T) {
	mid := time.Date(2021, time.May, 15, 8, 0, 0, 0, time.UTC)
	s, err := NewWithTimestamps([]time.Time{mid, mid.AddDate(0, 1, 0)}, []float64{1, 2})
	require.NoError(t, err)
	s.Name = "x"

	table, err := Align(s)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC), table.Index[0])
}

func TestAlignErrors(t *testing.T) {
	good := NewMonthly("a", jan2020, []float64{1, 2})

	_, err := Align(good, NewMonthly("a", jan2020, []float64{1}))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Align(NewMonthly("", jan2020, []float64{1}))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	daily := &Series{
		Name:       "daily",
		Timestamps: []time.Time{jan2020, jan2020.AddDate(0, 0, 1)},
		Values:     []float64{1, 2},
	}
	_, err = Align(good, daily)
	assert.ErrorIs(t, err, ErrAlignmentMismatch)
}

func TestTableYoY(t *testing.T) {
	a := NewMonthly("All Items", jan2020, compound(24, 100, 0.01))
	b := NewMonthly("Food", jan2020.AddDate(0, 6, 0), compound(18, 50, 0.005))
	short := NewMonthly("Housing", jan2020, compound(6, 10, 0.01))

	table, err := Align(a, b, short)
	require.NoError(t, err)

	yoy, err := table.YoY()
	require.NoError(t, err)
	assert.Equal(t, table.Len(), yoy.Len())

	all, _ := yoy.Column("All Items")
	assert.Equal(t, 12, all.Count())
	food, _ := yoy.Column("Food")
	assert.Equal(t, 6, food.Count())
	housing, _ := yoy.Column("Housing")
	assert.Equal(t, 0, housing.Count())

	_, present := all.At(11)
	assert.False(t, present)
	v, present := all.At(12)
	require.True(t, present)
	assert.InDelta(t, 12.682503, v, 1e-6)
}

func TestTableYoYInsufficientRows(t *testing.T) {
	table, err := Align(NewMonthly("a", jan2020, compound(12, 100, 0.01)))
	require.NoError(t, err)

	_, err = table.YoY()
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDropIncomplete(t *testing.T) {
	a := NewMonthly("a", jan2020, []float64{1, 2, 3, 4})
	b := NewMonthly("b", jan2020.AddDate(0, 1, 0), []float64{5, 6})

	table, err := Align(a, b)
	require.NoError(t, err)

	complete := table.DropIncomplete()
	require.Equal(t, 2, complete.Len())
	assert.Equal(t, jan2020.AddDate(0, 1, 0), complete.Index[0])

	col, _ := complete.Column("a")
	assert.Equal(t, []float64{2, 3}, col.Dense().Values)
	assert.Equal(t, 4, table.Columns[0].Count(), "source table is untouched")
}

func TestDropEmpty(t *testing.T) {
	table, err := Align(NewMonthly("a", jan2020, compound(14, 100, 0.01)))
	require.NoError(t, err)

	changes, err := table.YoY()
	require.NoError(t, err)
	require.Equal(t, 14, changes.Len())

	nonEmpty := changes.DropEmpty()
	assert.Equal(t, 2, nonEmpty.Len())
	assert.Equal(t, jan2020.AddDate(1, 0, 0), nonEmpty.Index[0])
	assert.Equal(t, 14, table.DropEmpty().Len())
}

func TestDropEmptyKeepsAbsentSlots(t *testing.T) {
	table, err := Align(
		NewMonthly("All Items", jan2020, compound(36, 100, 0.01)),
		NewMonthly("Energy", jan2020.AddDate(1, 0, 0), compound(24, 50, 0.02)),
	)
	require.NoError(t, err)

	yoy, err := table.YoY()
	require.NoError(t, err)

	nonEmpty := yoy.DropEmpty()
	require.Equal(t, 24, nonEmpty.Len())

	energy, ok := nonEmpty.Column("Energy")
	require.True(t, ok)
	assert.Equal(t, 12, energy.Count(), "energy has a prior year only in its second year")
	for i := 0; i < 12; i++ {
		_, present := energy.At(i)
		assert.False(t, present, "row %s must stay absent", nonEmpty.Index[i].Format("2006-01"))
	}
	v, present := energy.At(12)
	require.True(t, present)
	assert.InDelta(t, (math.Pow(1.02, 12)-1)*100, v, 1e-9)

	complete := yoy.DropIncomplete()
	assert.Equal(t, 12, complete.Len())
}

func TestTableCopy(t *testing.T) {
	table, err := Align(NewMonthly("a", jan2020, []float64{1, 2, 3}))
	require.NoError(t, err)

	c := table.Copy()
	c.Columns[0].Values[0] = 99
	c.Columns[0].Present[1] = false
	c.Index[0] = time.Time{}

	assert.Equal(t, 1.0, table.Columns[0].Values[0])
	assert.True(t, table.Columns[0].Present[1])
	assert.Equal(t, jan2020, table.Index[0])
}

func TestSparseDenseAndTail(t *testing.T) {
	s := NewSparse("x", []time.Time{jan2020, jan2020.AddDate(0, 1, 0), jan2020.AddDate(0, 2, 0)})
	s.Set(0, 1)
	s.Set(2, 0)

	dense := s.Dense()
	assert.Equal(t, []float64{1, 0}, dense.Values)
	assert.Equal(t, jan2020.AddDate(0, 2, 0), dense.Timestamps[1])

	ts, v, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, jan2020.AddDate(0, 2, 0), ts)

	tail := s.Tail(2)
	assert.Equal(t, 2, tail.Len())
	assert.Equal(t, 1, tail.Count())

	tail.Set(0, 9)
	_, present := s.At(1)
	assert.False(t, present, "tail is a copy")
}
