package timeseries

import "time"

// Sparse is a series laid over a shared index in which slots may be empty.
// Present[i] reports whether Values[i] holds an observation; an absent slot is
// distinct from a zero or NaN value.
type Sparse struct {
	Timestamps []time.Time
	Values     []float64
	Present    []bool
	Name       string
}

// NewSparse creates an all-absent series over a copy of the given index.
func NewSparse(name string, index []time.Time) *Sparse {
	timestamps := make([]time.Time, len(index))
	copy(timestamps, index)
	return &Sparse{
		Timestamps: timestamps,
		Values:     make([]float64, len(index)),
		Present:    make([]bool, len(index)),
		Name:       name,
	}
}

// Len returns the number of index slots, present or not.
func (s *Sparse) Len() int {
	return len(s.Timestamps)
}

// At returns the value in slot i and whether the slot is present.
func (s *Sparse) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.Values) || !s.Present[i] {
		return 0, false
	}
	return s.Values[i], true
}

// Set stores v in slot i and marks it present.
func (s *Sparse) Set(i int, v float64) {
	s.Values[i] = v
	s.Present[i] = true
}

// Count returns the number of present slots.
func (s *Sparse) Count() int {
	n := 0
	for _, p := range s.Present {
		if p {
			n++
		}
	}
	return n
}

// Dense returns the present observations as a Series, dropping absent slots.
func (s *Sparse) Dense() *Series {
	out := &Series{
		Timestamps: make([]time.Time, 0, s.Count()),
		Values:     make([]float64, 0, s.Count()),
		Name:       s.Name,
	}
	for i, p := range s.Present {
		if p {
			out.Timestamps = append(out.Timestamps, s.Timestamps[i])
			out.Values = append(out.Values, s.Values[i])
		}
	}
	return out
}

// Copy creates a deep copy.
func (s *Sparse) Copy() *Sparse {
	out := NewSparse(s.Name, s.Timestamps)
	copy(out.Values, s.Values)
	copy(out.Present, s.Present)
	return out
}

// Tail returns a copy of the last n slots.
func (s *Sparse) Tail(n int) *Sparse {
	if n > s.Len() {
		n = s.Len()
	}
	if n < 0 {
		n = 0
	}
	start := s.Len() - n
	out := NewSparse(s.Name, s.Timestamps[start:])
	copy(out.Values, s.Values[start:])
	copy(out.Present, s.Present[start:])
	return out
}

// Last returns the final present observation.
func (s *Sparse) Last() (t time.Time, v float64, ok bool) {
	for i := len(s.Present) - 1; i >= 0; i-- {
		if s.Present[i] {
			return s.Timestamps[i], s.Values[i], true
		}
	}
	return time.Time{}, 0, false
}
