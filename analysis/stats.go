package analysis

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Stats accumulates the minimum, maximum, sum and count of a series of
// integers. Finalize must be called before Avg is read.
type Stats[T integer] struct {
	Min, Max T
	Sum      int64
	Count    int
	Avg      int64
}

// Update adds a value to the series.
func (s *Stats[T]) Update(val T) {
	if s.Count == 0 || val < s.Min {
		s.Min = val
	}
	if s.Count == 0 || val > s.Max {
		s.Max = val
	}
	s.Sum += int64(val)
	s.Count++
}

// Finalize computes the average, truncating toward zero. An empty series has
// an average of 0.
func (s *Stats[T]) Finalize() {
	if s.Count == 0 {
		s.Avg = 0
		return
	}
	s.Avg = s.Sum / int64(s.Count)
}

// Empty reports whether no values were added.
func (s Stats[T]) Empty() bool {
	return s.Count == 0
}
