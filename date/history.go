package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a month.
// It ensures that months are unique and the series is always sorted.
type History[T float64 | string] struct {
	months []Month
	values []T
}

// Latest returns the latest month and value in the history.
// If the history is empty, it returns zero values.
func (h *History[T]) Latest() (month Month, value T) {
	last := len(h.months) - 1
	if last < 0 {
		return Month{}, *new(T)
	}
	return h.months[last], h.values[last]
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.months) }

// search returns the position of m in the history, and whether it is there.
func (h *History[T]) search(m Month) (int, bool) {
	return slices.BinarySearchFunc(h.months, m, Month.Compare)
}

// Append adds a point to the history.
//
// Existing value at that month is overwritten.
func (h *History[T]) Append(on Month, v T) *History[T] {
	i, found := h.search(on)
	if found {
		// last write wins, it gives priority to the most recent data
		h.values[i] = v
		return h
	}
	h.months = slices.Insert(h.months, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// AppendAdd adds a point to the history.
//
// Existing value is added.
func (h *History[T]) AppendAdd(on Month, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] += v
		return h
	}
	h.months = slices.Insert(h.months, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Values returns an iterator over all month/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Month, T] {
	return func(yield func(Month, T) bool) {
		for i, on := range h.months {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Months returns a copy of the months in chronological order.
func (h *History[T]) Months() []Month { return slices.Clone(h.months) }

// Get returns the value at month m and true or zero value and false.
func (h *History[T]) Get(m Month) (T, bool) {
	if i, found := h.search(m); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// ValueAsOf returns the value on a given month, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(m Month) (T, bool) {
	i, found := h.search(m)
	if found {
		return h.values[i], true
	}
	// `i` is where m would be inserted, the value we want is just before.
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}
