package date

import "fmt"

// Range represents a range of months, boundaries included.
// A zero boundary leaves that side open.
type Range struct{ From, To Month }

// LastMonths returns the range of the n months ending with 'to'.
func LastMonths(to Month, n int) Range {
	if n <= 0 {
		return Range{To: to}
	}
	return Range{From: to.Add(1 - n), To: to}
}

// ParseRange parses the boundaries of a range, empty strings leave that side open.
func ParseRange(from, to string) (r Range, err error) {
	if from != "" {
		if r.From, err = Parse(from); err != nil {
			return Range{}, fmt.Errorf("parsing range start: %w", err)
		}
	}
	if to != "" {
		if r.To, err = Parse(to); err != nil {
			return Range{}, fmt.Errorf("parsing range end: %w", err)
		}
	}
	return r, nil
}

// Contains return true if m is included in the range.
func (r Range) Contains(m Month) bool {
	if !r.From.IsZero() && m.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && m.After(r.To) {
		return false
	}
	return true
}

// Filter returns the indexes of the months that are in the range.
func (r Range) Filter(months []Month) []int {
	var idx []int
	for i, m := range months {
		if r.Contains(m) {
			idx = append(idx, i)
		}
	}
	return idx
}

// String returns "from..to", open sides are left empty.
func (r Range) String() string {
	var from, to string
	if !r.From.IsZero() {
		from = r.From.String()
	}
	if !r.To.IsZero() {
		to = r.To.String()
	}
	return from + ".." + to
}
