package viewprofit

import (
	"slices"

	"github.com/etnz/viewprofit/date"
)

// RecentMonths returns up to k distinct months found in the series, oldest-first.
//
// Series are scanned in the order supplied, each in its stored (newest-first)
// order, and the scan stops as soon as k distinct months are collected. The
// order of the series therefore matters when they do not cover the same
// months. k <= 0 returns every month of every series.
func RecentMonths(k int, series ...Series) []date.Month {
	if k <= 0 {
		histories := make([]*date.History[string], 0, len(series))
		for _, s := range series {
			h := new(date.History[string])
			for _, o := range s.Observations {
				h.Append(o.Month, "")
			}
			histories = append(histories, h)
		}
		return slices.Collect(date.Iterate(histories...))
	}

	seen := make(map[date.Month]bool, k)
	months := make([]date.Month, 0, k)
collect:
	for _, s := range series {
		for _, o := range s.Observations {
			if seen[o.Month] {
				continue
			}
			seen[o.Month] = true
			months = append(months, o.Month)
			if len(months) == k {
				break collect
			}
		}
	}
	slices.SortFunc(months, date.Month.Compare)
	return months
}

// Alignment is a grid of one field's values, one row per month, one column per series.
type Alignment struct {
	Months []date.Month
	Names  []string
	// Values[i][j] is the value of series j for month i, 0 when missing.
	Values [][]float64
	// Missing[i][j] is true when series j has no value for month i.
	Missing [][]bool
}

// Align looks up field in every series for every month. A series lacking a
// month gets a 0 and is flagged in Missing, it never fails the alignment.
func Align(months []date.Month, field string, series ...Series) Alignment {
	a := Alignment{
		Months:  months,
		Names:   make([]string, len(series)),
		Values:  make([][]float64, len(months)),
		Missing: make([][]bool, len(months)),
	}
	for j, s := range series {
		a.Names[j] = s.Name
	}
	for i, m := range months {
		a.Values[i] = make([]float64, len(series))
		a.Missing[i] = make([]bool, len(series))
		for j, s := range series {
			v, ok := s.Lookup(m, field)
			a.Values[i][j] = v
			a.Missing[i][j] = !ok
		}
	}
	return a
}

// Column returns the values of the series named name, oldest-first.
func (a Alignment) Column(name string) ([]float64, bool) {
	j := slices.Index(a.Names, name)
	if j < 0 {
		return nil, false
	}
	col := make([]float64, len(a.Months))
	for i := range a.Months {
		col[i] = a.Values[i][j]
	}
	return col, true
}
