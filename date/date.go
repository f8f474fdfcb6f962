// Package date provides the month granularity calendar used by every
// computation: a Month key, month-keyed histories and month ranges.
package date

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
	"time"
)

// MonthFormat is the format used to represent months as strings.
const MonthFormat = "2006-01"

// readFormats are the permissive formats accepted by Parse, tried in order.
var readFormats = []string{
	"02/01/2006", // day/month/year, as typed in the record grids
	"2/1/2006",
	"01/2006",
	"1/2006",
	"2006-01-02",
	"2006-1-2",
	"2006-01",
	"2006-1",
	time.RFC3339,
}

// Month is a calendar month. Its zero value is the zero month, see IsZero.
type Month struct {
	y int
	m time.Month
}

// New returns a normalized Month, month 13 of 2024 is January 2025.
func New(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{t.Year(), t.Month()}
}

// Of returns the month containing t, in t's location.
func Of(t time.Time) Month { return Month{t.Year(), t.Month()} }

// Location is where epoch timestamps are read. Records keep dates as the
// local midnight of their day, so the default is the local time zone.
var Location = time.Local

// FromEpoch returns the month of an epoch timestamp in seconds, in Location.
func FromEpoch(secs int64) Month { return Of(time.Unix(secs, 0).In(Location)) }

// This returns the current month.
func This() Month { return Of(time.Now()) }

// time returns the first instant of the month in UTC.
func (m Month) time() time.Time { return time.Date(m.y, m.m, 1, 0, 0, 0, 0, time.UTC) }

// Time returns the first instant of the month in UTC.
func (m Month) Time() time.Time { return m.time() }

// Year returns the month's year.
func (m Month) Year() int { return m.y }

// Month returns the month of the year.
func (m Month) Month() time.Month { return m.m }

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool { return m == Month{} }

// Add returns the month n months after m (n can be negative).
func (m Month) Add(n int) Month { return New(m.y, m.m+time.Month(n)) }

// Before reports whether m is before x.
func (m Month) Before(x Month) bool { return m.Compare(x) < 0 }

// After reports whether m is after x.
func (m Month) After(x Month) bool { return m.Compare(x) > 0 }

// Compare returns -1, 0 or +1 when m is before, equal or after x.
func (m Month) Compare(x Month) int {
	switch {
	case m.y < x.y, m.y == x.y && m.m < x.m:
		return -1
	case m == x:
		return 0
	default:
		return 1
	}
}

// String formats the month as "2006-01", and the zero Month as "".
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return m.time().Format(MonthFormat)
}

// Parse parses a Month from any of the encodings found in records: epoch
// seconds, day/month/year, month/year, ISO dates and RFC 3339 timestamps.
// The day of the month, when present, is discarded.
//
// A plain number of more than 6 digits is epoch seconds, possibly with a
// fraction. The exception is 8 digits forming a valid yyyymmdd date, like
// "20240301": it is read as that date, so string epochs before 1973-03 may
// be misread.
func Parse(str string) (Month, error) {
	s := strings.TrimSpace(str)
	if s == "" {
		return Month{}, fmt.Errorf("invalid month: empty string")
	}
	if len(s) == 8 {
		if t, err := time.Parse("20060102", s); err == nil {
			return Of(t), nil
		}
	}
	if secs, ok := parseEpoch(s); ok {
		return FromEpoch(secs), nil
	}
	for _, layout := range readFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Of(t), nil
		}
	}
	return Month{}, fmt.Errorf("invalid month %q: want epoch seconds, dd/mm/yyyy, mm/yyyy, yyyy-mm-dd or yyyy-mm", str)
}

// parseEpoch reads epoch seconds written as digits, with an optional sign and
// fraction. The integer part must be longer than a year.
func parseEpoch(s string) (int64, bool) {
	digits, _, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	if len(digits) <= 6 || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return secs, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Floor(f)), true
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Month {
	m, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Normalize converts a loosely typed value, as decoded from JSON or returned by
// a database driver, into a Month.
func Normalize(v any) (Month, error) {
	switch x := v.(type) {
	case Month:
		return x, nil
	case time.Time:
		return Of(x), nil
	case string:
		return Parse(x)
	case json.Number:
		return Parse(x.String())
	case int:
		return FromEpoch(int64(x)), nil
	case int32:
		return FromEpoch(int64(x)), nil
	case int64:
		return FromEpoch(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Month{}, fmt.Errorf("invalid month: non finite epoch %v", x)
		}
		return FromEpoch(int64(x)), nil
	case nil:
		return Month{}, fmt.Errorf("invalid month: missing value")
	default:
		return Month{}, fmt.Errorf("invalid month: unsupported type %T", v)
	}
}

// UnmarshalJSON accepts a month string or an epoch number. The empty string
// is the zero Month.
func (m *Month) UnmarshalJSON(bytes []byte) error {
	var v any
	if err := json.Unmarshal(bytes, &v); err != nil {
		return err
	}
	if v == "" {
		*m = Month{}
		return nil
	}
	n, err := Normalize(v)
	if err != nil {
		return err
	}
	*m = n
	return nil
}

func (m Month) MarshalJSON() ([]byte, error) {
	str := m.String()
	return json.Marshal(&str)
}

// check that a Month pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)

// iterate returns an iterator over all unique, sorted months from multiple sorted series of months.
func iterate(series ...[]Month) iter.Seq[Month] {
	return func(yield func(Month) bool) {
		indexes := make([]int, len(series))
		// find the reached mins
		heads := make([]Month, 0, len(series))
		for {
			heads = heads[:0]
			for i, index := range indexes {
				if index < len(series[i]) {
					heads = append(heads, series[i][index])
				}
			}
			if len(heads) == 0 {
				// All series have been consumed, exit.
				return
			}
			m := heads[0]
			for _, h := range heads {
				if h.Before(m) {
					m = h
				}
			}
			// now consume the ones that are equals to the min
			for i, index := range indexes {
				if index < len(series[i]) && series[i][index] == m {
					indexes[i]++
				}
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Iterate returns an iterator over all unique, sorted months from multiple History objects.
func Iterate[T float64 | string](histories ...*History[T]) iter.Seq[Month] {
	months := make([][]Month, 0, len(histories))
	for _, h := range histories {
		months = append(months, h.months)
	}
	return iterate(months...)
}
