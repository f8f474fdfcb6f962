package viewprofit

import (
	"math"

	"github.com/etnz/viewprofit/date"
)

// BenchmarkReturnRow is a derived monthly row of a benchmark.
type BenchmarkReturnRow struct {
	Month date.Month
	// Value is the percent change of the month.
	Value float64
	// Accumulated is the compounded percent change since the oldest month.
	Accumulated float64
}

// CalculateBenchmark compounds the monthly values of a benchmark.
// Rows are newest-first and so is the result.
func CalculateBenchmark(rows []BenchmarkRow) []BenchmarkReturnRow {
	if len(rows) == 0 {
		return nil
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Value
	}
	acc := reverseAccumulate(values)
	out := make([]BenchmarkReturnRow, len(rows))
	for i, r := range rows {
		out[i] = BenchmarkReturnRow{Month: r.Month, Value: r.Value, Accumulated: acc[i]}
	}
	return out
}

// InflationHistory indexes the monthly percent of a benchmark by month, for
// real return lookups. When a month is duplicated, the first row wins.
func InflationHistory(rows []BenchmarkRow) *date.History[float64] {
	h := new(date.History[float64])
	for i := len(rows) - 1; i >= 0; i-- {
		if math.IsNaN(rows[i].Value) {
			continue
		}
		h.Append(rows[i].Month, rows[i].Value)
	}
	return h
}
