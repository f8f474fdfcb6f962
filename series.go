package viewprofit

import (
	"fmt"
	"strings"

	"github.com/etnz/viewprofit/date"
)

// Column names of the record vocabulary shared with record sources.
const (
	FieldDate            = "date"
	FieldDeposit         = "deposit"
	FieldWithdrawal      = "withdrawal"
	FieldStartingBalance = "starting_balance"
	FieldEndingBalance   = "ending_balance"
	FieldValue           = "value"

	FieldAccumulatedDeposit        = "accumulated_deposit"
	FieldAccumulatedWithdrawal     = "accumulated_withdrawal"
	FieldNetDeposit                = "net_deposit"
	FieldGrossReturn               = "gross_return"
	FieldGrossReturnPerc           = "gross_return_perc"
	FieldNetReturn                 = "net_return"
	FieldNetReturnPerc             = "net_return_perc"
	FieldNetBalance                = "net_balance"
	FieldAccumulatedNetReturn      = "accumulated_net_return"
	FieldAccumulatedNetReturnPerc  = "accumulated_net_return_perc"
	FieldRealReturnPerc            = "real_return_perc"
	FieldAccumulatedRealReturnPerc = "accumulated_real_return_perc"
	FieldAccumulated               = "accumulated"
)

// DefaultInflation is the name of the benchmark used to compute real returns.
const DefaultInflation = "inflation"

// PortfolioName is the name of the synthetic series aggregating all funds.
const PortfolioName = "portfolio"

// Kind tells what a Series represents.
type Kind int

const (
	Fund Kind = iota
	Benchmark
	Portfolio
)

func (k Kind) String() string {
	switch k {
	case Fund:
		return "fund"
	case Benchmark:
		return "benchmark"
	case Portfolio:
		return "portfolio"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses the String() form of a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "fund", "funds", "investment":
		return Fund, nil
	case "benchmark", "benchmarks":
		return Benchmark, nil
	case "portfolio":
		return Portfolio, nil
	default:
		return Fund, fmt.Errorf("unknown series kind %q", s)
	}
}

// Observation is a row of named values for a month.
type Observation struct {
	Month  date.Month
	Fields map[string]float64
}

// Series is a named sequence of observations, stored newest-first.
//
// A series may be sparse, and may, by mistake, contain a month twice: lookups
// use the first observation found.
type Series struct {
	Name         string
	Kind         Kind
	Observations []Observation
}

// Lookup scans the observations for month m and returns its field value.
func (s Series) Lookup(m date.Month, field string) (float64, bool) {
	for _, o := range s.Observations {
		if o.Month == m {
			v, ok := o.Fields[field]
			return v, ok
		}
	}
	return 0, false
}

// History returns the series' field values keyed by month, in chronological
// order. The first observation of a duplicated month wins.
func (s Series) History(field string) *date.History[float64] {
	h := new(date.History[float64])
	for i := len(s.Observations) - 1; i >= 0; i-- {
		o := s.Observations[i]
		if v, ok := o.Fields[field]; ok {
			h.Append(o.Month, v)
		}
	}
	return h
}

// FundRow is a raw monthly record of a fund.
type FundRow struct {
	Month           date.Month
	Deposit         float64
	Withdrawal      float64
	StartingBalance float64
	EndingBalance   float64
}

// BenchmarkRow is a raw monthly record of a benchmark, its Value is a percent.
type BenchmarkRow struct {
	Month date.Month
	Value float64
}

// FundRows converts a series into typed fund rows, preserving the order.
// Missing fields are read as 0.
func FundRows(s Series) []FundRow {
	rows := make([]FundRow, 0, len(s.Observations))
	for _, o := range s.Observations {
		rows = append(rows, FundRow{
			Month:           o.Month,
			Deposit:         o.Fields[FieldDeposit],
			Withdrawal:      o.Fields[FieldWithdrawal],
			StartingBalance: o.Fields[FieldStartingBalance],
			EndingBalance:   o.Fields[FieldEndingBalance],
		})
	}
	return rows
}

// BenchmarkRows converts a series into typed benchmark rows, preserving the order.
func BenchmarkRows(s Series) []BenchmarkRow {
	rows := make([]BenchmarkRow, 0, len(s.Observations))
	for _, o := range s.Observations {
		rows = append(rows, BenchmarkRow{Month: o.Month, Value: o.Fields[FieldValue]})
	}
	return rows
}

// NewFundSeries builds a fund series from typed rows.
func NewFundSeries(name string, rows ...FundRow) Series {
	s := Series{Name: name, Kind: Fund, Observations: make([]Observation, 0, len(rows))}
	for _, r := range rows {
		s.Observations = append(s.Observations, Observation{
			Month: r.Month,
			Fields: map[string]float64{
				FieldDeposit:         r.Deposit,
				FieldWithdrawal:      r.Withdrawal,
				FieldStartingBalance: r.StartingBalance,
				FieldEndingBalance:   r.EndingBalance,
			},
		})
	}
	return s
}

// NewBenchmarkSeries builds a benchmark series from typed rows.
func NewBenchmarkSeries(name string, rows ...BenchmarkRow) Series {
	s := Series{Name: name, Kind: Benchmark, Observations: make([]Observation, 0, len(rows))}
	for _, r := range rows {
		s.Observations = append(s.Observations, Observation{
			Month:  r.Month,
			Fields: map[string]float64{FieldValue: r.Value},
		})
	}
	return s
}
