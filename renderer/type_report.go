package renderer

import (
	"fmt"
	"slices"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/date"
)

// Report is the view of a whole recompute result.
// Amounts are Money and Percent values so that they carry their own
// formatting (String, SignedString).
type Report struct {
	// Period covered by the portfolio and the statistics.
	Period date.Range
	// Months is the number of months in Period.
	Months int
	// Portfolio is the line of the whole portfolio.
	Portfolio ReportLine
	// Funds in input order.
	Funds      []ReportLine
	Benchmarks []ReportBenchmark
	Allocation []ReportShare
	// PCA is nil when there was not enough data to run it.
	PCA *ReportPCA
}

// ReportLine summarizes the latest month of a fund or of the portfolio.
type ReportLine struct {
	Name string
	// Month is the latest month with a record.
	Month                 date.Month
	NetDeposit            viewprofit.Money
	NetBalance            viewprofit.Money
	NetReturn             viewprofit.Money
	AccumulatedNetReturn  viewprofit.Money
	NetReturnPerc         viewprofit.Percent
	AccumulatedReturnPerc viewprofit.Percent
	AccumulatedRealPerc   viewprofit.Percent
	// Volatility is the latest expanding standard deviation of the monthly
	// net return percent.
	Volatility viewprofit.Percent
}

// ReportBenchmark is the latest accumulated change of a benchmark.
type ReportBenchmark struct {
	Name        string
	Month       date.Month
	Value       viewprofit.Percent
	Accumulated viewprofit.Percent
}

// ReportShare is a line of the allocation.
type ReportShare struct {
	Name       string
	NetBalance viewprofit.Money
	Percent    viewprofit.Percent
}

// ReportPCA is the principal component analysis of the funds.
type ReportPCA struct {
	PC1, PC2    viewprofit.Percent
	Projections []ReportProjection
}

// ReportProjection is the coordinate of a fund in the PC1, PC2 plane.
type ReportProjection struct {
	Name     string
	PC1, PC2 string
}

// NewReport creates the report view of res, amounts in currency.
func NewReport(res *viewprofit.Result, currency string) *Report {
	r := &Report{Months: len(res.Months)}
	if n := len(res.Months); n > 0 {
		r.Period = date.Range{From: res.Months[0], To: res.Months[n-1]}
	}

	r.Portfolio = newReportLine(viewprofit.PortfolioName, res.Portfolio, res.StdDev[viewprofit.PortfolioName], currency)
	for _, name := range res.FundNames {
		r.Funds = append(r.Funds, newReportLine(name, res.Funds[name], res.StdDev[name], currency))
	}

	names := make([]string, 0, len(res.Benchmarks))
	for name := range res.Benchmarks {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		rows := res.Benchmarks[name]
		if len(rows) == 0 {
			continue
		}
		r.Benchmarks = append(r.Benchmarks, ReportBenchmark{
			Name:        name,
			Month:       rows[0].Month,
			Value:       viewprofit.Percent(rows[0].Value),
			Accumulated: viewprofit.Percent(rows[0].Accumulated),
		})
	}

	for _, s := range res.Allocation {
		r.Allocation = append(r.Allocation, ReportShare{
			Name:       s.Name,
			NetBalance: viewprofit.M(s.NetBalance, currency),
			Percent:    viewprofit.Percent(s.Percent),
		})
	}

	if res.PCA != nil {
		pca := &ReportPCA{
			PC1: viewprofit.Percent(res.PCA.ExplainedVariance[0]),
			PC2: viewprofit.Percent(res.PCA.ExplainedVariance[1]),
		}
		for _, name := range res.FundNames {
			p, ok := res.PCA.Projections[name]
			if !ok {
				continue
			}
			pca.Projections = append(pca.Projections, ReportProjection{
				Name: name,
				PC1:  fmt.Sprintf("%.3f", p.PC1),
				PC2:  fmt.Sprintf("%.3f", p.PC2),
			})
		}
		r.PCA = pca
	}
	return r
}

// newReportLine summarizes newest-first rows.
func newReportLine(name string, rows []viewprofit.ReturnRow, stddev []viewprofit.Point, currency string) ReportLine {
	line := ReportLine{Name: name}
	if len(rows) == 0 {
		line.NetDeposit = viewprofit.M(0, currency)
		line.NetBalance = viewprofit.M(0, currency)
		line.NetReturn = viewprofit.M(0, currency)
		line.AccumulatedNetReturn = viewprofit.M(0, currency)
		return line
	}
	last := rows[0]
	line.Month = last.Month
	line.NetDeposit = viewprofit.M(last.NetDeposit, currency)
	line.NetBalance = viewprofit.M(last.NetBalance, currency)
	line.NetReturn = viewprofit.M(last.NetReturn, currency)
	line.AccumulatedNetReturn = viewprofit.M(last.AccumulatedNetReturn, currency)
	line.NetReturnPerc = viewprofit.Percent(last.NetReturnPerc)
	line.AccumulatedReturnPerc = viewprofit.Percent(last.AccumulatedNetReturnPerc)
	line.AccumulatedRealPerc = viewprofit.Percent(last.AccumulatedRealReturnPerc)
	if n := len(stddev); n > 0 {
		line.Volatility = viewprofit.Percent(stddev[n-1].Value)
	}
	return line
}
