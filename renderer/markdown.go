package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/viewprofit"
	md "github.com/nao1215/markdown"
)

// FundMarkdown renders the derived rows of a fund, or of the portfolio, newest month first.
func FundMarkdown(name string, rows []viewprofit.ReturnRow, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if name == viewprofit.PortfolioName {
		doc.H1("Portfolio")
	} else {
		doc.H1(fmt.Sprintf("Fund %s", name))
	}
	if len(rows) == 0 {
		doc.PlainText("No records.")
		return doc.String()
	}

	last := rows[0]
	doc.PlainText(fmt.Sprintf("Net balance on %s: %s, net deposit %s, accumulated return %s (real %s).",
		last.Month,
		md.Bold(viewprofit.M(last.NetBalance, currency).String()),
		viewprofit.M(last.NetDeposit, currency),
		viewprofit.Percent(last.AccumulatedNetReturnPerc).SignedString(),
		viewprofit.Percent(last.AccumulatedRealReturnPerc).SignedString(),
	))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Month", "Deposit", "Withdrawal", "Ending Balance", "Net Balance", "Return", "Return %", "Real %", "Accumulated %"},
		Rows:   [][]string{},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Month.String(),
			viewprofit.M(r.Deposit, currency).SignedString(),
			viewprofit.M(r.Withdrawal, currency).SignedString(),
			viewprofit.M(r.EndingBalance, currency).String(),
			viewprofit.M(r.NetBalance, currency).String(),
			viewprofit.M(r.NetReturn, currency).SignedString(),
			viewprofit.Percent(r.NetReturnPerc).SignedString(),
			viewprofit.Percent(r.RealReturnPerc).SignedString(),
			viewprofit.Percent(r.AccumulatedNetReturnPerc).SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// BenchmarkMarkdown renders the monthly and accumulated changes of a benchmark.
func BenchmarkMarkdown(name string, rows []viewprofit.BenchmarkReturnRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Benchmark %s", name))
	if len(rows) == 0 {
		doc.PlainText("No records.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Month", "Change", "Accumulated"},
		Rows:      [][]string{},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Month.String(),
			viewprofit.Percent(r.Value).SignedString(),
			viewprofit.Percent(r.Accumulated).SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// Stats is the statistics of a series over a window of months, oldest-first.
type Stats struct {
	Name             string
	Returns          []viewprofit.Point
	StdDev           []viewprofit.Point
	SecondDerivative []viewprofit.Point
	// With names the series Correlation is computed against, if any.
	With        string
	Correlation []viewprofit.Point
}

// StatsMarkdown renders the expanding statistics of a series, newest month first.
func StatsMarkdown(s Stats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Statistics for %s", s.Name))
	if len(s.Returns) == 0 {
		doc.PlainText("No records.")
		return doc.String()
	}

	header := []string{"Month", "Return %", "Volatility", "Second Derivative"}
	alignment := []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight}
	if s.With != "" {
		header = append(header, "Correlation with "+s.With)
		alignment = append(alignment, md.AlignRight)
	}
	table := md.TableSet{Alignment: alignment, Header: header, Rows: [][]string{}}
	for i := len(s.Returns) - 1; i >= 0; i-- {
		row := []string{
			s.Returns[i].Month.String(),
			viewprofit.Percent(s.Returns[i].Value).SignedString(),
			pointAt(s.StdDev, i, "%.4f"),
			pointAt(s.SecondDerivative, i, "%+.4f"),
		}
		if s.With != "" {
			row = append(row, pointAt(s.Correlation, i, "%+.4f"))
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	return doc.String()
}

// CrossCorrelationMarkdown renders the cross-correlation of a and b by lag,
// largest lag first.
func CrossCorrelationMarkdown(a, b string, points []viewprofit.Point) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Cross-correlation of %s and %s", a, b))
	if len(points) == 0 {
		doc.PlainText("No records.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight},
		Header:    []string{"Lag", "Value"},
		Rows:      [][]string{},
	}
	for i, p := range points {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", len(points)-1-i),
			fmt.Sprintf("%.4f", p.Value),
		})
	}
	doc.Table(table)
	return doc.String()
}

// AllocationMarkdown renders the share of every fund.
func AllocationMarkdown(shares []viewprofit.Share, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Allocation")
	if len(shares) == 0 {
		doc.PlainText("No funds.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Fund", "Net Balance", "Share"},
		Rows:      [][]string{},
	}
	for _, s := range shares {
		table.Rows = append(table.Rows, []string{
			s.Name,
			viewprofit.M(s.NetBalance, currency).String(),
			viewprofit.Percent(s.Percent).String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// PCAMarkdown renders the explained variance and the projections of the funds.
func PCAMarkdown(r *Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Principal Component Analysis")
	if r.PCA == nil {
		doc.PlainText("Not enough data.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("%d months from %s to %s.", r.Months, r.Period.From, r.Period.To))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Component", "Explained Variance"},
		Rows: [][]string{
			{"PC1", r.PCA.PC1.String()},
			{"PC2", r.PCA.PC2.String()},
		},
	})

	doc.H2("Projections")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Fund", "PC1", "PC2"},
		Rows:      [][]string{},
	}
	for _, p := range r.PCA.Projections {
		table.Rows = append(table.Rows, []string{p.Name, p.PC1, p.PC2})
	}
	doc.Table(table)
	return doc.String()
}

// pointAt formats points[i] or "-" when it is missing.
func pointAt(points []viewprofit.Point, i int, format string) string {
	if i >= len(points) {
		return "-"
	}
	return fmt.Sprintf(format, points[i].Value)
}
