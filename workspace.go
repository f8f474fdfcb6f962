package viewprofit

import (
	"errors"
	"fmt"
	"math"

	"github.com/etnz/viewprofit/date"
	"github.com/etnz/viewprofit/stats"
	"github.com/rs/zerolog"
)

// Point is a value of a derived series for a month.
type Point struct {
	Month date.Month
	Value float64
}

// Params are the user parameters of a recompute.
type Params struct {
	// IncomeTax is the income tax percent per fund name, 0 when absent.
	IncomeTax map[string]float64
	// PortfolioTax is the income tax percent applied to the portfolio.
	PortfolioTax float64
	// Months bounds the number of recent months used for the portfolio and
	// the statistics. 0 means all of them.
	Months int
	// Inflation is the name of the benchmark used for real returns.
	// Empty means DefaultInflation.
	Inflation string
	// Standardize the monthly returns before the PCA.
	Standardize bool
}

// Input is everything a recompute is made of.
type Input struct {
	Funds      []Series
	Benchmarks []Series
	Params     Params
}

// Result is the derived state of a recompute. It is never modified after
// being returned.
type Result struct {
	// Months is the window of the portfolio and statistics, oldest-first.
	Months []date.Month
	// FundNames in input order.
	FundNames  []string
	Funds      map[string][]ReturnRow
	Benchmarks map[string][]BenchmarkReturnRow
	Portfolio  []ReturnRow
	Allocation []Share

	// StdDev and SecondDerivative of the monthly net return percent of
	// every fund and of the portfolio, on Months.
	StdDev           map[string][]Point
	SecondDerivative map[string][]Point

	// PCA of the funds' monthly net return percent, nil when there is not
	// enough data.
	PCA *stats.PCAResult

	returns Alignment
}

// Workspace recomputes results from inputs and keeps the last good one.
//
// A Workspace is not safe for concurrent use: callers serialize recomputes,
// the last one wins.
type Workspace struct {
	Log  zerolog.Logger
	last *Result
}

// NewWorkspace returns a Workspace logging to log.
func NewWorkspace(log zerolog.Logger) *Workspace { return &Workspace{Log: log} }

// Last returns the last successful result, or nil.
func (w *Workspace) Last() *Result { return w.last }

// Recompute rebuilds every derived value from in.
//
// On error the last result is left untouched.
func (w *Workspace) Recompute(in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p := in.Params
	inflationName := p.Inflation
	if inflationName == "" {
		inflationName = DefaultInflation
	}

	res := &Result{
		Funds:            make(map[string][]ReturnRow, len(in.Funds)),
		Benchmarks:       make(map[string][]BenchmarkReturnRow, len(in.Benchmarks)),
		StdDev:           make(map[string][]Point),
		SecondDerivative: make(map[string][]Point),
	}

	var inflation *date.History[float64]
	for _, b := range in.Benchmarks {
		rows := BenchmarkRows(b)
		res.Benchmarks[b.Name] = CalculateBenchmark(rows)
		if b.Name == inflationName {
			inflation = InflationHistory(rows)
		}
	}
	if inflation == nil {
		w.Log.Warn().Str("benchmark", inflationName).Msg("no inflation benchmark, real returns are net returns")
	}

	for _, f := range in.Funds {
		res.FundNames = append(res.FundNames, f.Name)
		rows := CalculateFund(FundRows(f), FundParams{IncomeTax: p.IncomeTax[f.Name], Inflation: inflation})
		if rows == nil && w.last != nil {
			// no rows, keep what was there.
			rows = w.last.Funds[f.Name]
		}
		res.Funds[f.Name] = rows
		w.Log.Debug().Str("fund", f.Name).Int("rows", len(rows)).Msg("fund computed")
	}

	res.Months = RecentMonths(p.Months, in.Funds...)
	res.Portfolio = AggregatePortfolio(in.Funds, p.Months, FundParams{IncomeTax: p.PortfolioTax, Inflation: inflation})
	res.Allocation = Allocation(res.Funds)

	derived := make([]Series, 0, len(in.Funds)+1)
	for _, name := range res.FundNames {
		derived = append(derived, ReturnSeries(name, Fund, res.Funds[name]))
	}
	derived = append(derived, ReturnSeries(PortfolioName, Portfolio, res.Portfolio))
	res.returns = Align(res.Months, FieldNetReturnPerc, derived...)

	for _, s := range derived {
		values, _ := res.returns.Column(s.Name)
		values = finiteOrZero(values)
		res.StdDev[s.Name] = points(res.Months, stats.ExpandingStdDev(values))
		d2, err := stats.SecondDerivative(values)
		if err != nil {
			w.Log.Debug().Err(err).Str("series", s.Name).Msg("no second derivative")
			continue
		}
		res.SecondDerivative[s.Name] = points(res.Months, d2)
	}

	pca, err := w.pca(res, p.Standardize)
	if err != nil {
		return nil, err
	}
	res.PCA = pca

	w.last = res
	w.Log.Info().Int("funds", len(in.Funds)).Int("benchmarks", len(in.Benchmarks)).Int("months", len(res.Months)).Msg("recomputed")
	return res, nil
}

// pca runs the principal component analysis of the funds' monthly returns,
// most recent month first. Undefined returns count as 0.
func (w *Workspace) pca(res *Result, standardize bool) (*stats.PCAResult, error) {
	data := make([][]float64, 0, len(res.FundNames))
	for _, name := range res.FundNames {
		values, _ := res.returns.Column(name)
		row := make([]float64, len(values))
		for i, v := range values {
			if finite(v) {
				row[len(values)-1-i] = v
			}
		}
		data = append(data, row)
	}
	pca, err := stats.PCA(res.FundNames, data, standardize)
	switch {
	case errors.Is(err, stats.ErrInsufficientData), errors.Is(err, stats.ErrNoVariance):
		w.Log.Warn().Err(err).Msg("skipping principal component analysis")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("principal component analysis: %w", err)
	}
	return pca, nil
}

func validate(in Input) error {
	var errs []error
	seen := make(map[string]bool)
	for _, f := range in.Funds {
		switch {
		case f.Name == "":
			errs = append(errs, errors.New("fund without a name"))
		case f.Name == PortfolioName:
			errs = append(errs, fmt.Errorf("fund name %q is reserved", f.Name))
		case seen[f.Name]:
			errs = append(errs, fmt.Errorf("duplicate fund %q", f.Name))
		}
		seen[f.Name] = true
	}
	seen = make(map[string]bool)
	for _, b := range in.Benchmarks {
		if seen[b.Name] {
			errs = append(errs, fmt.Errorf("duplicate benchmark %q", b.Name))
		}
		seen[b.Name] = true
	}
	for name, tax := range in.Params.IncomeTax {
		if math.IsNaN(tax) || tax < 0 || tax > 100 {
			errs = append(errs, fmt.Errorf("income tax of %q must be a percent, got %v", name, tax))
		}
	}
	if t := in.Params.PortfolioTax; math.IsNaN(t) || t < 0 || t > 100 {
		errs = append(errs, fmt.Errorf("portfolio income tax must be a percent, got %v", t))
	}
	return errors.Join(errs...)
}

func points(months []date.Month, values []float64) []Point {
	out := make([]Point, len(values))
	for i, v := range values {
		out[i] = Point{Month: months[i], Value: v}
	}
	return out
}

// Series returns the monthly net return percent of a fund, or of the
// portfolio, on the result months.
func (r *Result) Series(name string) ([]Point, bool) {
	values, ok := r.returns.Column(name)
	if !ok {
		return nil, false
	}
	return points(r.Months, values), true
}

// Correlation is the expanding correlation of the monthly net return percent
// of a and b.
func (r *Result) Correlation(a, b string) ([]Point, error) {
	va, vb, err := r.pair(a, b)
	if err != nil {
		return nil, err
	}
	c, err := stats.ExpandingCorrelation(va, vb)
	if err != nil {
		return nil, err
	}
	return points(r.Months, c), nil
}

// CrossCorrelation is the raw cross-correlation of the monthly net return
// percent of a and b, oldest lag first.
//
// Its points are indexed by lag, not by month: Month is left zero.
func (r *Result) CrossCorrelation(a, b string) ([]Point, error) {
	va, vb, err := r.pair(a, b)
	if err != nil {
		return nil, err
	}
	c, err := stats.CrossCorrelation(va, vb)
	if err != nil {
		return nil, err
	}
	out := make([]Point, len(c))
	for i, v := range c {
		out[i].Value = v
	}
	return out, nil
}

func (r *Result) pair(a, b string) ([]float64, []float64, error) {
	va, ok := r.returns.Column(a)
	if !ok {
		return nil, nil, fmt.Errorf("unknown series %q", a)
	}
	vb, ok := r.returns.Column(b)
	if !ok {
		return nil, nil, fmt.Errorf("unknown series %q", b)
	}
	return finiteOrZero(va), finiteOrZero(vb), nil
}

func finiteOrZero(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if finite(v) {
			out[i] = v
		}
	}
	return out
}
