package renderer

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/date"
	"github.com/rs/zerolog"
)

func testResult(t *testing.T) *viewprofit.Result {
	t.Helper()
	a := viewprofit.NewFundSeries("a",
		viewprofit.FundRow{Month: date.New(2024, 4), StartingBalance: 1150, EndingBalance: 1100},
		viewprofit.FundRow{Month: date.New(2024, 3), StartingBalance: 1120, EndingBalance: 1150},
		viewprofit.FundRow{Month: date.New(2024, 2), StartingBalance: 1000, EndingBalance: 1120},
		viewprofit.FundRow{Month: date.New(2024, 1), Deposit: 1000, EndingBalance: 1000},
	)
	b := viewprofit.NewFundSeries("b",
		viewprofit.FundRow{Month: date.New(2024, 4), StartingBalance: 505, EndingBalance: 520},
		viewprofit.FundRow{Month: date.New(2024, 3), StartingBalance: 510, EndingBalance: 505},
		viewprofit.FundRow{Month: date.New(2024, 2), StartingBalance: 500, EndingBalance: 510},
		viewprofit.FundRow{Month: date.New(2024, 1), Deposit: 500, EndingBalance: 500},
	)
	inflation := viewprofit.NewBenchmarkSeries(viewprofit.DefaultInflation,
		viewprofit.BenchmarkRow{Month: date.New(2024, 4), Value: 0.2},
		viewprofit.BenchmarkRow{Month: date.New(2024, 3), Value: 0.1},
	)
	w := viewprofit.NewWorkspace(zerolog.Nop())
	res, err := w.Recompute(viewprofit.Input{
		Funds:      []viewprofit.Series{a, b},
		Benchmarks: []viewprofit.Series{inflation},
	})
	if err != nil {
		t.Fatalf("Recompute() failed: %v", err)
	}
	return res
}

func TestNewReport(t *testing.T) {
	r := NewReport(testResult(t), "USD")

	if r.Months != 4 {
		t.Errorf("NewReport().Months = %d, want 4", r.Months)
	}
	if got, want := r.Period.String(), "2024-01..2024-04"; got != want {
		t.Errorf("NewReport().Period = %q, want %q", got, want)
	}
	if len(r.Funds) != 2 || r.Funds[0].Name != "a" || r.Funds[1].Name != "b" {
		t.Fatalf("NewReport().Funds = %v, want a and b", r.Funds)
	}
	if got, want := r.Funds[0].NetBalance.String(), "$1,100.00"; got != want {
		t.Errorf("NewReport().Funds[0].NetBalance = %q, want %q", got, want)
	}
	if got, want := r.Portfolio.NetBalance.String(), "$1,620.00"; got != want {
		t.Errorf("NewReport().Portfolio.NetBalance = %q, want %q", got, want)
	}
	if len(r.Benchmarks) != 1 || r.Benchmarks[0].Name != viewprofit.DefaultInflation {
		t.Errorf("NewReport().Benchmarks = %v, want inflation", r.Benchmarks)
	}
	if r.PCA == nil || len(r.PCA.Projections) != 2 {
		t.Errorf("NewReport().PCA = %v, want 2 projections", r.PCA)
	}
}

func TestRenderReport(t *testing.T) {
	r := NewReport(testResult(t), "USD")

	testCases := []struct {
		name    string
		opts    ReportOptions
		want    []string
		notWant []string
	}{
		{
			name: "full",
			want: []string{
				"# Portfolio Report",
				"4 months from 2024-01 to 2024-04.",
				"## Portfolio",
				"| a | 2024-04 |",
				"| b | 2024-04 |",
				"## Allocation",
				"## Benchmarks",
				"| inflation | 2024-04 | +0.20% |",
				"## Principal Components",
			},
		},
		{
			name:    "skip pca and benchmarks",
			opts:    ReportOptions{SkipPCA: true, SkipBenchmarks: true},
			want:    []string{"## Funds", "## Allocation"},
			notWant: []string{"## Principal Components", "## Benchmarks"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderReport(r, tc.opts)
			if strings.HasPrefix(got, "error") {
				t.Fatalf("RenderReport() = %s", got)
			}
			for _, want := range tc.want {
				if !strings.Contains(got, want) {
					t.Errorf("RenderReport() does not contain %q:\n%s", want, got)
				}
			}
			for _, notWant := range tc.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("RenderReport() contains %q:\n%s", notWant, got)
				}
			}
		})
	}
}

func TestRenderReport_Empty(t *testing.T) {
	got := RenderReport(&Report{}, ReportOptions{})
	for _, want := range []string{"No records.", "No funds.", "Not enough data."} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderReport() does not contain %q:\n%s", want, got)
		}
	}
}

// TestTemplatePartials renders every template of the folder on its own.
func TestTemplatePartials(t *testing.T) {
	files, err := fs.Glob(templates, "templates/*.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no embedded templates")
	}
	r := NewReport(testResult(t), "USD")
	for _, file := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".md")
		if name == "report" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			got := renderTemplate(name, name+".md", nil, r)
			if strings.HasPrefix(got, "error") {
				t.Errorf("renderTemplate(%q) = %s", name, got)
			}
		})
	}
}

func TestFundMarkdown(t *testing.T) {
	res := testResult(t)
	testCases := []struct {
		name string
		rows []viewprofit.ReturnRow
		want []string
	}{
		{"a", res.Funds["a"], []string{"# Fund a", "2024-01", "2024-04", "$1,100.00"}},
		{viewprofit.PortfolioName, res.Portfolio, []string{"# Portfolio", "$1,620.00"}},
		{"empty", nil, []string{"# Fund empty", "No records."}},
	}
	for _, tc := range testCases {
		got := FundMarkdown(tc.name, tc.rows, "USD")
		for _, want := range tc.want {
			if !strings.Contains(got, want) {
				t.Errorf("FundMarkdown(%q) does not contain %q:\n%s", tc.name, want, got)
			}
		}
	}
}

func TestStatsMarkdown(t *testing.T) {
	res := testResult(t)
	returns, ok := res.Series("a")
	if !ok {
		t.Fatal("Series(a) not found")
	}
	corr, err := res.Correlation("a", "b")
	if err != nil {
		t.Fatal(err)
	}
	got := StatsMarkdown(Stats{
		Name:             "a",
		Returns:          returns,
		StdDev:           res.StdDev["a"],
		SecondDerivative: res.SecondDerivative["a"],
		With:             "b",
		Correlation:      corr,
	})
	for _, want := range []string{"# Statistics for a", "Correlation with b", "2024-04", "2024-01"} {
		if !strings.Contains(got, want) {
			t.Errorf("StatsMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if i, j := strings.Index(got, "2024-04"), strings.Index(got, "2024-01"); i > j {
		t.Errorf("StatsMarkdown() is not newest month first:\n%s", got)
	}
}

func TestCrossCorrelationMarkdown(t *testing.T) {
	points := []viewprofit.Point{{Value: 1}, {Value: 2}, {Value: 14}}
	got := CrossCorrelationMarkdown("a", "b", points)
	for _, want := range []string{"# Cross-correlation of a and b", "14.0000", "Lag"} {
		if !strings.Contains(got, want) {
			t.Errorf("CrossCorrelationMarkdown() does not contain %q:\n%s", want, got)
		}
	}
}

func TestAllocationAndPCAMarkdown(t *testing.T) {
	res := testResult(t)
	got := AllocationMarkdown(res.Allocation, "USD")
	if !strings.Contains(got, "# Allocation") || !strings.Contains(got, "$1,150.00") {
		t.Errorf("AllocationMarkdown() = \n%s", got)
	}
	if got := AllocationMarkdown(nil, "USD"); !strings.Contains(got, "No funds.") {
		t.Errorf("AllocationMarkdown(nil) = \n%s", got)
	}

	got = PCAMarkdown(NewReport(res, "USD"))
	for _, want := range []string{"# Principal Component Analysis", "PC1", "## Projections"} {
		if !strings.Contains(got, want) {
			t.Errorf("PCAMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if got := PCAMarkdown(&Report{}); !strings.Contains(got, "Not enough data.") {
		t.Errorf("PCAMarkdown() = \n%s", got)
	}
}

func TestHTML(t *testing.T) {
	got, err := HTML("a <b>", "# Title\n\n| x | y |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("HTML() failed: %v", err)
	}
	for _, want := range []string{"<title>a &lt;b&gt;</title>", "<h1>Title</h1>", "<table>", "<td>1</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() does not contain %q:\n%s", want, got)
		}
	}
}
