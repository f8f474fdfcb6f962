package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/tabular"
	"github.com/google/subcommands"
)

// Folders written by calc, next to tabular.FundsFolder and tabular.BenchmarksFolder.
const (
	portfolioFolder = "portfolio"
	statsFolder     = "stats"
)

type calcCmd struct {
	output string
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "write every derived table as JSONL" }
func (*calcCmd) Usage() string {
	return `viewprofit calc -o <dir>

  Recomputes every derived value and writes them as JSONL tables:

    <dir>/funds/<fund>.jsonl
    <dir>/benchmarks/<benchmark>.jsonl
    <dir>/portfolio/portfolio.jsonl
    <dir>/stats/<fund>-stddev.jsonl
    <dir>/stats/<fund>-second-derivative.jsonl
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "derived", "Output folder")
}

func (c *calcCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := recompute(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := writeResult(c.output, s.res); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing derived tables: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Derived tables written to %s\n", c.output)
	return subcommands.ExitSuccess
}

// writeResult writes every table of res below dir.
func writeResult(dir string, res *viewprofit.Result) error {
	var errs []error
	write := func(folder string, t tabular.Table) {
		if err := tabular.EncodeFile(filepath.Join(dir, folder), t); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range res.FundNames {
		write(tabular.FundsFolder, tabular.FundTable(name, viewprofit.Fund, res.Funds[name]))
	}
	for name, rows := range res.Benchmarks {
		write(tabular.BenchmarksFolder, tabular.BenchmarkTable(name, rows))
	}
	write(portfolioFolder, tabular.FundTable(viewprofit.PortfolioName, viewprofit.Portfolio, res.Portfolio))
	for name, points := range res.StdDev {
		write(statsFolder, tabular.PointsTable(name+"-stddev", points))
	}
	for name, points := range res.SecondDerivative {
		write(statsFolder, tabular.PointsTable(name+"-second-derivative", points))
	}
	return errors.Join(errs...)
}
