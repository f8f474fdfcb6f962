package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/date"
	"github.com/etnz/viewprofit/renderer"
	"github.com/google/subcommands"
)

type benchmarkCmd struct {
	rangeFlags
	name string
}

func (*benchmarkCmd) Name() string     { return "benchmark" }
func (*benchmarkCmd) Synopsis() string { return "display the monthly and accumulated changes of a benchmark" }
func (*benchmarkCmd) Usage() string {
	return `viewprofit benchmark [-n <name>] [-from <month>] [-to <month>]

  Displays the monthly change of a benchmark and its compounding since the
  oldest month. The default benchmark is the inflation one.
`
}

func (c *benchmarkCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f)
	f.StringVar(&c.name, "n", "", "Name of the benchmark. Defaults to the inflation benchmark")
}

func (c *benchmarkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rg, err := c.Range()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing range: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, err := recompute(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	name := c.name
	if name == "" {
		name = s.cfg.Inflation
	}
	rows, err := s.benchmark(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rows = filterRows(rows, func(r viewprofit.BenchmarkReturnRow) date.Month { return r.Month }, rg)

	printMarkdown(renderer.BenchmarkMarkdown(name, rows))
	return subcommands.ExitSuccess
}
