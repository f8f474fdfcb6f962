package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/viewprofit/config"
	"github.com/etnz/viewprofit/renderer"
	"github.com/google/subcommands"
)

type statsCmd struct {
	name   string
	with   string
	months int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display the volatility and the trend of a fund's returns" }
func (*statsCmd) Usage() string {
	return `viewprofit stats -n <name> [-with <name>] [-m <months>]

  Displays, for every month of the window, the expanding standard deviation
  and the second derivative of the monthly net return percent of a fund, or
  of the portfolio. With -with, also displays the expanding correlation with
  another fund.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "portfolio", "Name of the fund, or portfolio")
	f.StringVar(&c.with, "with", "", "Name of a fund to correlate with")
	f.IntVar(&c.months, "m", -1, "Number of recent months, 0 for all. Defaults to the configuration")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := recompute(ctx, func(cfg *config.Config) {
		if c.months >= 0 {
			cfg.Months = c.months
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	returns, ok := s.res.Series(c.name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown fund %q\n", c.name)
		return subcommands.ExitFailure
	}
	st := renderer.Stats{
		Name:             c.name,
		Returns:          returns,
		StdDev:           s.res.StdDev[c.name],
		SecondDerivative: s.res.SecondDerivative[c.name],
	}
	if c.with != "" {
		corr, err := s.res.Correlation(c.name, c.with)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing correlation: %v\n", err)
			return subcommands.ExitFailure
		}
		st.With = c.with
		st.Correlation = corr
	}
	printMarkdown(renderer.StatsMarkdown(st))
	return subcommands.ExitSuccess
}
