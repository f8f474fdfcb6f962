package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/config"
	"github.com/etnz/viewprofit/date"
	"github.com/etnz/viewprofit/renderer"
	"github.com/google/subcommands"
)

// portfolioCmd holds the flags for the 'portfolio' subcommand.
type portfolioCmd struct {
	rangeFlags
	months int
	tax    float64
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display the monthly returns of the whole portfolio" }
func (*portfolioCmd) Usage() string {
	return `viewprofit portfolio [-m <months>] [-tax <percent>] [-from <month>] [-to <month>]

  Displays the monthly rows of the portfolio, the sum of every fund, newest
  month first.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f)
	f.IntVar(&c.months, "m", -1, "Number of recent months aggregated, 0 for all. Defaults to the configuration")
	f.Float64Var(&c.tax, "tax", -1, "Income tax percent of the portfolio. Defaults to the configuration")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rg, err := c.Range()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing range: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.tax > 100 {
		fmt.Fprintf(os.Stderr, "Error: tax must be a percent, got %v\n", c.tax)
		return subcommands.ExitUsageError
	}

	s, err := recompute(ctx, func(cfg *config.Config) {
		if c.months >= 0 {
			cfg.Months = c.months
		}
		if c.tax >= 0 {
			cfg.PortfolioTax = c.tax
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rows := filterRows(s.res.Portfolio, func(r viewprofit.ReturnRow) date.Month { return r.Month }, rg)

	printMarkdown(renderer.FundMarkdown(viewprofit.PortfolioName, rows, s.cfg.Currency))
	return subcommands.ExitSuccess
}
