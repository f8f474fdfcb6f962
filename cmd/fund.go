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

// fundCmd holds the flags for the 'fund' subcommand.
type fundCmd struct {
	rangeFlags
	name string
}

func (*fundCmd) Name() string     { return "fund" }
func (*fundCmd) Synopsis() string { return "display the monthly returns of a fund" }
func (*fundCmd) Usage() string {
	return `viewprofit fund -n <name> [-from <month>] [-to <month>]

  Displays the derived monthly rows of a fund, newest month first: net
  balance, return, real return and accumulated return.
`
}

func (c *fundCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f)
	f.StringVar(&c.name, "n", "", "Name of the fund")
}

func (c *fundCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: a fund name is required (-n)")
		return subcommands.ExitUsageError
	}
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
	rows, err := s.fund(c.name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rows = filterRows(rows, func(r viewprofit.ReturnRow) date.Month { return r.Month }, rg)

	printMarkdown(renderer.FundMarkdown(c.name, rows, s.cfg.Currency))
	return subcommands.ExitSuccess
}
