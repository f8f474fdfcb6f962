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

type xcorrCmd struct {
	a, b   string
	months int
}

func (*xcorrCmd) Name() string     { return "xcorr" }
func (*xcorrCmd) Synopsis() string { return "display the cross-correlation of two funds" }
func (*xcorrCmd) Usage() string {
	return `viewprofit xcorr -a <name> -b <name> [-m <months>]

  Displays the raw cross-correlation of the monthly net return percent of two
  funds (or portfolio), by lag, largest lag first.
`
}

func (c *xcorrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.a, "a", "", "Name of the reference fund")
	f.StringVar(&c.b, "b", "", "Name of the other fund")
	f.IntVar(&c.months, "m", -1, "Number of recent months, 0 for all. Defaults to the configuration")
}

func (c *xcorrCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.a == "" || c.b == "" {
		fmt.Fprintln(os.Stderr, "Error: two fund names are required (-a and -b)")
		return subcommands.ExitUsageError
	}
	s, err := recompute(ctx, func(cfg *config.Config) {
		if c.months >= 0 {
			cfg.Months = c.months
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	points, err := s.res.CrossCorrelation(c.a, c.b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing cross-correlation: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CrossCorrelationMarkdown(c.a, c.b, points))
	return subcommands.ExitSuccess
}
