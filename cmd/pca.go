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

type pcaCmd struct {
	months      int
	standardize bool
}

func (*pcaCmd) Name() string     { return "pca" }
func (*pcaCmd) Synopsis() string { return "run a principal component analysis of the funds" }
func (*pcaCmd) Usage() string {
	return `viewprofit pca [-m <months>] [-standardize]

  Runs a principal component analysis of the funds' monthly net return
  percent over the recent months, and displays the variance explained by the
  first two components and the coordinates of every fund.
`
}

func (c *pcaCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "m", -1, "Number of recent months, 0 for all. Defaults to the configuration")
	f.BoolVar(&c.standardize, "standardize", false, "Divide every month by its standard deviation")
}

func (c *pcaCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := recompute(ctx, func(cfg *config.Config) {
		if c.months >= 0 {
			cfg.Months = c.months
		}
		if c.standardize {
			cfg.Standardize = true
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PCAMarkdown(renderer.NewReport(s.res, s.cfg.Currency)))
	return subcommands.ExitSuccess
}
