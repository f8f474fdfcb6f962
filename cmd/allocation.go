package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/viewprofit/renderer"
	"github.com/google/subcommands"
)

type allocationCmd struct{}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "display the share of every fund" }
func (*allocationCmd) Usage() string {
	return `viewprofit allocation

  Displays each fund's share of the portfolio, weighted by the highest net
  balance the fund reached.
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {}

func (c *allocationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := recompute(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AllocationMarkdown(s.res.Allocation, s.cfg.Currency))
	return subcommands.ExitSuccess
}
