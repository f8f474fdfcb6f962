package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/viewprofit/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	html           string
	skipPCA        bool
	skipBenchmarks bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a summary of the portfolio, its funds and statistics" }
func (*reportCmd) Usage() string {
	return `viewprofit report [-html <file>] [-skip-pca] [-skip-benchmarks]

  Displays the latest month of the portfolio and of every fund, the
  allocation, the benchmarks and the principal component analysis.
  With -html, writes the report as a standalone HTML page instead.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.html, "html", "", "Write the report as HTML into this file")
	f.BoolVar(&c.skipPCA, "skip-pca", false, "Do not include the principal component analysis")
	f.BoolVar(&c.skipBenchmarks, "skip-benchmarks", false, "Do not include the benchmarks")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := recompute(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.RenderReport(renderer.NewReport(s.res, s.cfg.Currency), renderer.ReportOptions{
		SkipPCA:        c.skipPCA,
		SkipBenchmarks: c.skipBenchmarks,
	})

	if c.html == "" {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	page, err := renderer.HTML("Portfolio Report", md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.html, []byte(page), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", c.html)
	return subcommands.ExitSuccess
}
