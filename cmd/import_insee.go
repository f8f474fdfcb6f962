package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/insee"
	"github.com/etnz/viewprofit/tabular"
	"github.com/google/subcommands"
)

type importInseeCmd struct {
	file string
	name string
}

func (*importInseeCmd) Name() string     { return "import-insee" }
func (*importInseeCmd) Synopsis() string { return "import an INSEE index as a benchmark" }
func (*importInseeCmd) Usage() string {
	return `viewprofit import-insee -f <file> [-n <name>]

  Reads a series exported from bdm.insee.fr (the zip archive, or the
  valeurs_mensuelles.csv file it contains), converts the index levels into
  monthly percent changes, and writes them as the benchmark <name> of the
  data folder. The default name is the inflation benchmark.
`
}

func (c *importInseeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "INSEE zip or CSV file")
	f.StringVar(&c.name, "n", "", "Name of the benchmark. Defaults to the inflation benchmark")
}

func (c *importInseeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: an INSEE file is required (-f)")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	name := c.name
	if name == "" {
		name = cfg.Inflation
	}

	series, err := insee.ParseFile(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading INSEE series: %v\n", err)
		return subcommands.ExitFailure
	}
	rows := series.Benchmark()
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "Error: series %q has less than two values\n", series.IDBank)
		return subcommands.ExitFailure
	}

	t := tabular.BenchmarkTable(name, viewprofit.CalculateBenchmark(rows))
	folder := filepath.Join(cfg.Data, tabular.BenchmarksFolder)
	if err := tabular.EncodeFile(folder, t); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing benchmark: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Imported %d months of %q (%s) into %s\n", len(rows), series.Libelle, series.IDBank, filepath.Join(folder, name+".jsonl"))
	return subcommands.ExitSuccess
}
