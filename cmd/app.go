// Package cmd implements the viewprofit command line.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/config"
	"github.com/etnz/viewprofit/date"
	"github.com/etnz/viewprofit/logger"
	"github.com/etnz/viewprofit/pgsource"
	"github.com/etnz/viewprofit/tabular"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fundCmd{}, "returns")
	c.Register(&portfolioCmd{}, "returns")
	c.Register(&benchmarkCmd{}, "returns")
	c.Register(&allocationCmd{}, "returns")
	c.Register(&reportCmd{}, "returns")

	c.Register(&statsCmd{}, "statistics")
	c.Register(&xcorrCmd{}, "statistics")
	c.Register(&pcaCmd{}, "statistics")

	c.Register(&calcCmd{}, "records")
	c.Register(&importInseeCmd{}, "records")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile  = flag.String("config", "", "Path to the configuration file (default viewprofit.yaml)")
	dataDir     = flag.String("data", "", "Folder of the funds/ and benchmarks/ JSONL files, overrides the configuration")
	databaseURL = flag.String("db", "", "PostgreSQL URL to read the records from, overrides the configuration")
	Verbose     = flag.Bool("v", false, "Log debug messages")
	raw         = flag.Bool("raw", false, "Print markdown as is, without terminal formatting")
)

// LoadConfig reads the configuration and applies the global flags over it.
func LoadConfig() (*config.Config, error) {
	file := *configFile
	if file == "" {
		file = os.Getenv(EnvConfigFile)
	}
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		cfg.Data = *dataDir
	}
	if *databaseURL != "" {
		cfg.Database.URL = *databaseURL
	}
	if *Verbose {
		cfg.Log.Level = "debug"
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	date.Location = loc
	return cfg, nil
}

// NewLogger returns the logger configured in cfg, writing to stderr.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}

// LoadSeries reads the fund and benchmark series from the database if one is
// configured, or from the data folder.
func LoadSeries(ctx context.Context, cfg *config.Config, log zerolog.Logger) (funds, benchmarks []viewprofit.Series, err error) {
	var src tabular.Source = tabular.Dir(cfg.Data)
	if cfg.Database.URL != "" {
		db, err := pgsource.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		db.Schema = cfg.Database.Schema
		db.Log = log
		src = db
	}
	funds, benchmarks, err = tabular.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Int("funds", len(funds)).Int("benchmarks", len(benchmarks)).Msg("records loaded")
	return funds, benchmarks, nil
}

// session is the outcome of a recompute, with what produced it.
type session struct {
	cfg *config.Config
	res *viewprofit.Result
}

// recompute loads the configuration and the records, and recomputes every
// derived value. override, if not nil, changes the configuration first.
func recompute(ctx context.Context, override func(*config.Config)) (*session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	log := NewLogger(cfg)

	funds, benchmarks, err := LoadSeries(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("cannot load records: %w", err)
	}
	names := make([]string, 0, len(funds))
	for _, f := range funds {
		names = append(names, f.Name)
	}

	w := viewprofit.NewWorkspace(log)
	res, err := w.Recompute(viewprofit.Input{
		Funds:      funds,
		Benchmarks: benchmarks,
		Params:     cfg.Params(names...),
	})
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, res: res}, nil
}

// fund returns the rows of a fund, or of the portfolio.
func (s *session) fund(name string) ([]viewprofit.ReturnRow, error) {
	if name == viewprofit.PortfolioName {
		return s.res.Portfolio, nil
	}
	rows, ok := s.res.Funds[name]
	if !ok {
		return nil, fmt.Errorf("unknown fund %q, available funds are: %s", name, strings.Join(s.res.FundNames, ", "))
	}
	return rows, nil
}

// benchmark returns the rows of a benchmark.
func (s *session) benchmark(name string) ([]viewprofit.BenchmarkReturnRow, error) {
	rows, ok := s.res.Benchmarks[name]
	if !ok {
		names := make([]string, 0, len(s.res.Benchmarks))
		for n := range s.res.Benchmarks {
			names = append(names, n)
		}
		slices.Sort(names)
		return nil, fmt.Errorf("unknown benchmark %q, available benchmarks are: %s", name, strings.Join(names, ", "))
	}
	return rows, nil
}

// rangeFlags are the -from and -to flags of the commands showing monthly rows.
type rangeFlags struct {
	from, to string
}

func (r *rangeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.from, "from", "", "First month to show (YYYY-MM)")
	f.StringVar(&r.to, "to", "", "Last month to show (YYYY-MM)")
}

func (r *rangeFlags) Range() (date.Range, error) {
	return date.ParseRange(r.from, r.to)
}

// filterRows keeps the rows whose month is in rg.
func filterRows[T any](rows []T, month func(T) date.Month, rg date.Range) []T {
	var out []T
	for _, r := range rows {
		if rg.Contains(month(r)) {
			out = append(out, r)
		}
	}
	return out
}

// printMarkdown prints md to stdout, formatted for the terminal unless -raw is set.
func printMarkdown(md string) {
	if *raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
