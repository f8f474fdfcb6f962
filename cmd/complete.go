package cmd

import (
	"flag"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/docs"
	"github.com/etnz/viewprofit/tabular"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete runs the shell completion of the command line, when the shell asks for it.
//
// Install it in bash with:
//
//	COMP_INSTALL=1 viewprofit
func Complete(c *subcommands.Commander, name string) {
	completionCommand(c).Complete(name)
}

// completionCommand describes the commander's subcommands and flags for completion.
func completionCommand(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(c.VisitAll),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		fs := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
		sub.SetFlags(fs)
		cmd := &complete.Command{Flags: flagPredictors(fs.VisitAll)}
		if sub.Name() == "topic" {
			cmd.Args = topicPredictor{}
		}
		root.Sub[sub.Name()] = cmd
	})
	return root
}

// flagPredictors predicts the value of the flags visited by visitAll, by flag name.
func flagPredictors(visitAll func(func(*flag.Flag))) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	visitAll(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			flags[f.Name] = predict.Files("*.yaml")
		case "data", "o":
			flags[f.Name] = predict.Dirs("*")
		case "f":
			flags[f.Name] = predict.Files("*")
		case "html":
			flags[f.Name] = predict.Files("*.html")
		case "n", "with", "a", "b":
			flags[f.Name] = seriesPredictor{}
		default:
			if isBool(f) {
				flags[f.Name] = predict.Nothing
			} else {
				flags[f.Name] = predict.Something
			}
		}
	})
	return flags
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// seriesPredictor predicts the names of the series in the data folder.
type seriesPredictor struct{}

func (seriesPredictor) Predict(prefix string) []string {
	cfg, err := LoadConfig()
	if err != nil {
		return nil
	}
	names := []string{viewprofit.PortfolioName}
	for _, folder := range []string{tabular.FundsFolder, tabular.BenchmarksFolder} {
		files, _ := filepath.Glob(filepath.Join(cfg.Data, folder, "*.jsonl"))
		for _, f := range files {
			names = append(names, tabular.TableName(f))
		}
	}
	slices.Sort(names)
	return filterPrefix(names, prefix)
}

// topicPredictor predicts the documentation topics.
type topicPredictor struct{}

func (topicPredictor) Predict(prefix string) []string {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	return filterPrefix(topics, prefix)
}

func filterPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}
