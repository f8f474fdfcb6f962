// Command viewprofit analyzes the monthly records of investment funds.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	_ "time/tzdata"

	"github.com/etnz/viewprofit/cmd"
	"github.com/etnz/viewprofit/logger"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	cmd.Complete(commander, name)
	flag.Parse()

	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		level := "warn"
		if *cmd.Verbose {
			level = "debug"
		}
		log := logger.New(level, "console", os.Stderr)
		if found, code := cmd.RunExtension(log, sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// registered tells if c has a subcommand with that name.
func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		if sub.Name() == name {
			found = true
		}
	})
	return found
}
