// Command ledgerbook reads a bookkeeping workbook and prints its financial
// statements, category details and integrity report. It also imports bank
// and card statements into the workbook.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&reportCmd{}, "reports")
	commander.Register(&detailCmd{}, "reports")
	commander.Register(&integrityCmd{}, "reports")
	commander.Register(&importCmd{}, "books")
	commander.Register(&runsCmd{}, "history")
	commander.Register(&requestCmd{}, "worker")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
