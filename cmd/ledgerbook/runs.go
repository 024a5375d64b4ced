package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"ledgerbook/internal/cli"
)

type runsCmd struct {
	limit int
	id    string
	plain bool
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list archived report runs" }
func (*runsCmd) Usage() string {
	return `ledgerbook runs [-n <count>] [-id <run>] [-plain]

  Lists the runs archived in SQLITE_DB_PATH, newest first, or prints the
  summary table of one run.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Number of runs to list (0 for all).")
	f.StringVar(&c.id, "id", "", "Print the archived summary of this run.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled terminal output.")
}

func (c *runsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if a.cfg.SQLiteDBPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no run archive configured, set SQLITE_DB_PATH")
		return subcommands.ExitUsageError
	}
	repo, err := cli.InitSQLite(a.logger, a.cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	var md string
	if c.id != "" {
		run, err := repo.GetRun(ctx, c.id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		md, err = a.renderer.Run(run)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering run: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		runs, err := repo.ListRuns(ctx, c.limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		md, err = a.renderer.Runs(runs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering runs: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if err := printMarkdown(md, c.plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing runs: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
