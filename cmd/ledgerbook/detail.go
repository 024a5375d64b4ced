package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"ledgerbook/internal/report"
)

type detailCmd struct {
	plain bool
}

func (*detailCmd) Name() string     { return "detail" }
func (*detailCmd) Synopsis() string { return "list every row contributing to a category" }
func (*detailCmd) Usage() string {
	return `ledgerbook detail [-plain] <category>

  Lists the rows of every transaction sheet and of the ledger whose category
  matches <category> (case-insensitive), in date order, with their total.
  The workbook is not modified.
`
}

func (c *detailCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled terminal output.")
}

func (c *detailCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a category name is required")
		return subcommands.ExitUsageError
	}
	name := strings.Join(f.Args(), " ")

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	out, err := a.run(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	d := report.Detail(out.Result, name)
	if len(d.Rows) == 0 {
		fmt.Fprintf(os.Stderr, "No rows found for category %q\n", name)
		return subcommands.ExitFailure
	}

	md, err := a.renderer.Detail(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering detail: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(md, c.plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing detail: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
