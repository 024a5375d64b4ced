package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type integrityCmd struct {
	plain  bool
	strict bool
}

func (*integrityCmd) Name() string     { return "integrity" }
func (*integrityCmd) Synopsis() string { return "report data-quality issues per sheet" }
func (*integrityCmd) Usage() string {
	return `ledgerbook integrity [-strict] [-plain]

  Lists uncategorized rows, categories, vendors and customers missing from
  the Setup sheet, and header offset problems. The workbook is not modified.
`
}

func (c *integrityCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled terminal output.")
	f.BoolVar(&c.strict, "strict", false, "Exit with a failure status when any issue is found.")
}

func (c *integrityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	md, err := a.renderer.Integrity(out.Integrity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering integrity report: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(md, c.plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing integrity report: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.strict && !out.Integrity.Clean() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
