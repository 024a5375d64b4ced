package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"ledgerbook/internal/log"
	"ledgerbook/internal/render"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	opts      render.Options
	printOnly bool
	plain     bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the financial statements and write the summary sheet" }
func (*reportCmd) Usage() string {
	return `ledgerbook report [-pl] [-bs] [-vendor] [-customer] [-pl-sub] [-diag] [-top <n>] [-print-only] [-plain]

  Aggregates every configured transaction sheet and the ledger, prints the
  selected statements and replaces the summary sheet of the workbook.
  Without a statement flag every statement is printed.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.opts.ProfitLoss, "pl", false, "Print the profit and loss statement.")
	f.BoolVar(&c.opts.BalanceSheet, "bs", false, "Print the balance sheet.")
	f.BoolVar(&c.opts.Vendors, "vendor", false, "Print the vendor leaderboard.")
	f.BoolVar(&c.opts.Customers, "customer", false, "Print the customer leaderboard.")
	f.BoolVar(&c.opts.SubCategories, "pl-sub", false, "Print the profit and loss sub-category breakdown.")
	f.BoolVar(&c.opts.Diagnostics, "diag", false, "Print per-sheet diagnostics and run notes.")
	f.IntVar(&c.opts.Top, "top", 0, "Limit leaderboards to the n largest entries (0 uses REPORT_TOP).")
	f.BoolVar(&c.printOnly, "print-only", false, "Do not write the summary sheet back to the workbook.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled terminal output.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.opts.Top < 0 {
		fmt.Fprintln(os.Stderr, "Error: -top must not be negative")
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.opts.Top == 0 {
		c.opts.Top = a.cfg.ReportTop
	}

	out, err := a.run(ctx, c.printOnly)
	if err != nil {
		a.logger.ErrorContext(ctx, "Report run failed", log.NewFields().WithError(err).WithOperation(log.OpReport).ToSlice()...)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, l := range out.Report.ProfitLoss {
		a.logger.DebugContext(ctx, "Profit and loss line", log.NewFields().WithAmount(l.Name, l.Value).ToSlice()...)
	}

	md, err := a.renderer.Report(out.Report, c.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(md, c.plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
