package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"ledgerbook/internal/cli"
	"ledgerbook/internal/importer"
	"ledgerbook/internal/log"
	"ledgerbook/internal/services"
)

type importCmd struct {
	clear bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append a bank or card statement to its transaction sheet" }
func (*importCmd) Usage() string {
	return `ledgerbook import [-clear] <statement.csv|statement.xlsx> <bank|cc>

  Reads a statement export, finds its header, drops blank, junk and total
  rows and appends the transactions to the sheet the Setup sheet configures
  for bank or credit card accounts. A missing sheet is created with the
  bank or card template columns. The account number is taken from the file
  name (e.g. "checking - 81002.csv") or an "Account Number" line near the
  top. Each import is recorded in the VERSION sheet.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.clear, "clear", false, "Remove every existing row of the target sheet before importing.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: a statement file and an account type (bank or cc) are required")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	kind, ok := importer.ParseKind(f.Arg(1))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown account type %q: want bank or cc\n", f.Arg(1))
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ctx = log.WithContext(ctx, a.logger)

	stmt, err := cli.ReadStatement(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	svc, err := cli.NewImportService(ctx, a.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := svc.Import(ctx, services.ImportRequest{Statement: stmt, Filename: path, Kind: kind, Replace: c.clear})
	if err != nil {
		a.logger.ErrorContext(ctx, "Import failed", log.NewFields().WithError(err).WithOperation(log.OpImport).ToSlice()...)
		if errors.Is(err, importer.ErrNoHeader) {
			fmt.Fprintln(os.Stderr, "Error: no Date/Amount header found in the statement")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	if out.Created {
		fmt.Printf("Created sheet %q from the %s template\n", out.Sheet, kind)
	}
	fmt.Printf("Imported %d transaction(s) into %q, skipped %d row(s)\n", out.Imported, out.Sheet, out.Skipped)
	if out.Account != "" {
		fmt.Printf("Account: %s\n", out.Account)
	}
	return subcommands.ExitSuccess
}
