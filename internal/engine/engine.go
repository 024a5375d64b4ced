package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
	"ledgerbook/internal/headers"
	"ledgerbook/internal/setup"
)

// Options names the mandatory worksheets.
type Options struct {
	SetupSheet  string
	LedgerSheet string
}

func DefaultOptions() Options {
	return Options{SetupSheet: "Setup", LedgerSheet: "Ledger"}
}

// Result is the complete aggregate of one run.
type Result struct {
	Source string
	Config *setup.Config
	Sheets []SheetResult
	Ledger LedgerResult
	State  *State

	// Legacy per-kind totals, for diagnostics only.
	BankTotal decimal.Decimal
	CardTotal decimal.Decimal
}

// Run aggregates wb. It fails before touching any aggregate when the
// taxonomy or the ledger sheet is missing. Every call builds a fresh state.
func Run(wb *core.Workbook, opts Options) (*Result, error) {
	if opts.SetupSheet == "" || opts.LedgerSheet == "" {
		def := DefaultOptions()
		if opts.SetupSheet == "" {
			opts.SetupSheet = def.SetupSheet
		}
		if opts.LedgerSheet == "" {
			opts.LedgerSheet = def.LedgerSheet
		}
	}
	setupSheet, ok := wb.Sheet(opts.SetupSheet)
	if !ok {
		return nil, fmt.Errorf("taxonomy sheet %q: %w", opts.SetupSheet, core.ErrMissingSheet)
	}
	ledgerSheet, ok := wb.Sheet(opts.LedgerSheet)
	if !ok {
		return nil, fmt.Errorf("ledger sheet %q: %w", opts.LedgerSheet, core.ErrMissingSheet)
	}

	cfg, err := setup.Load(setupSheet)
	if err != nil {
		return nil, err
	}
	st := NewState()
	for _, w := range cfg.Warnings {
		st.Note(Note{Sheet: setupSheet.Name, Message: w})
	}
	res := &Result{Source: wb.Source, Config: cfg, State: st}

	// Sheets run strictly in configuration order.
	for _, sc := range setup.Link(cfg.Sheets, cfg.Categories) {
		ws, ok := wb.Sheet(sc.SheetName)
		if !ok {
			st.Note(Note{Sheet: sc.SheetName, Message: fmt.Sprintf("configured sheet %q not found in workbook", sc.SheetName)})
			res.Sheets = append(res.Sheets, SheetResult{Config: sc, Kind: setup.Classify(sc.AccountKind), Missing: true})
			continue
		}
		kind := setup.Classify(sc.AccountKind)
		sr := Aggregate(ws, sc, headers.Resolve(ws, sc.HeaderOffset, kind.Layout()), cfg, st)
		if kind == setup.KindCard {
			res.CardTotal = res.CardTotal.Add(sr.Total)
		} else {
			res.BankTotal = res.BankTotal.Add(sr.Total)
		}
		res.Sheets = append(res.Sheets, sr)
	}

	res.Ledger = MergeLedger(ledgerSheet, cfg, st)
	for i := range res.Sheets {
		if sc := res.Sheets[i].Config; sc.Linked() {
			res.Sheets[i].LedgerAdjustment = linkedImpact(st, ledgerSheet.Name, sc.LinkedAccount)
		}
	}
	return res, nil
}
