package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
	"ledgerbook/internal/headers"
	"ledgerbook/internal/setup"
)

// SheetResult describes how one transaction sheet was aggregated.
type SheetResult struct {
	Config     core.SheetConfig // HeaderOffset reflects the offset actually used
	Kind       setup.Kind
	Resolution headers.Resolution
	Total      decimal.Decimal // net signed flow after polarity
	Rows       int             // rows folded into the aggregates
	Skipped    int             // summary rows skipped
	Missing    bool            // the sheet is not in the workbook

	// LedgerAdjustment is the journal impact on the linked account.
	LedgerAdjustment decimal.Decimal
}

// Balance is the calculated account balance: the sheet's flow plus
// journal entries posted to its linked account.
func (r SheetResult) Balance() decimal.Decimal {
	return r.Total.Sub(r.LedgerAdjustment)
}

// Aggregate folds the data rows of ws into st.
func Aggregate(ws *core.Worksheet, sc core.SheetConfig, res headers.Resolution, tax *setup.Config, st *State) SheetResult {
	out := SheetResult{Config: sc, Kind: setup.Classify(sc.AccountKind), Resolution: res}
	out.Config.HeaderOffset = res.HeaderRow
	for _, w := range res.Warnings {
		st.Record(Record{Kind: OffsetWarning, Sheet: ws.Name, Row: w.Row, Value: w.Message})
	}

	cols := res.Columns
	for r := 1; r <= ws.Len(); r++ {
		if r <= res.HeaderRow {
			continue
		}
		row := ws.Row(r)
		date := cols.Get(row, headers.Date)
		desc := cols.Get(row, headers.Description)
		amount := core.ParseAmount(cols.Get(row, headers.Amount))

		if date == "" && desc == "" && amount.IsZero() {
			continue
		}
		if core.IsSummaryText(desc) {
			out.Skipped++
			continue
		}
		if date == "" {
			continue
		}
		if sc.FlipPolarity {
			amount = amount.Neg()
		}
		out.Total = out.Total.Add(amount)
		out.Rows++

		displayDate := core.DisplayDate(date)
		category := cols.Get(row, headers.Category)
		switch {
		case category == "" && core.IsMaterial(amount):
			st.Record(Record{Kind: UncategorizedRow, Sheet: ws.Name, Row: r, Date: displayDate, Value: desc, Amount: amount})
		case category != "":
			if c, ok := tax.Categories.Lookup(category); ok {
				category = c.Name
			} else {
				st.Record(Record{Kind: IllegalCategory, Sheet: ws.Name, Row: r, Date: displayDate, Value: category, Amount: amount})
			}
			sub := cols.Get(row, headers.SubCategory)
			st.AddToCategory(category, sub, amount)
			st.AddEntry(newEntry(date, desc, category, sub, amount, ws.Name, r))
		}

		if v := cols.Get(row, headers.Vendor); v != "" {
			st.AddToVendor(resolve(tax.Vendors, v, IllegalVendor, ws.Name, r, displayDate, amount, st), amount)
		}
		if c := cols.Get(row, headers.Customer); c != "" {
			st.AddToCustomer(resolve(tax.Customers, c, IllegalCustomer, ws.Name, r, displayDate, amount, st), amount)
		}
	}

	if sc.Linked() {
		// Balance sheet accounts are stored debit-negative, so a net inflow
		// reduces the linked account's internal total.
		st.AdjustCategory(sc.LinkedAccount, out.Total.Neg())
	} else {
		st.Note(Note{Sheet: ws.Name, Message: fmt.Sprintf("sheet %q (kind %q) has no linked account; its net flow %s is not applied to any balance sheet line", ws.Name, sc.AccountKind, out.Total.StringFixed(2))})
	}
	return out
}

// resolve returns the allow-list display name of value, recording kind when
// value is not on the list.
func resolve(dir *core.Directory, value string, kind RecordKind, sheet string, row int, date string, amount decimal.Decimal, st *State) string {
	if name, ok := dir.Lookup(value); ok {
		return name
	}
	st.Record(Record{Kind: kind, Sheet: sheet, Row: row, Date: date, Value: value, Amount: amount})
	return value
}

func newEntry(date, desc, category, sub string, amount decimal.Decimal, sheet string, row int) Entry {
	t, _ := core.ParseDate(date)
	return Entry{
		Date:        t,
		DateText:    core.DisplayDate(date),
		Description: desc,
		Category:    category,
		SubCategory: sub,
		Amount:      amount,
		Sheet:       sheet,
		Row:         row,
	}
}
