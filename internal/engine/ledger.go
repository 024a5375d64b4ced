package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
	"ledgerbook/internal/headers"
	"ledgerbook/internal/setup"
)

// LedgerResult describes how the adjustment journal was merged.
type LedgerResult struct {
	Sheet      string
	Resolution headers.Resolution
	Rows       int // dated rows merged
	Undated    int // non-empty rows skipped for lack of a date
}

// MergeLedger folds the adjustment journal into st.
//
// Every category impact is credit minus debit whatever the category's report
// bucket. Vendors accumulate debit minus credit (expense style), customers
// credit minus debit (income style). Rows without a date are skipped.
func MergeLedger(ws *core.Worksheet, tax *setup.Config, st *State) LedgerResult {
	res := headers.ResolveLedger(ws)
	out := LedgerResult{Sheet: ws.Name, Resolution: res}
	cols := res.Columns

	for r := res.HeaderRow + 1; r <= ws.Len(); r++ {
		row := ws.Row(r)
		date := cols.Get(row, headers.Date)
		desc := cols.Get(row, headers.Description)
		category := cols.Get(row, headers.Category)
		sub := cols.Get(row, headers.SubCategory)
		vendor := cols.Get(row, headers.Vendor)
		customer := cols.Get(row, headers.Customer)
		debit := core.ParseAmount(cols.Get(row, headers.Debit))
		credit := core.ParseAmount(cols.Get(row, headers.Credit))

		if date == "" {
			if desc != "" || category != "" || vendor != "" || customer != "" || !debit.IsZero() || !credit.IsZero() {
				out.Undated++
				st.Note(Note{Sheet: ws.Name, Row: r, Message: fmt.Sprintf("ledger row %d has no date and was skipped", r)})
			}
			continue
		}
		out.Rows++
		displayDate := core.DisplayDate(date)
		impact := credit.Sub(debit)

		switch {
		case category != "":
			if c, ok := tax.Categories.Lookup(category); ok {
				category = c.Name
			} else {
				st.Record(Record{Kind: IllegalCategory, Sheet: ws.Name, Row: r, Date: displayDate, Value: category, Amount: impact})
			}
			st.AddToCategory(category, sub, impact)
			st.AddEntry(newEntry(date, desc, category, sub, impact, ws.Name, r))
		case core.IsMaterial(impact):
			st.Record(Record{Kind: UncategorizedRow, Sheet: ws.Name, Row: r, Date: displayDate, Value: desc, Amount: impact})
		}

		if vendor != "" {
			st.AddToVendor(resolve(tax.Vendors, vendor, IllegalVendor, ws.Name, r, displayDate, impact, st), debit.Sub(credit))
		}
		if customer != "" {
			st.AddToCustomer(resolve(tax.Customers, customer, IllegalCustomer, ws.Name, r, displayDate, impact, st), impact)
		}
	}
	return out
}

// linkedImpact sums the journal impact posted to account.
func linkedImpact(st *State, ledgerSheet, account string) decimal.Decimal {
	sum := decimal.Zero
	k := core.Key(account)
	for _, e := range st.entries {
		if e.Sheet == ledgerSheet && core.Key(e.Category) == k {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}
