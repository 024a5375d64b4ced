package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
	"ledgerbook/internal/engine"
)

// DetailRow is one row contributing to a category.
type DetailRow struct {
	Date        string
	Description string
	SubCategory string
	Amount      decimal.Decimal
	Sheet       string
	Row         int
}

// CategoryDetail lists every row of one category with a trailing total.
type CategoryDetail struct {
	Category string
	Rows     []DetailRow
	Total    decimal.Decimal
}

// Detail collects the rows whose resolved category matches name, compared
// case-insensitively, in ascending date order. Rows with unparseable dates
// sort last and keep their source order.
func Detail(res *engine.Result, name string) CategoryDetail {
	d := CategoryDetail{Category: name}
	if b, ok := res.State.Category(name); ok {
		d.Category = b.Name
	}

	k := core.Key(name)
	var entries []engine.Entry
	for _, e := range res.State.Entries() {
		if core.Key(e.Category) == k {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Date, entries[j].Date
		switch {
		case a.IsZero() || b.IsZero():
			return !a.IsZero() && b.IsZero()
		default:
			return a.Before(b)
		}
	})

	for _, e := range entries {
		d.Rows = append(d.Rows, DetailRow{
			Date:        e.DateText,
			Description: e.Description,
			SubCategory: e.SubCategory,
			Amount:      e.Amount,
			Sheet:       e.Sheet,
			Row:         e.Row,
		})
		d.Total = d.Total.Add(e.Amount)
	}
	return d
}
