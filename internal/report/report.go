// Package report turns an engine result into the report structures handed to
// renderers and sinks: profit and loss, balance sheet, leaderboards,
// sub-category drill-down, category detail and the integrity report.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
	"ledgerbook/internal/engine"
)

// Line is one named amount of a report section.
type Line struct {
	Name  string
	Value decimal.Decimal
}

// Breakdown is the sub-category drill-down of one P&L category.
type Breakdown struct {
	Category string
	Lines    []Line
}

// SheetLine summarizes one transaction sheet for diagnostics.
type SheetLine struct {
	Sheet         string
	AccountKind   string
	Kind          string
	LinkedAccount string
	HeaderRow     int
	Positional    bool
	Missing       bool
	Rows          int
	Skipped       int
	Total         decimal.Decimal
	Adjustment    decimal.Decimal
	Balance       decimal.Decimal
}

// Diagnostics carries the legacy per-kind totals and run notes. None of it
// feeds the financial statements.
type Diagnostics struct {
	BankTotal decimal.Decimal
	CardTotal decimal.Decimal
	Sheets    []SheetLine
	Notes     []string
}

// Report holds every statement of one run.
type Report struct {
	Source        string
	ProfitLoss    []Line
	NetIncome     decimal.Decimal
	BalanceSheet  []Line
	Vendors       []Line
	Customers     []Line
	SubCategories []Breakdown
	// Unreported lists aggregated categories that belong to neither
	// statement, typically illegal categories or taxonomy rows without a
	// report bucket.
	Unreported  []Line
	Diagnostics Diagnostics
}

// Build assembles the report of res.
func Build(res *engine.Result) *Report {
	st := res.State
	rep := &Report{Source: res.Source}

	reported := map[string]bool{}
	for _, c := range res.Config.Categories.All() {
		total := st.CategoryTotal(c.Name)
		switch c.Bucket {
		case core.BucketProfitLoss:
			rep.ProfitLoss = append(rep.ProfitLoss, Line{Name: c.Name, Value: total})
			rep.NetIncome = rep.NetIncome.Add(total)
		case core.BucketBalanceSheet:
			if c.IsAsset() {
				total = total.Neg()
			}
			rep.BalanceSheet = append(rep.BalanceSheet, Line{Name: c.Name, Value: total})
		default:
			continue
		}
		reported[core.Key(c.Name)] = true
	}
	sortByName(rep.ProfitLoss)
	sortByName(rep.BalanceSheet)

	for _, b := range st.Buckets() {
		if !reported[core.Key(b.Name)] {
			rep.Unreported = append(rep.Unreported, Line{Name: b.Name, Value: b.Total})
		}
	}
	sortByName(rep.Unreported)

	rep.Vendors = leaderboard(st.Vendors())
	rep.Customers = leaderboard(st.Customers())

	for _, l := range rep.ProfitLoss {
		b, ok := st.Category(l.Name)
		if !ok {
			continue
		}
		if lines := breakdown(b); lines != nil {
			rep.SubCategories = append(rep.SubCategories, Breakdown{Category: l.Name, Lines: lines})
		}
	}

	rep.Diagnostics = diagnostics(res)
	return rep
}

// breakdown returns the material sub-categories of b, or nil when the only
// survivor is the reserved no-sub-category bucket.
func breakdown(b *engine.Bucket) []Line {
	var lines []Line
	var real bool
	for _, name := range b.SubCategoryNames() {
		v := b.SubCategories[name]
		if !core.IsMaterial(v) {
			continue
		}
		if name != core.NoSubCategory {
			real = true
		}
		lines = append(lines, Line{Name: name, Value: v})
	}
	if !real {
		return nil
	}
	sort.SliceStable(lines, func(i, j int) bool {
		// The reserved bucket trails the real sub-categories.
		if (lines[i].Name == core.NoSubCategory) != (lines[j].Name == core.NoSubCategory) {
			return lines[j].Name == core.NoSubCategory
		}
		return lessName(lines[i].Name, lines[j].Name)
	})
	return lines
}

func leaderboard(totals []engine.Total) []Line {
	lines := make([]Line, 0, len(totals))
	for _, t := range totals {
		lines = append(lines, Line{Name: t.Name, Value: t.Value})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if c := lines[i].Value.Cmp(lines[j].Value); c != 0 {
			return c > 0
		}
		return lessName(lines[i].Name, lines[j].Name)
	})
	return lines
}

func diagnostics(res *engine.Result) Diagnostics {
	d := Diagnostics{BankTotal: res.BankTotal, CardTotal: res.CardTotal}
	for _, s := range res.Sheets {
		d.Sheets = append(d.Sheets, SheetLine{
			Sheet:         s.Config.SheetName,
			AccountKind:   s.Config.AccountKind,
			Kind:          string(s.Kind),
			LinkedAccount: s.Config.LinkedAccount,
			HeaderRow:     s.Config.HeaderOffset,
			Positional:    s.Resolution.Positional,
			Missing:       s.Missing,
			Rows:          s.Rows,
			Skipped:       s.Skipped,
			Total:         s.Total,
			Adjustment:    s.LedgerAdjustment,
			Balance:       s.Balance(),
		})
	}
	for _, n := range res.State.Notes() {
		d.Notes = append(d.Notes, n.Message)
	}
	return d
}

// Top returns at most n lines. n <= 0 means all of them.
func Top(lines []Line, n int) []Line {
	if n <= 0 || n >= len(lines) {
		return lines
	}
	return lines[:n]
}

func sortByName(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lessName(lines[i].Name, lines[j].Name)
	})
}

func lessName(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
