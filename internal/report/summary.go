package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SummaryTable lays rep and integ out as rows of cells, the shape written to
// the persisted summary sheet. Section titles occupy the first column and
// sections are separated by an empty row.
func SummaryTable(rep *Report, integ IntegrityReport, generatedAt time.Time) [][]string {
	rows := [][]string{
		{"Ledger Summary", rep.Source},
		{"Generated", generatedAt.Format(time.RFC3339)},
	}
	section := func(title string, lines []Line) {
		rows = append(rows, nil, []string{title})
		for _, l := range lines {
			rows = append(rows, []string{l.Name, amount(l.Value)})
		}
	}

	section("Profit & Loss", rep.ProfitLoss)
	rows = append(rows, []string{"Net Income", amount(rep.NetIncome)})
	section("Balance Sheet", rep.BalanceSheet)
	section("Vendors", rep.Vendors)
	section("Customers", rep.Customers)
	if len(rep.Unreported) > 0 {
		section("Unreported Categories", rep.Unreported)
	}

	rows = append(rows, nil, []string{"Integrity"})
	if integ.Clean() {
		rows = append(rows, []string{"No issues found"})
		return rows
	}
	rows = append(rows, []string{"Sheet", "Uncategorized Rows", "Illegal Categories", "Illegal Vendors", "Illegal Customers", "Offset Warnings"})
	for _, s := range integ.Sheets {
		rows = append(rows, []string{
			s.Sheet,
			strconv.Itoa(s.Uncategorized),
			values(s.IllegalCategories),
			values(s.IllegalVendors),
			values(s.IllegalCustomers),
			strings.Join(s.OffsetWarnings, "; "),
		})
	}
	return rows
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func values(vs []Violation) string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Value
	}
	return strings.Join(out, ", ")
}
