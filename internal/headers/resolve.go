package headers

import (
	"fmt"

	"ledgerbook/internal/core"
)

// ScanRows is how many leading rows are searched for a header.
const ScanRows = 5

// Positional layouts used when a sheet has no recognizable header. They match
// the column order of the bank and card templates.
var (
	BankLayout = ColumnMap{
		Date: {0}, Description: {1}, Amount: {2}, Category: {3},
		SubCategory: {4}, Vendor: {6}, Customer: {7},
	}
	CardLayout = ColumnMap{
		Date: {0}, Description: {2}, Amount: {3}, Category: {4},
		SubCategory: {5}, Vendor: {7}, Customer: {8},
	}
	LedgerLayout = ColumnMap{
		Date: {0}, Description: {1}, Category: {2}, SubCategory: {3},
		Vendor: {4}, Customer: {5}, Debit: {6}, Credit: {7},
	}
)

// Resolution is the outcome of header detection for one sheet.
type Resolution struct {
	HeaderRow  int // 1-based, 0 when the sheet has no header
	Columns    ColumnMap
	Corrected  bool // the configured row was replaced by a detected one
	Positional bool // Columns is a fallback layout, not read from a header
	Warnings   []Warning
}

// Warning flags a likely misconfigured header offset.
type Warning struct {
	Row     int
	Message string
}

// Detect returns the first of the leading rows that carries a header
// signature, or 0.
func Detect(ws *core.Worksheet) int {
	for r := 1; r <= ScanRows && r <= ws.Len(); r++ {
		if IsSignature(ws.Row(r)) {
			return r
		}
	}
	return 0
}

// Resolve picks the header row of ws and maps its columns.
//
// A configured offset of 0 means "not configured" and triggers detection.
// A configured row that is not a header while a detected one exists is
// corrected. When no role that matters is mapped, fallback is used.
func Resolve(ws *core.Worksheet, configured int, fallback ColumnMap) Resolution {
	var res Resolution
	detected := Detect(ws)
	switch {
	case configured > 0 && IsSignature(ws.Row(configured)):
		res.HeaderRow = configured
	case configured > 0 && detected > 0:
		res.HeaderRow = detected
		res.Corrected = true
		res.Warnings = append(res.Warnings, Warning{
			Row:     configured,
			Message: fmt.Sprintf("configured header row %d does not look like a header; using detected row %d", configured, detected),
		})
	case configured > 0:
		res.HeaderRow = configured
	default:
		res.HeaderRow = detected
	}

	if res.HeaderRow > 0 {
		res.Columns = MapColumns(ws.Row(res.HeaderRow))
		if next := res.HeaderRow + 1; IsSignature(ws.Row(next)) {
			res.Warnings = append(res.Warnings, Warning{
				Row:     next,
				Message: fmt.Sprintf("row %d after header row %d also looks like a header; header offset is probably misconfigured", next, res.HeaderRow),
			})
		}
	}
	if !res.Columns.Has(Date) && !res.Columns.Has(Amount) && !res.Columns.Has(Debit) && fallback != nil {
		res.Columns = fallback
		res.Positional = true
	}
	if res.Columns == nil {
		res.Columns = ColumnMap{}
	}
	return res
}

// ResolveLedger finds the journal header: the first leading row mapping a
// date and a debit or credit column. Journals without one use LedgerLayout
// below row 1.
func ResolveLedger(ws *core.Worksheet) Resolution {
	for r := 1; r <= ScanRows && r <= ws.Len(); r++ {
		m := MapColumns(ws.Row(r))
		if m.Has(Date) && (m.Has(Debit) || m.Has(Credit)) {
			return Resolution{HeaderRow: r, Columns: m}
		}
	}
	return Resolution{HeaderRow: 1, Columns: LedgerLayout, Positional: true}
}
