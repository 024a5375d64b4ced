package core

import "strings"

type (
	// Worksheet is a named grid of cell texts. Rows[0] is spreadsheet row 1.
	Worksheet struct {
		Name string
		Rows [][]string
	}

	// Workbook is an ordered collection of worksheets.
	Workbook struct {
		Source string
		Sheets []*Worksheet
	}
)

// Sheet returns the worksheet named name, ignoring case and surrounding space.
func (w *Workbook) Sheet(name string) (*Worksheet, bool) {
	if w == nil {
		return nil, false
	}
	k := Key(name)
	for _, s := range w.Sheets {
		if Key(s.Name) == k {
			return s, true
		}
	}
	return nil, false
}

// Names returns the sheet names in workbook order.
func (w *Workbook) Names() []string {
	out := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		out = append(out, s.Name)
	}
	return out
}

// Row returns the cells of 1-based row n, or nil past the end.
func (ws *Worksheet) Row(n int) []string {
	if ws == nil || n < 1 || n > len(ws.Rows) {
		return nil
	}
	return ws.Rows[n-1]
}

// Len is the number of rows, trailing empty rows included.
func (ws *Worksheet) Len() int {
	if ws == nil {
		return 0
	}
	return len(ws.Rows)
}

// Cell returns the trimmed text at 0-based column col of row, or "".
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// IsBlankRow reports whether every cell of row is empty.
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// summaryWords mark totals and balances copied from bank exports.
var summaryWords = []string{"total", "balance", "sum"}

// IsSummaryText reports whether a description cell labels a total or
// balance line rather than a transaction.
func IsSummaryText(desc string) bool {
	d := strings.ToLower(desc)
	for _, w := range summaryWords {
		if strings.Contains(d, w) {
			return true
		}
	}
	return false
}
