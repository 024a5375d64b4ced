// Package headers maps worksheet header cells to semantic column roles and
// finds the header row of sheets whose layout drifts between exports.
package headers

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"ledgerbook/internal/core"
)

// Role is the semantic meaning of a column.
type Role string

const (
	Date        Role = "date"
	Description Role = "description"
	Amount      Role = "amount"
	Category    Role = "category"
	SubCategory Role = "sub-category"
	Vendor      Role = "vendor"
	Customer    Role = "customer"
	Debit       Role = "debit"
	Credit      Role = "credit"
)

// Synonyms lists the names a role is known by. A header cell matches when it
// equals one of Exact or contains one of Contains.
type Synonyms struct {
	Role     Role
	Contains []string
	Exact    []string
}

// Transaction is the priority-ordered role table for transaction and ledger
// sheets. Sub-category must precede category, and debit/credit precede the
// generic roles so "Debit Amount" is not claimed by amount.
var Transaction = []Synonyms{
	{Role: SubCategory, Contains: []string{"sub-category", "subcategory", "sub category", "sub-cat", "subcat"}, Exact: []string{"sub"}},
	{Role: Category, Contains: []string{"category"}, Exact: []string{"cat"}},
	{Role: Date, Contains: []string{"date"}},
	{Role: Debit, Contains: []string{"debit"}, Exact: []string{"dr"}},
	{Role: Credit, Contains: []string{"credit"}, Exact: []string{"cr"}},
	{Role: Description, Contains: []string{"description", "memo", "narrative"}, Exact: []string{"desc", "name", "details"}},
	{Role: Amount, Contains: []string{"amount"}, Exact: []string{"amt", "value"}},
	{Role: Vendor, Contains: []string{"vendor", "payee", "supplier"}, Exact: []string{"vend"}},
	{Role: Customer, Contains: []string{"customer", "client"}, Exact: []string{"cust"}},
}

// ColumnMap maps roles to candidate 0-based column indexes, in sheet order.
type ColumnMap map[Role][]int

// Normalize lowercases, trims and folds accents of a header cell.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// Match returns the first role of table that cell matches.
func Match(table []Synonyms, cell string) (Role, bool) {
	v := Normalize(cell)
	if v == "" {
		return "", false
	}
	for _, syn := range table {
		for _, e := range syn.Exact {
			if v == e {
				return syn.Role, true
			}
		}
		for _, c := range syn.Contains {
			if strings.Contains(v, c) {
				return syn.Role, true
			}
		}
	}
	return "", false
}

// Map assigns every cell of row to at most one role of table.
func Map(table []Synonyms, row []string) ColumnMap {
	m := ColumnMap{}
	for i, cell := range row {
		if r, ok := Match(table, cell); ok {
			m[r] = append(m[r], i)
		}
	}
	return m
}

// MapColumns maps a transaction or ledger header row.
func MapColumns(row []string) ColumnMap {
	return Map(Transaction, row)
}

// Has reports whether role is mapped.
func (m ColumnMap) Has(r Role) bool {
	return len(m[r]) > 0
}

// Get returns the first non-empty candidate cell for role, or "".
func (m ColumnMap) Get(row []string, r Role) string {
	for _, col := range m[r] {
		if v := core.Cell(row, col); v != "" {
			return v
		}
	}
	return ""
}

// Column returns the first candidate column for role, or -1.
func (m ColumnMap) Column(r Role) int {
	if cols := m[r]; len(cols) > 0 {
		return cols[0]
	}
	return -1
}

// IsSignature reports whether row looks like a transaction header: its text
// mentions "date" together with "amount" or "category".
func IsSignature(row []string) bool {
	joined := Normalize(strings.Join(row, " "))
	return strings.Contains(joined, "date") &&
		(strings.Contains(joined, "amount") || strings.Contains(joined, "category"))
}
