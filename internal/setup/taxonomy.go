// Package setup reads the taxonomy ("Setup") worksheet: the category table,
// the vendor and customer allow-lists and the layout of every transaction
// sheet. It also links transaction sheets to balance sheet accounts.
package setup

import (
	"fmt"
	"strings"

	"ledgerbook/internal/core"
	"ledgerbook/internal/headers"
)

// Taxonomy column roles.
const (
	roleCategory    headers.Role = "category"
	roleSubCategory headers.Role = "sub-category"
	roleAccountType headers.Role = "account-type"
	roleReport      headers.Role = "report"
	roleVendor      headers.Role = "vendor"
	roleCustomer    headers.Role = "customer"
	roleSheetName   headers.Role = "sheet-name"
	roleSheetKind   headers.Role = "sheet-kind"
	roleFlip        headers.Role = "flip"
	roleOffset      headers.Role = "offset"
)

// Columns left of the sheet name column describe the taxonomy tables.
// "Report Type" must be claimed by report before account type sees "type".
var taxonomyRoles = []headers.Synonyms{
	{Role: roleSubCategory, Contains: []string{"sub-category", "subcategory", "sub category", "sub-cat"}},
	{Role: roleCategory, Contains: []string{"category", "categories"}},
	{Role: roleVendor, Contains: []string{"vendor", "payee", "supplier"}},
	{Role: roleCustomer, Contains: []string{"customer", "client"}},
	{Role: roleReport, Contains: []string{"report"}},
	{Role: roleAccountType, Contains: []string{"type"}},
}

// Columns right of (and including) the sheet name column describe sheet layouts.
var sheetRoles = []headers.Synonyms{
	{Role: roleSheetName, Contains: []string{"sheet name"}, Exact: []string{"sheet", "sheets"}},
	{Role: roleFlip, Contains: []string{"flip", "polarity"}},
	{Role: roleOffset, Contains: []string{"header row", "offset", "header"}},
	{Role: roleSheetKind, Contains: []string{"type", "kind"}},
}

// Default sheet layouts used when the taxonomy configures none.
var DefaultSheets = []core.SheetConfig{
	{SheetName: "Bank Transactions", AccountKind: "Bank"},
	{SheetName: "Credit Card Transactions", AccountKind: "CC", FlipPolarity: true},
}

// Config is everything the taxonomy sheet declares.
type Config struct {
	Categories *core.Categories
	Vendors    *core.Directory
	Customers  *core.Directory
	Sheets     []core.SheetConfig
	HeaderRow  int
	Defaulted  bool     // Sheets were synthesized from DefaultSheets
	Warnings   []string // soft problems found while loading
}

// Load reads the taxonomy worksheet.
func Load(ws *core.Worksheet) (*Config, error) {
	if ws == nil {
		return nil, fmt.Errorf("taxonomy: %w", core.ErrMissingSheet)
	}
	cfg := &Config{
		Categories: core.NewCategories(),
		Vendors:    core.NewDirectory(),
		Customers:  core.NewDirectory(),
		HeaderRow:  findHeaderRow(ws),
	}
	cols := mapTaxonomy(ws.Row(cfg.HeaderRow))

	// Pass 1: the four tables share rows but not columns, so a row can feed
	// any number of them.
	for r := cfg.HeaderRow + 1; r <= ws.Len(); r++ {
		row := ws.Row(r)
		if name := cols.Get(row, roleCategory); name != "" {
			cfg.Categories.Add(core.Category{
				Name:        name,
				Bucket:      core.ParseBucket(cols.Get(row, roleReport)),
				AccountType: cols.Get(row, roleAccountType),
				SubCategory: cols.Get(row, roleSubCategory),
			})
		}
		if v := cols.Get(row, roleVendor); v != "" {
			_ = cfg.Vendors.Add(v)
		}
		if c := cols.Get(row, roleCustomer); c != "" {
			_ = cfg.Customers.Add(c)
		}
	}

	// Pass 2: sheet layouts.
	seen := map[string]bool{}
	for r := cfg.HeaderRow + 1; r <= ws.Len(); r++ {
		row := ws.Row(r)
		name := cols.Get(row, roleSheetName)
		if name == "" {
			continue
		}
		if seen[core.Key(name)] {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("sheet %q is configured more than once (row %d); keeping the first", name, r))
			continue
		}
		seen[core.Key(name)] = true
		cfg.Sheets = append(cfg.Sheets, core.SheetConfig{
			SheetName:    name,
			AccountKind:  cols.Get(row, roleSheetKind),
			FlipPolarity: strings.Contains(strings.ToLower(cols.Get(row, roleFlip)), "y"),
			HeaderOffset: parseOffset(cols.Get(row, roleOffset)),
		})
	}

	if len(cfg.Sheets) == 0 {
		cfg.Warnings = append(cfg.Warnings, "no transaction sheets configured in taxonomy; using default Bank and Credit Card sheets")
		cfg.Sheets = append([]core.SheetConfig(nil), DefaultSheets...)
		cfg.Defaulted = true
	}
	return cfg, nil
}

// findHeaderRow returns the first leading row mentioning "category", or 1.
func findHeaderRow(ws *core.Worksheet) int {
	for r := 1; r <= headers.ScanRows && r <= ws.Len(); r++ {
		if strings.Contains(headers.Normalize(strings.Join(ws.Row(r), " ")), "category") {
			return r
		}
	}
	return 1
}

// mapTaxonomy splits the header at the sheet name column: sheet layout
// roles to its right, taxonomy roles to its left.
func mapTaxonomy(row []string) headers.ColumnMap {
	split := len(row)
	for i, cell := range row {
		if r, ok := headers.Match(sheetRoles[:1], cell); ok && r == roleSheetName {
			split = i
			break
		}
	}
	m := headers.Map(taxonomyRoles, row[:split])
	for i := split; i < len(row); i++ {
		if r, ok := headers.Match(sheetRoles, row[i]); ok {
			m[r] = append(m[r], i)
		}
	}
	return m
}

func parseOffset(s string) int {
	d := core.ParseAmount(s)
	if !d.IsPositive() {
		return 0
	}
	return int(d.IntPart())
}
