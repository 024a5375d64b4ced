package core

import (
	"errors"
	"strings"
)

const (
	// NoSubCategory is the reserved sub-category bucket for rows that carry none.
	NoSubCategory = "(No Sub-Cat)"
)

const (
	BucketUnset        Bucket = ""
	BucketProfitLoss   Bucket = "P&L"
	BucketBalanceSheet Bucket = "Balance Sheet"
)

type (
	// Bucket is the report a category contributes to.
	Bucket string

	Category struct {
		Name        string // display name, first-seen casing
		Bucket      Bucket
		AccountType string
		SubCategory string
	}

	// SheetConfig describes one transaction sheet of the workbook.
	SheetConfig struct {
		SheetName     string
		AccountKind   string
		FlipPolarity  bool
		HeaderOffset  int    // 1-based header row, 0 when not configured
		LinkedAccount string // display name of the linked category, "" when unlinked
	}
)

var (
	ErrMissingSheet = errors.New("required sheet missing")
	ErrEmptyName    = errors.New("empty name")
)

// Key is the identity used for categories, vendors and customers.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseBucket interprets the free text of a taxonomy "Report" cell.
func ParseBucket(s string) Bucket {
	v := Key(s)
	switch {
	case v == "":
		return BucketUnset
	case strings.Contains(v, "p&l"), strings.Contains(v, "pnl"), strings.Contains(v, "p/l"),
		strings.Contains(v, "profit"), strings.Contains(v, "income statement"):
		return BucketProfitLoss
	case strings.Contains(v, "balance"), v == "bs":
		return BucketBalanceSheet
	default:
		return BucketUnset
	}
}

// IsAsset reports whether the category displays debit-positive on the balance sheet.
func (c Category) IsAsset() bool {
	return strings.Contains(strings.ToLower(c.AccountType), "asset")
}

// Linked reports whether the sheet feeds a balance sheet account.
func (c SheetConfig) Linked() bool {
	return c.LinkedAccount != ""
}

// Directory is an ordered allow-list of names keyed case-insensitively.
type Directory struct {
	names map[string]string
	order []string
}

func NewDirectory() *Directory {
	return &Directory{names: map[string]string{}}
}

// Add registers name unless its key is already known. The first casing wins.
func (d *Directory) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	k := Key(name)
	if _, ok := d.names[k]; ok {
		return nil
	}
	d.names[k] = name
	d.order = append(d.order, k)
	return nil
}

// Lookup returns the display name for name.
func (d *Directory) Lookup(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.names[Key(name)]
	return v, ok
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Names returns display names in insertion order.
func (d *Directory) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.names[k])
	}
	return out
}

// Categories is the taxonomy category table, kept in insertion order.
type Categories struct {
	byKey map[string]int
	list  []Category
}

func NewCategories() *Categories {
	return &Categories{byKey: map[string]int{}}
}

// Add inserts c unless a category with the same key exists.
// It reports whether c was inserted.
func (cs *Categories) Add(c Category) bool {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return false
	}
	k := Key(c.Name)
	if _, ok := cs.byKey[k]; ok {
		return false
	}
	cs.byKey[k] = len(cs.list)
	cs.list = append(cs.list, c)
	return true
}

func (cs *Categories) Lookup(name string) (Category, bool) {
	if cs == nil {
		return Category{}, false
	}
	i, ok := cs.byKey[Key(name)]
	if !ok {
		return Category{}, false
	}
	return cs.list[i], true
}

// All returns the categories in insertion order.
func (cs *Categories) All() []Category {
	if cs == nil {
		return nil
	}
	return append([]Category(nil), cs.list...)
}

func (cs *Categories) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.list)
}
