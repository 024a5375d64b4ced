// Package engine aggregates transaction sheets and the adjustment journal
// of one workbook into category, vendor and customer totals.
//
// The aggregate State is convention-agnostic: it only adds. Callers decide
// the sign of every amount they fold in.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
)

// RecordKind classifies an integrity record.
type RecordKind string

const (
	UncategorizedRow RecordKind = "uncategorized_row"
	IllegalCategory  RecordKind = "illegal_category"
	IllegalVendor    RecordKind = "illegal_vendor"
	IllegalCustomer  RecordKind = "illegal_customer"
	OffsetWarning    RecordKind = "offset_warning"
)

type (
	// Record is a data-quality anomaly. It never blocks aggregation.
	Record struct {
		Kind   RecordKind
		Sheet  string
		Row    int
		Date   string
		Value  string
		Amount decimal.Decimal
	}

	// Entry is one categorized row, kept for category detail listings.
	Entry struct {
		Date        time.Time // zero when the date cell did not parse
		DateText    string
		Description string
		Category    string
		SubCategory string
		Amount      decimal.Decimal
		Sheet       string
		Row         int
	}

	// Note is an informational message about the run, e.g. an unlinked sheet.
	Note struct {
		Sheet   string
		Row     int
		Message string
	}

	// Bucket is the running total of one category.
	Bucket struct {
		Name          string
		Total         decimal.Decimal
		SubCategories map[string]decimal.Decimal
		subOrder      []string
	}

	// Total is a named amount, used for vendors and customers.
	Total struct {
		Name  string
		Value decimal.Decimal
	}
)

// State is the mutable aggregate of a single run.
type State struct {
	buckets   map[string]*Bucket
	order     []string
	vendors   *totals
	customers *totals
	records   []Record
	seen      map[string]bool
	entries   []Entry
	notes     []Note
}

func NewState() *State {
	return &State{
		buckets:   map[string]*Bucket{},
		vendors:   newTotals(),
		customers: newTotals(),
		seen:      map[string]bool{},
	}
}

func (s *State) bucket(name string) *Bucket {
	k := core.Key(name)
	b, ok := s.buckets[k]
	if !ok {
		b = &Bucket{Name: name, SubCategories: map[string]decimal.Decimal{}}
		s.buckets[k] = b
		s.order = append(s.order, k)
	}
	return b
}

// AddToCategory adds amount to the category total and its sub-category.
// An empty sub-category lands in core.NoSubCategory.
func (s *State) AddToCategory(name, sub string, amount decimal.Decimal) {
	b := s.bucket(name)
	b.Total = b.Total.Add(amount)
	if sub == "" {
		sub = core.NoSubCategory
	}
	if _, ok := b.SubCategories[sub]; !ok {
		b.subOrder = append(b.subOrder, sub)
	}
	b.SubCategories[sub] = b.SubCategories[sub].Add(amount)
}

// AdjustCategory adds amount to the category total only.
func (s *State) AdjustCategory(name string, amount decimal.Decimal) {
	b := s.bucket(name)
	b.Total = b.Total.Add(amount)
}

func (s *State) AddToVendor(name string, amount decimal.Decimal) {
	s.vendors.add(name, amount)
}

func (s *State) AddToCustomer(name string, amount decimal.Decimal) {
	s.customers.add(name, amount)
}

// Record appends an integrity record. Illegal values are kept once per
// sheet and distinct value; other kinds are kept every time.
func (s *State) Record(r Record) {
	switch r.Kind {
	case IllegalCategory, IllegalVendor, IllegalCustomer:
		k := string(r.Kind) + "\x00" + core.Key(r.Sheet) + "\x00" + core.Key(r.Value)
		if s.seen[k] {
			return
		}
		s.seen[k] = true
	}
	s.records = append(s.records, r)
}

func (s *State) AddEntry(e Entry) {
	s.entries = append(s.entries, e)
}

func (s *State) Note(n Note) {
	s.notes = append(s.notes, n)
}

// Category returns the bucket of name, matched case-insensitively.
func (s *State) Category(name string) (*Bucket, bool) {
	b, ok := s.buckets[core.Key(name)]
	return b, ok
}

// CategoryTotal is the category total, zero when never touched.
func (s *State) CategoryTotal(name string) decimal.Decimal {
	if b, ok := s.Category(name); ok {
		return b.Total
	}
	return decimal.Zero
}

// Buckets returns the category buckets in first-touched order.
func (s *State) Buckets() []*Bucket {
	out := make([]*Bucket, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.buckets[k])
	}
	return out
}

// SubCategoryNames returns the sub-category keys of b in first-touched order.
func (b *Bucket) SubCategoryNames() []string {
	return append([]string(nil), b.subOrder...)
}

func (s *State) Vendors() []Total   { return s.vendors.list() }
func (s *State) Customers() []Total { return s.customers.list() }
func (s *State) Records() []Record  { return append([]Record(nil), s.records...) }
func (s *State) Entries() []Entry   { return append([]Entry(nil), s.entries...) }
func (s *State) Notes() []Note      { return append([]Note(nil), s.notes...) }

type totals struct {
	byKey map[string]*Total
	order []string
}

func newTotals() *totals {
	return &totals{byKey: map[string]*Total{}}
}

func (t *totals) add(name string, amount decimal.Decimal) {
	k := core.Key(name)
	v, ok := t.byKey[k]
	if !ok {
		v = &Total{Name: name}
		t.byKey[k] = v
		t.order = append(t.order, k)
	}
	v.Value = v.Value.Add(amount)
}

func (t *totals) list() []Total {
	out := make([]Total, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, *t.byKey[k])
	}
	return out
}
