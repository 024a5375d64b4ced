package report

import (
	"strings"

	"github.com/schollz/closestmatch"
	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
	"ledgerbook/internal/engine"
)

// Violation is a distinct value missing from its allow-list.
type Violation struct {
	Value      string
	Row        int    // first row carrying the value
	Suggestion string // nearest allow-listed name, if any
}

// SheetIntegrity groups the integrity records of one sheet.
type SheetIntegrity struct {
	Sheet               string
	Uncategorized       int
	UncategorizedAmount decimal.Decimal
	IllegalCategories   []Violation
	IllegalVendors      []Violation
	IllegalCustomers    []Violation
	OffsetWarnings      []string
}

// IntegrityReport lists sheets in the order their first record was raised.
type IntegrityReport struct {
	Sheets []SheetIntegrity
}

// Clean reports whether no anomaly was recorded.
func (r IntegrityReport) Clean() bool {
	return len(r.Sheets) == 0
}

// Integrity groups the records of res by sheet.
func Integrity(res *engine.Result) IntegrityReport {
	cats := res.Config.Categories.All()
	catNames := make([]string, 0, len(cats))
	for _, c := range cats {
		catNames = append(catNames, c.Name)
	}
	suggest := map[engine.RecordKind]*matcher{
		engine.IllegalCategory: newMatcher(catNames),
		engine.IllegalVendor:   newMatcher(res.Config.Vendors.Names()),
		engine.IllegalCustomer: newMatcher(res.Config.Customers.Names()),
	}

	var out IntegrityReport
	index := map[string]int{}
	for _, r := range res.State.Records() {
		k := core.Key(r.Sheet)
		i, ok := index[k]
		if !ok {
			i = len(out.Sheets)
			index[k] = i
			out.Sheets = append(out.Sheets, SheetIntegrity{Sheet: r.Sheet})
		}
		s := &out.Sheets[i]
		switch r.Kind {
		case engine.UncategorizedRow:
			s.Uncategorized++
			s.UncategorizedAmount = s.UncategorizedAmount.Add(r.Amount)
		case engine.IllegalCategory:
			s.IllegalCategories = append(s.IllegalCategories, suggest[r.Kind].violation(r))
		case engine.IllegalVendor:
			s.IllegalVendors = append(s.IllegalVendors, suggest[r.Kind].violation(r))
		case engine.IllegalCustomer:
			s.IllegalCustomers = append(s.IllegalCustomers, suggest[r.Kind].violation(r))
		case engine.OffsetWarning:
			s.OffsetWarnings = append(s.OffsetWarnings, r.Value)
		}
	}
	return out
}

// matcher proposes the closest allow-listed name for an illegal value.
type matcher struct {
	cm    *closestmatch.ClosestMatch
	names map[string]string // lower-case key to display name
}

func newMatcher(names []string) *matcher {
	m := &matcher{names: map[string]string{}}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		k := core.Key(n)
		if _, dup := m.names[k]; dup || k == "" {
			continue
		}
		m.names[k] = n
		keys = append(keys, k)
	}
	if len(keys) > 0 {
		m.cm = closestmatch.New(keys, []int{2, 3})
	}
	return m
}

func (m *matcher) violation(r engine.Record) Violation {
	v := Violation{Value: r.Value, Row: r.Row}
	if m.cm == nil {
		return v
	}
	key := core.Key(r.Value)
	if best := m.cm.Closest(key); best != "" && similar(key, best) {
		v.Suggestion = m.names[best]
	}
	return v
}

// minSimilarity is the bigram overlap below which a closest match is noise.
const minSimilarity = 0.4

// similar reports whether a and b share a word of three or more letters or
// enough character bigrams to be a plausible typo of one another.
func similar(a, b string) bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(a) {
		if len(w) >= 3 {
			words[w] = true
		}
	}
	for _, w := range strings.Fields(b) {
		if words[w] {
			return true
		}
	}
	return dice(a, b) >= minSimilarity
}

// dice is the Sørensen-Dice coefficient over distinct character bigrams.
func dice(a, b string) float64 {
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}
	shared := 0
	for g := range ba {
		if bb[g] {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ba)+len(bb))
}

func bigrams(s string) map[string]bool {
	r := []rune(s)
	out := make(map[string]bool, len(r))
	for i := 0; i+1 < len(r); i++ {
		out[string(r[i:i+2])] = true
	}
	return out
}
