package setup

import (
	"strings"

	"ledgerbook/internal/core"
	"ledgerbook/internal/headers"
)

// Link resolves the linked account of every sheet config and returns the
// updated copies. Categories are searched in taxonomy order and the first
// whose account type, sub-category or name equals the sheet's account kind
// wins, even when a later category would be a closer fit.
func Link(sheets []core.SheetConfig, cats *core.Categories) []core.SheetConfig {
	out := make([]core.SheetConfig, len(sheets))
	for i, sc := range sheets {
		sc.LinkedAccount = linkFor(sc.AccountKind, cats)
		out[i] = sc
	}
	return out
}

func linkFor(kind string, cats *core.Categories) string {
	k := core.Key(kind)
	if k == "" {
		return ""
	}
	for _, c := range cats.All() {
		if core.Key(c.AccountType) == k || core.Key(c.SubCategory) == k || core.Key(c.Name) == k {
			return c.Name
		}
	}
	return ""
}

// Kind is the coarse account family of a transaction sheet.
type Kind string

const (
	KindBank Kind = "bank"
	KindCard Kind = "card"
)

var (
	bankTokens = []string{"checking", "savings", "debit"}
	cardTokens = []string{"cc", "card", "credit", "amex", "visa", "mastercard", "liability"}
)

// Classify maps a free-text account kind to bank or card. Bank wins ties
// and is the default.
func Classify(accountKind string) Kind {
	tokens := strings.FieldsFunc(strings.ToLower(accountKind), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	has := func(set []string) bool {
		for _, t := range tokens {
			for _, s := range set {
				if t == s {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has(bankTokens):
		return KindBank
	case has(cardTokens):
		return KindCard
	default:
		return KindBank
	}
}

// Layout is the positional column layout used for a sheet without a header.
func (k Kind) Layout() headers.ColumnMap {
	if k == KindCard {
		return headers.CardLayout
	}
	return headers.BankLayout
}
