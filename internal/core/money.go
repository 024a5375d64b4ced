// Package core provides the bookkeeping domain types and the lenient
// parsers used to read spreadsheet cells.
//
// This file contains amount parsing. Cells come from exports with very
// different conventions, so parsing never fails: anything unreadable is 0.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Materiality is the absolute amount below which values are treated as noise.
var Materiality = decimal.RequireFromString("0.01")

// ParseAmount converts a cell to a signed decimal.
//
// It accepts currency symbols, thousands separators, a trailing or leading
// minus, parentheses for negatives and a decimal comma:
//
//	ParseAmount("1,234.50")  -> 1234.50
//	ParseAmount("($45.99)")  -> -45.99
//	ParseAmount("12,5")      -> 12.5
//	ParseAmount("1.234,56")  -> 1234.56
//	ParseAmount("n/a")       -> 0
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		neg = !neg
		s = strings.TrimSuffix(s, "-")
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ' ', '\u00a0', '\'':
			return -1
		}
		return r
	}, s)
	s = normalizeSeparators(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		d = d.Neg()
	}
	return d
}

// normalizeSeparators removes thousands separators. When both a dot and a
// comma appear the right-most one is the decimal point. A lone comma
// followed by one or two digits is a decimal comma.
func normalizeSeparators(s string) string {
	commas := strings.Count(s, ",")
	if commas == 0 {
		return s
	}
	if dot := strings.LastIndex(s, "."); dot >= 0 {
		if strings.LastIndex(s, ",") > dot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	}
	if commas == 1 {
		i := strings.Index(s, ",")
		if frac := len(s) - i - 1; frac == 1 || frac == 2 {
			return s[:i] + "." + s[i+1:]
		}
	}
	return strings.ReplaceAll(s, ",", "")
}

// IsMaterial reports whether |d| exceeds the materiality threshold.
func IsMaterial(d decimal.Decimal) bool {
	return d.Abs().GreaterThan(Materiality)
}
