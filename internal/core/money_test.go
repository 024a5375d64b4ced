package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.34", "12.34"},
		{"-1000", "-1000"},
		{"1,234.50", "1234.5"},
		{"$1,234,567.89", "1234567.89"},
		{"($45.99)", "-45.99"},
		{"45.99-", "-45.99"},
		{"12,5", "12.5"},
		{"12,34", "12.34"},
		{"1,234", "1234"},
		{"1.234,56", "1234.56"},
		{"1.234.567,89", "1234567.89"},
		{"€1.234,5", "1234.5"},
		{"", "0"},
		{"n/a", "0"},
		{"  7  ", "7"},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestIsMaterial(t *testing.T) {
	if IsMaterial(decimal.RequireFromString("0.01")) {
		t.Fatalf("0.01 must not be material")
	}
	if IsMaterial(decimal.RequireFromString("-0.005")) {
		t.Fatalf("-0.005 must not be material")
	}
	if !IsMaterial(decimal.RequireFromString("-0.02")) {
		t.Fatalf("-0.02 must be material")
	}
}
