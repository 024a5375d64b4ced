package sheets

import "testing"

func TestCellValue(t *testing.T) {
	cases := []struct {
		in   string
		want interface{}
	}{
		{"-1000.00", -1000.0},
		{"1250.50", 1250.5},
		{"3", 3.0},
		{"0.5", 0.5},
		{"007", "007"},
		{"1,234.50", "1,234.50"},
		{"2025-01-05", "2025-01-05"},
		{"Net Income", "Net Income"},
		{"", ""},
		{"1e5", "1e5"},
	}
	for _, tc := range cases {
		if got := CellValue(tc.in); got != tc.want {
			t.Errorf("CellValue(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}
