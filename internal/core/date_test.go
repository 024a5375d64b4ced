package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-01-05", "2025-01-05", true},
		{"01/05/2025", "2025-01-05", true},
		{"1/5/25", "2025-01-05", true},
		{"Jan 5, 2025", "2025-01-05", true},
		{"Sun Jan 05 2025 00:00:00 GMT+0000 (Coordinated Universal Time)", "2025-01-05", true},
		{"45662", "2025-01-05", true},
		{"45662.5", "2025-01-05", true},
		{"2025", "", false},
		{"9999", "", false},
		{"", "", false},
		{"soon", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate("1/5/2025"); got != "2025-01-05" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayDate(" someday "); got != "someday" {
		t.Fatalf("got %q", got)
	}
}
