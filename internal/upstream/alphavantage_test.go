package upstream

import "testing"

func TestSafeFloat(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"123.45", f(123.45)},
		{"-2.5", f(-2.5)},
		{"1,234.5", f(1234.5)},
		{"25.0%", f(25.0)},
		{"None", nil},
		{"-", nil},
		{"", nil},
		{"abc", nil},
	}
	for _, tc := range cases {
		got := SafeFloat(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("SafeFloat(%q) = %v, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("SafeFloat(%q) = %v, want %v", tc.in, got, *tc.want)
		}
	}
}

func TestSafeInt(t *testing.T) {
	cases := []struct {
		in   string
		want *int64
	}{
		{"1000000", i(1000000)},
		{"123.99", i(123)}, // truncates, never rounds
		{"-50", i(-50)},
		{"None", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := SafeInt(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("SafeInt(%q) = %v, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("SafeInt(%q) = %v, want %v", tc.in, got, *tc.want)
		}
	}
}

func f(v float64) *float64 { return &v }
func i(v int64) *int64     { return &v }
