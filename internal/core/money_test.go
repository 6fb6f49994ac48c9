package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		out   string
		valid bool
	}{
		{"1", "1", true},
		{"1234.5", "1234.5", true},
		{"1234,5", "1234.5", true},
		{"1.234,56", "1234.56", true},
		{"R$ 1.234,56", "1234.56", true},
		{" 250 ", "250", true},
		{"-10.5", "-10.5", true},
		{"N/A", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		if got.Valid != tc.valid {
			t.Fatalf("%q valid=%v, want %v", tc.in, got.Valid, tc.valid)
		}
		if tc.valid && got.Value.String() != tc.out {
			t.Fatalf("%q parsed to %s, want %s", tc.in, got.Value, tc.out)
		}
	}
}

func TestParseAmountKeepsRawText(t *testing.T) {
	a := ParseAmount(" N/A ")
	if a.Valid || a.Raw != "N/A" {
		t.Fatalf("unexpected amount: %+v", a)
	}
}

func TestParseCode(t *testing.T) {
	cases := []struct {
		in string
		n  int
		ok bool
	}{
		{"223", 223, true},
		{"223.0", 223, true},
		{" 2024 ", 2024, true},
		{"223.5", 0, false},
		{"", 0, false},
		{"x", 0, false},
	}
	for _, tc := range cases {
		n, ok := ParseCode(tc.in)
		if n != tc.n || ok != tc.ok {
			t.Fatalf("%q got (%d,%v), want (%d,%v)", tc.in, n, ok, tc.n, tc.ok)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	if got := ParseQuantity("2,5"); got != 2.5 {
		t.Fatalf("got %v", got)
	}
	if got := ParseQuantity("?"); got != 0 {
		t.Fatalf("non-numeric cota should be 0, got %v", got)
	}
}
