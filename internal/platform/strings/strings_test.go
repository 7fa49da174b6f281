package strings

import (
	"testing"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"calculus", []string{"calculus"}},
		{" calculus, algebra ,,", []string{"calculus", "algebra"}},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("SplitCSV(%q) = %#v, want %#v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("SplitCSV(%q)[%d] = %q, want %q", c.in, i, got[i], c.want[i])
			}
		}
	}
}

func TestParseInts(t *testing.T) {
	got, err := ParseInts("2015, 2018,2023")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 2015 || got[1] != 2018 || got[2] != 2023 {
		t.Fatalf("ParseInts = %#v", got)
	}
	if got, err := ParseInts(""); err != nil || got != nil {
		t.Fatalf("ParseInts(empty) = %#v, %v", got, err)
	}
	if _, err := ParseInts("2015,20x8"); err == nil {
		t.Fatalf("expected error for bad element")
	}
}

func TestFirstN(t *testing.T) {
	if got := FirstN("short", 10); got != "short" {
		t.Fatalf("FirstN no-op = %q", got)
	}
	if got := FirstN("abcdef", 3); got != "abc..." {
		t.Fatalf("FirstN ascii = %q", got)
	}
	// "é" is two bytes; cutting inside it backs up to the rune start
	if got := FirstN("aé", 2); got != "a..." {
		t.Fatalf("FirstN utf8 = %q", got)
	}
	if got := FirstN("abc", 0); got != "abc" {
		t.Fatalf("FirstN(0) = %q", got)
	}
}
