package parser_test

import (
	"testing"
	"time"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/parser"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"25000", 25000},
		{"1,50,000", 150000},
		{"₹ 2500000", 2500000},
		{"Rs. 120000", 120000},
		{"5 Cr", 5},
		{"2.5 Crore", 2.5},
		{"50 Lakh", 0.5},
		{"INR 42000", 42000},
	}
	for _, tc := range cases {
		got, err := parser.ParseAmount(tc.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", tc.in, err)
		}
		if got == nil || *got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountAbsent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "  ", "-", "NA", "n/a"} {
		got, err := parser.ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", in, err)
		}
		if got != nil {
			t.Fatalf("ParseAmount(%q) = %v, want nil (absent, not zero)", in, *got)
		}
	}
}

func TestParseAmountMalformed(t *testing.T) {
	t.Parallel()

	// "5 across" must not be read as "5 Cr" just because "cr" occurs mid-word
	for _, in := range []string{"abc", "12..5", "ten lakh", "5 across"} {
		if _, err := parser.ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) succeeded, want error", in)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := parser.ParseDate("15-10-2026 15:00:00")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	want := time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}

	if got, err := parser.ParseDate(""); err != nil || got != nil {
		t.Fatalf("ParseDate(empty) = %v, %v, want nil, nil", got, err)
	}

	if _, err := parser.ParseDate("not a date"); err == nil {
		t.Fatalf("ParseDate(garbage) succeeded, want error")
	}
}

func TestParseBoolFlag(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Yes", "y", "TRUE", "1", "Exempted"} {
		if !parser.ParseBoolFlag(in) {
			t.Fatalf("ParseBoolFlag(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"", "No", "0", "false"} {
		if parser.ParseBoolFlag(in) {
			t.Fatalf("ParseBoolFlag(%q) = true, want false", in)
		}
	}
}

func TestContainsAnyWord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		kw   string
		want bool
	}{
		{"lan cabling for office", "lan", true},
		{"structured lan", "lan", true},
		{"miscellaneous procurement", "lan", false},
		{"plans for procurement", "lan", false},
		{"civil construction of building", "civil construction", true},
		{"uncivil constructions", "civil construction", false},
	}
	for _, tc := range cases {
		if got := parser.ContainsAnyWord(tc.text, []string{tc.kw}); got != tc.want {
			t.Fatalf("ContainsAnyWord(%q, %q) = %v, want %v", tc.text, tc.kw, got, tc.want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	if got, want := parser.NormalizeHeader("  Bid\nEnd   Date "), "bid end date"; got != want {
		t.Fatalf("NormalizeHeader = %q, want %q", got, want)
	}
}
