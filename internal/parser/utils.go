package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader lowercases a column header and collapses whitespace
func NormalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(name)
}

// NormalizeText lowercases free text for keyword scanning
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	return spaceRe.ReplaceAllString(text, " ")
}

// ContainsAny reports whether text contains any of the keywords
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ContainsAnyWord reports whether text contains any of the keywords bounded
// by non-word characters. Short keywords like "lan" must not fire inside
// unrelated words ("plans", "miscellaneous").
func ContainsAnyWord(text string, keywords []string) bool {
	for _, kw := range keywords {
		if containsWord(text, kw) {
			return true
		}
	}
	return false
}

func containsWord(text, kw string) bool {
	if kw == "" {
		return false
	}
	for start := 0; ; start++ {
		idx := strings.Index(text[start:], kw)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(kw)
		if (idx == 0 || !isWordChar(text[idx-1])) && (end == len(text) || !isWordChar(text[end])) {
			return true
		}
		start = idx
	}
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// ParseAmount parses a money cell. Tolerates thousands separators, currency
// markers and a trailing Cr/Crore/Lakh unit. Empty cells mean absent, not zero.
func ParseAmount(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "na") || strings.EqualFold(s, "n/a") {
		return nil, nil
	}

	cleaned := strings.ToLower(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, "rs.", "")
	cleaned = strings.ReplaceAll(cleaned, "rs", "")
	cleaned = strings.ReplaceAll(cleaned, "inr", "")

	cleaned = strings.TrimSpace(cleaned)

	// the unit is only a unit when it ends the cell; "cr" mid-word must
	// fall through to the number parse and fail there
	unit := 1.0
	for _, suffix := range []struct {
		name string
		unit float64
	}{
		{"crores", 1},
		{"crore", 1},
		{"cr", 1},
		{"lakhs", 0.01}, // lakh to crore
		{"lakh", 0.01},
	} {
		if strings.HasSuffix(cleaned, suffix.name) {
			unit = suffix.unit
			cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, suffix.name))
			break
		}
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	f *= unit
	return &f, nil
}

// Date layouts seen across GEM and Non-GEM exports
var dateLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// ParseDate parses a date cell. Empty cells mean absent, not zero time.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("not a date: %q", s)
}

// ParseBoolFlag parses an exemption flag cell
func ParseBoolFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "exempted", "exempt":
		return true
	}
	return false
}
