// Package parse turns raw storefront text fragments into typed values.
// Every function is total: malformed input maps to zero or absent, never
// to an error. Callers decide whether an absent value is worth logging.
package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ratingRe = regexp.MustCompile(`\d+[.,]\d+`)
	parensRe = regexp.MustCompile(`\(([^)]+)\)`)
)

// CleanText collapses runs of whitespace (including newlines) into single
// spaces and trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Price reads a price like "1 768 ₽" as 1768. It keeps only the digit
// runes, so decimal separators are ignored on purpose: the source lists
// integer ruble prices. Empty input is 0.
func Price(raw string) float64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	val, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return val
}

// Rating pulls the first decimal number out of a blob like
// "4,8 · 120 оценок". The comma/period separator is normalized to a
// period. ok is false when no decimal pattern is present.
func Rating(raw string) (val float64, ok bool) {
	m := ratingRe.FindString(raw)
	if m == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// ReviewCount reads the count inside the first parenthesized group, e.g.
// "Оценок: (12)" -> 12. A trailing "K" (any case) is the thousands scale
// marker: "(2.7K)" -> 2700, with a comma accepted as the decimal
// separator and the result rounded to the nearest integer.
func ReviewCount(raw string) (n int, ok bool) {
	m := parensRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	inner := strings.TrimSpace(m[1])

	if strings.HasSuffix(strings.ToLower(inner), "k") {
		numPart := strings.TrimSpace(inner[:len(inner)-1])
		numPart = strings.ReplaceAll(numPart, ",", ".")
		f, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f * 1000)), true
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, inner)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
