package service

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// currencyRunes are stripped before numeric parsing so that price
// columns exported with currency formatting still import cleanly.
const currencyRunes = "₹$€£¥"

// CleanNumberValue strips currency symbols, thousands separators and
// whitespace from a raw cell, keeping digits, a single decimal point and
// a leading minus. It is the single numeric-cleaning routine shared by
// validation and persistence so both agree on what counts as a number.
func CleanNumberValue(raw string) (float64, bool) {
	var b strings.Builder
	seenPoint := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			if !seenPoint {
				seenPoint = true
				b.WriteRune(r)
			}
		case r == '-':
			if b.Len() == 0 {
				b.WriteRune(r)
			}
		case r == ',' || unicode.IsSpace(r) || strings.ContainsRune(currencyRunes, r):
			// dropped
		default:
			// any other character makes the value non-numeric
			return 0, false
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// dateLayouts are tried in order when coercing date cells. Templates
// instruct users to use YYYY-MM-DD; the extra layouts tolerate common
// spreadsheet exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	time.RFC3339,
}

// ParseDate reports whether a raw cell is a valid calendar date and
// returns its normalized value.
func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
