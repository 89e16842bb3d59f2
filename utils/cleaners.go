package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	currencyPrefixRegex = regexp.MustCompile(`(?i)rm\s*`)
	nonNumericRegex     = regexp.MustCompile(`[^\d.,]`)
	commaRunRegex       = regexp.MustCompile(`,+`)
	billDateRegex       = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)
	identifierJunkRegex = regexp.MustCompile(`[^A-Za-z0-9\-]`)
	whitespaceRegex     = regexp.MustCompile(`\s+`)
)

// addressStopWords mark the administrative-division line that ends a
// genuine postal address on the bill form; anything after the last one
// is boilerplate.
var addressStopWords = []string{"selangor", "kuala lumpur", "putrajaya", "labuan"}

// CleanNumeric strips currency prefixes and everything that is not a
// digit, dot or comma, then drops the commas. Idempotent.
func CleanNumeric(v string) string {
	if v == "" {
		return ""
	}
	v = currencyPrefixRegex.ReplaceAllString(v, "")
	v = nonNumericRegex.ReplaceAllString(v, "")
	v = commaRunRegex.ReplaceAllString(v, "")
	return strings.TrimSpace(v)
}

// CleanAddress trims the OCR'd address block to end at the last line
// containing an administrative stop word, discarding trailing form
// boilerplate.
func CleanAddress(text string) string {
	if text == "" {
		return ""
	}
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	last := -1
	for i, l := range lines {
		lower := strings.ToLower(l)
		for _, w := range addressStopWords {
			if strings.Contains(lower, w) {
				last = i
				break
			}
		}
	}
	if last != -1 {
		lines = lines[:last+1]
	}
	return strings.Join(lines, "\n")
}

// CountAddressLines counts non-empty lines in the cleaned address text.
// An empty address returns the 6-line baseline the templates were
// authored against, so the downstream offset stays zero.
func CountAddressLines(text string) int {
	if text == "" {
		return 6
	}
	count := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			count++
		}
	}
	return count
}

// NormalizeBillDate extracts the first d/m/y token from the text and
// returns it as DD/MM/YYYY. Two-digit years are assumed in the 2000s.
// Returns "" when no date is present.
func NormalizeBillDate(text string) string {
	m := billDateRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	dd, mm, yy := m[1], m[2], m[3]
	if len(dd) == 1 {
		dd = "0" + dd
	}
	if len(mm) == 1 {
		mm = "0" + mm
	}
	if len(yy) == 2 {
		yy = "20" + yy
	}
	return dd + "/" + mm + "/" + yy
}

// DayCountBetween returns the absolute whole-day difference between two
// DD/MM/YYYY dates, or "" if either fails to parse.
func DayCountBetween(start, end string) string {
	d1, err1 := time.Parse("02/01/2006", start)
	d2, err2 := time.Parse("02/01/2006", end)
	if err1 != nil || err2 != nil {
		return ""
	}
	days := int(d2.Sub(d1).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return strconv.Itoa(days)
}

// CleanIdentifier strips whitespace and every character outside
// [A-Za-z0-9-] from invoice/account numbers.
func CleanIdentifier(v string) string {
	v = whitespaceRegex.ReplaceAllString(v, "")
	return identifierJunkRegex.ReplaceAllString(v, "")
}
