package kijiji

import (
	"strconv"
	"strings"
	"unicode"
)

// parsePriceText converts Kijiji price text into an amount. It
// recognizes "Free" as zero and "Please Contact" or anything without a
// usable number as absent (ok=false). Thousands separators are handled:
// "$1,200.00" parses to 1200.00.
func parsePriceText(text string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return 0, false
	}
	if strings.Contains(t, "free") {
		return 0, true
	}
	if strings.Contains(t, "please contact") {
		return 0, false
	}

	num := extractNumber(strings.ReplaceAll(t, ",", ""))
	if num == "" {
		return 0, false
	}

	amount, err := strconv.ParseFloat(num, 64)
	if err != nil || amount < 0 {
		return 0, false
	}
	return amount, true
}

// extractNumber returns the first digit run in s, including a single
// decimal fraction if one immediately follows.
func extractNumber(s string) string {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := start
	seenDot := false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			end++
		case c == '.' && !seenDot && end+1 < len(s) && s[end+1] >= '0' && s[end+1] <= '9':
			seenDot = true
			end++
		default:
			return s[start:end]
		}
	}
	return s[start:end]
}
