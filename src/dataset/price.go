package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice turns listing prices like "15 000 CFA", "15.000 F CFA" or
// "12,5" into numbers. Only the first number of the text is read: spaces,
// '.' and ',' between digits group it. Text without digits ("Prix sur
// demande") and text holding a second number ("3 000 - 5 000 CFA",
// "2 paires à 10 000 F") are NaN.
//
// Separators: when both '.' and ',' occur the last one is the decimal mark.
// A single kind of separator is a thousands separator when it repeats or is
// followed by exactly three digits, otherwise it is the decimal mark.
func ParsePrice(s string) float64 {
	rs := []rune(s)
	start := -1
	for i, r := range rs {
		if isDigit(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return math.NaN()
	}
	neg := start > 0 && rs[start-1] == '-'

	var b strings.Builder
	end := start
scan:
	for end < len(rs) {
		r := rs[end]
		switch {
		case isDigit(r):
			b.WriteRune(r)
		case (r == '.' || r == ',') && end+1 < len(rs) && isDigit(rs[end+1]):
			b.WriteRune(r)
		case isSpace(r) && threeDigitsAt(rs, end+1):
			// thousands group, the space itself is dropped
		default:
			break scan
		}
		end++
	}
	for _, r := range rs[end:] {
		if isDigit(r) {
			return math.NaN()
		}
	}

	num := b.String()
	lastDot := strings.LastIndex(num, ".")
	lastComma := strings.LastIndex(num, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		dec := byte('.')
		thou := ","
		if lastComma > lastDot {
			dec, thou = ',', "."
		}
		num = strings.ReplaceAll(num, thou, "")
		num = strings.Replace(num, string(dec), ".", 1)
	case lastDot >= 0:
		num = normalizeSingle(num, ".")
	case lastComma >= 0:
		num = normalizeSingle(num, ",")
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return math.NaN()
	}
	if neg {
		v = -v
	}
	return v
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// isSpace accepts the spaces seen inside listing prices, including the
// no-break spaces spreadsheets insert.
func isSpace(r rune) bool { return r == ' ' || r == '\u00a0' || r == '\u202f' }

// threeDigitsAt reports whether rs holds a group of exactly three digits at i.
func threeDigitsAt(rs []rune, i int) bool {
	if i+3 > len(rs) {
		return false
	}
	for _, r := range rs[i : i+3] {
		if !isDigit(r) {
			return false
		}
	}
	return i+3 == len(rs) || !isDigit(rs[i+3])
}

func normalizeSingle(num, sep string) string {
	if strings.Count(num, sep) > 1 {
		return strings.ReplaceAll(num, sep, "")
	}
	i := strings.Index(num, sep)
	if len(num)-i-1 == 3 {
		return strings.Replace(num, sep, "", 1)
	}
	return strings.Replace(num, sep, ".", 1)
}
