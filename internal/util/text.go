package util

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	reYearLike = regexp.MustCompile(`^(19|20)\d{2}`)
	reFourDig  = regexp.MustCompile(`\d{4}`)
)

func NormalizeSpaces(input string) string {
	input = strings.ReplaceAll(input, "\u00a0", " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func NormalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, NormalizeSpaces(c))
	}
	return out
}

// YearPrefix returns the leading 19xx/20xx of s, or "".
func YearPrefix(s string) string {
	return reYearLike.FindString(s)
}

func IsYear(s string) bool {
	return len(s) == 4 && YearPrefix(s) == s
}

// FirstFourDigits returns the first run of four digits in s, or "".
func FirstFourDigits(s string) string {
	return reFourDig.FindString(s)
}

func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func AnyCell(row []string, pred func(string) bool) bool {
	for _, c := range row {
		if pred(c) {
			return true
		}
	}
	return false
}
