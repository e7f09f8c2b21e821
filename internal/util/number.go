package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reThousandsDot   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	reThousandsComma = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	reDigits         = regexp.MustCompile(`^\d+$`)
	reSpreadsheetInt = regexp.MustCompile(`^(\d+)\.0+$`)
)

// NormalizeCount strips thousands separators and a trailing ordinal dot from
// a rank or bib token ("1.234" -> "1234", "12." -> "12").
func NormalizeCount(token string) string {
	compact := strings.ReplaceAll(NormalizeSpaces(token), " ", "")
	compact = strings.TrimSuffix(compact, ".")
	if reThousandsDot.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if reThousandsComma.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	return compact
}

// IsCount reports whether token is a whole non-negative number once
// separators are stripped.
func IsCount(token string) bool {
	return reDigits.MatchString(NormalizeCount(token))
}

// ParseCount parses a rank or bib token. Spreadsheet floats such as "123.0"
// are accepted.
func ParseCount(token string) (int, error) {
	norm := NormalizeCount(token)
	if m := reSpreadsheetInt.FindStringSubmatch(norm); m != nil {
		norm = m[1]
	}
	if !reDigits.MatchString(norm) {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(norm)
}
