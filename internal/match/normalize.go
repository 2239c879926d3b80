package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds a declared name for comparison with a missed one:
// case is dropped along with the '_', '-' and ' ' separators, so
// "fiscal_id", "fiscal-id" and "FiscalID" all normalize to "fiscalid".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
