package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalizeText case-folds s, composes it to NFC and reduces everything
// that is not a letter, digit or combining mark to single spaces.
func normalizeText(s string) string {
	// cases.Caser is stateful; one per call.
	folded := norm.NFC.String(cases.Fold().String(s))

	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSuffix(b.String(), " ")
}
