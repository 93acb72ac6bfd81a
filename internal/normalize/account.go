package normalize

import (
	"strings"
	"unicode"
)

// numericArtifact is what a numeric cell coerced to text leaves behind
// ("1001" stored as a float becomes "1001.0").
const numericArtifact = ".0"

// codeSeparators are stripped from account codes.
var codeSeparators = strings.NewReplacer(".", "", "-", "", "/", "", `\`, "")

// AccountCode returns the canonical form of an account code: a trailing ".0"
// artifact is dropped, then whitespace and the separators . - / \ are removed.
// Blank input yields "". AccountCode(AccountCode(x)) == AccountCode(x).
func AccountCode(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.TrimSuffix(raw, numericArtifact)
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	return codeSeparators.Replace(s)
}
