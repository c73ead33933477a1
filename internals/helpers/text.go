package helper

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeName trims, collapses inner whitespace and composes to NFC.
func NormalizeName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return reSpaces.ReplaceAllString(s, " ")
}
