package parse

import (
	"regexp"
	"strings"
)

// spaceRe matches runs of whitespace, including the ideographic space U+3000
// that Japanese form exports put between family and given names.
var spaceRe = regexp.MustCompile(`[\s\x{3000}]+`)

// NormalizeName trims a student name and collapses inner whitespace to a
// single ASCII space, so "青木　 葵" and "青木 葵" compare equal.
func NormalizeName(raw string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
}
