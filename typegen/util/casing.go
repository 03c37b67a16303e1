package util

import (
	"strings"
	"unicode"
)

// ToMemberName re-cases a Go field name for a target-language member.
// The first rune is lower-cased and the rest kept as-is; names shorter than
// two runes are lower-cased entirely ("ID" -> "iD", "X" -> "x").
func ToMemberName(name string) string {
	runes := []rune(name)
	if len(runes) < 2 {
		return strings.ToLower(name)
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
