// Package minify implements surface-level minifiers for CSS, JavaScript and
// HTML. The transforms are regular-expression substitutions only: nothing is
// parsed, and string literals, regex literals and whitespace-significant
// elements get no special treatment.
package minify

import (
	"regexp"
	"strings"
)

// Func is a text-to-text minifier.
type Func func(text string) string

// whitespace matches every character treated as whitespace by a Unicode-aware
// `\s`, which is wider than RE2's ASCII-only class.
const whitespace = `[\t\n\x{0b}\f\r \x{1c}-\x{1f}\x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}]`

var (
	blockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespaceRun = regexp.MustCompile(whitespace + `+`)
)

// around builds a pattern that swallows whitespace on both sides of any of
// the given punctuation characters, keeping the character as group 1.
func around(class string) *regexp.Regexp {
	return regexp.MustCompile(whitespace + `*([` + class + `])` + whitespace + `*`)
}

func collapse(text string) string {
	return whitespaceRun.ReplaceAllLiteralString(text, " ")
}

func trim(text string) string {
	return strings.TrimFunc(text, isSpace)
}

func isSpace(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\v', r == '\f', r == '\r', r == ' ':
		return true
	case r >= 0x1c && r <= 0x1f:
		return true
	case r == 0x85, r == 0xa0, r == 0x1680:
		return true
	case r >= 0x2000 && r <= 0x200a:
		return true
	case r == 0x2028, r == 0x2029, r == 0x202f, r == 0x205f, r == 0x3000:
		return true
	}
	return false
}
