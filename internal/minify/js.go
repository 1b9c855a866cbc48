package minify

import "regexp"

var (
	lineComment   = regexp.MustCompile(`//.*`)
	jsPunctuation = around(`{};:,=+\-*/()<>`)
)

// JS strips comments and whitespace around operators and punctuation.
//
// Line comments are removed from the first "//" to the end of the line even
// when the slashes sit inside a string, template or regex literal, so code
// such as "http://example.com" in a string is truncated. Line breaks are
// collapsed without regard for automatic semicolon insertion.
func JS(text string) string {
	text = lineComment.ReplaceAllLiteralString(text, "")
	text = blockComment.ReplaceAllLiteralString(text, "")
	text = collapse(text)
	text = jsPunctuation.ReplaceAllString(text, "${1}")
	return trim(text)
}
