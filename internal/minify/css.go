package minify

var cssPunctuation = around(`{};:,`)

// CSS strips comments and non-essential whitespace from a stylesheet.
// Comment-like sequences inside strings or url() are not recognised.
func CSS(text string) string {
	text = blockComment.ReplaceAllLiteralString(text, "")
	text = collapse(text)
	text = cssPunctuation.ReplaceAllString(text, "${1}")
	return trim(text)
}
