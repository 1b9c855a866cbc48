package minify

import "regexp"

var (
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	interTag    = regexp.MustCompile(`>` + whitespace + `+<`)
)

// HTML drops comments and whitespace between tags, then collapses what is
// left. Contents of pre, script, style and textarea are collapsed too.
func HTML(text string) string {
	text = htmlComment.ReplaceAllLiteralString(text, "")
	text = interTag.ReplaceAllLiteralString(text, "><")
	text = collapse(text)
	return trim(text)
}
