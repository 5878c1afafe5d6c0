package render

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	// attrEscaper also encodes whitespace control characters.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes text node content.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	return textEscaper.Replace(s)
}

// escapeAttr escapes an attribute value.
func escapeAttr(s string) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}
	return attrEscaper.Replace(s)
}
