package render

import (
	"strings"

	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func wordSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// Inline elements keep their children on one line in pretty output.
var inlineElements = wordSet(`
	a abbr b bdi bdo br cite code data dfn em i kbd label mark q rb rp rt
	rtc ruby s samp small span strong sub sup time u var wbr
`)

// Boolean attributes render as a bare name when true and not at all when
// false.
var booleanAttrs = wordSet(`
	allowfullscreen async autofocus autoplay checked controls default defer
	disabled formnovalidate hidden inert ismap itemscope loop multiple muted
	nomodule novalidate open playsinline readonly required reversed selected
`)

// isForeign reports whether el lives in a non-HTML namespace such as SVG.
func isForeign(el *dom.Element) bool {
	return el.Namespace() != ""
}

// isVoid reports whether el is an HTML element without an end tag.
func isVoid(el *dom.Element) bool {
	return !isForeign(el) && vdom.IsVoidElement(el.TagName())
}

// isSelfClosing reports whether el is written as <tag/>. Only childless
// foreign elements are.
func isSelfClosing(el *dom.Element) bool {
	return isForeign(el) && len(el.ChildNodes()) == 0
}

func isInlineElement(tag string) bool {
	_, ok := inlineElements[tag]
	return ok
}

func isBooleanAttr(el *dom.Element, name string) bool {
	if isForeign(el) {
		return false
	}
	_, ok := booleanAttrs[name]
	return ok
}
