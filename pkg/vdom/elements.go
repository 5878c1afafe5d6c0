package vdom

// Namespaces for foreign elements.
const (
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with the given tag.
// Arguments can be: nil, Attr, []Attr, Props, VNode, []VNode, string.
// A string argument becomes a text child.
func El(tag string, args ...any) *Element {
	return createElement("", tag, args)
}

// ElNS creates an element in the given namespace.
func ElNS(namespace, tag string, args ...any) *Element {
	return createElement(namespace, tag, args)
}

// createElement collects props, key and children from args and builds the
// element.
func createElement(namespace, tag string, args []any) *Element {
	props := make(Props)
	var children []VNode
	var key string

	addAttr := func(a Attr) {
		if a.Key == "" {
			return
		}
		if a.Key == "key" {
			if s, ok := a.Value.(string); ok {
				key = s
			}
			return
		}
		props[a.Key] = a.Value
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue
		case Attr:
			addAttr(v)
		case []Attr:
			for _, a := range v {
				addAttr(a)
			}
		case Props:
			for k, value := range v {
				addAttr(Attr{Key: k, Value: value})
			}
		case string:
			// Shorthand for text node
			children = append(children, Text(v))
		case []VNode:
			children = append(children, v...)
		case VNode:
			if !isNilNode(v) {
				children = append(children, v)
			}
		}
	}

	return NewElement(tag, props, children, key, namespace)
}

// Document structure elements

func Html(args ...any) *Element { return El("html", args...) }
func Head(args ...any) *Element { return El("head", args...) }
func Body(args ...any) *Element { return El("body", args...) }

// Content sectioning elements

func Header(args ...any) *Element  { return El("header", args...) }
func Footer(args ...any) *Element  { return El("footer", args...) }
func Main(args ...any) *Element    { return El("main", args...) }
func Nav(args ...any) *Element     { return El("nav", args...) }
func Section(args ...any) *Element { return El("section", args...) }
func Article(args ...any) *Element { return El("article", args...) }
func H1(args ...any) *Element      { return El("h1", args...) }
func H2(args ...any) *Element      { return El("h2", args...) }
func H3(args ...any) *Element      { return El("h3", args...) }

// Text content elements

func Div(args ...any) *Element  { return El("div", args...) }
func P(args ...any) *Element    { return El("p", args...) }
func Span(args ...any) *Element { return El("span", args...) }
func Pre(args ...any) *Element  { return El("pre", args...) }
func Ul(args ...any) *Element   { return El("ul", args...) }
func Ol(args ...any) *Element   { return El("ol", args...) }
func Li(args ...any) *Element   { return El("li", args...) }
func Hr(args ...any) *Element   { return El("hr", args...) }

// Inline text semantics

func A(args ...any) *Element      { return El("a", args...) }
func Strong(args ...any) *Element { return El("strong", args...) }
func Em(args ...any) *Element     { return El("em", args...) }
func Code(args ...any) *Element   { return El("code", args...) }
func Br(args ...any) *Element     { return El("br", args...) }

// Form elements

func Form(args ...any) *Element     { return El("form", args...) }
func Input(args ...any) *Element    { return El("input", args...) }
func Textarea(args ...any) *Element { return El("textarea", args...) }
func Select(args ...any) *Element   { return El("select", args...) }
func Option(args ...any) *Element   { return El("option", args...) }
func Button(args ...any) *Element   { return El("button", args...) }
func Label(args ...any) *Element    { return El("label", args...) }

// Table elements

func Table(args ...any) *Element { return El("table", args...) }
func Tbody(args ...any) *Element { return El("tbody", args...) }
func Tr(args ...any) *Element    { return El("tr", args...) }
func Th(args ...any) *Element    { return El("th", args...) }
func Td(args ...any) *Element    { return El("td", args...) }

// Media elements

func Img(args ...any) *Element    { return El("img", args...) }
func Canvas(args ...any) *Element { return El("canvas", args...) }

// Foreign elements

func Svg(args ...any) *Element    { return ElNS(SVGNamespace, "svg", args...) }
func Circle(args ...any) *Element { return ElNS(SVGNamespace, "circle", args...) }
func Path(args ...any) *Element   { return ElNS(SVGNamespace, "path", args...) }
