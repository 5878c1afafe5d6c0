package vdom

import "strings"

// Attr represents a single property.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets an arbitrary property.
func Prop(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Styles sets the style property as a nested mapping, which is diffed and
// applied one declaration at a time.
func Styles(decls Props) Attr { return attr("style", decls) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// Link and form attributes

func Href(url string) Attr         { return attr("href", url) }
func Src(url string) Attr          { return attr("src", url) }
func Alt(text string) Attr         { return attr("alt", text) }
func Name(name string) Attr        { return attr("name", name) }
func Type(t string) Attr           { return attr("type", t) }
func Value(v string) Attr          { return attr("value", v) }
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Boolean attributes

func Disabled(b bool) Attr { return attr("disabled", b) }
func Checked(b bool) Attr  { return attr("checked", b) }
func Hidden(b bool) Attr   { return attr("hidden", b) }

// HookAttr attaches a lifecycle hook under name.
func HookAttr(name string, h Hook) Attr { return attr(name, h) }
