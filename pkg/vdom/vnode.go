package vdom

import (
	"reflect"

	"github.com/vango-dev/vpatch/pkg/host"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <button>, etc.
	KindText                // Plain text node
	KindWidget              // Externally managed stateful unit
	KindThunk               // Lazy node resolved during diffing
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindWidget:
		return "Widget"
	case KindThunk:
		return "Thunk"
	default:
		return "Unknown"
	}
}

// VNode is a node of an immutable tree snapshot.
//
// The concrete variants are *Element, *VText, *Thunk and any type
// implementing Widget.
type VNode interface {
	Kind() Kind
}

// Props holds element properties. Values may be scalars, nested Props
// mappings, or Hook implementations.
type Props map[string]any

// Element is an element node. All fields are fixed at construction.
type Element struct {
	tag       string
	namespace string
	key       string
	props     Props
	children  []VNode

	// Derived at construction.
	count           int
	hasWidgets      bool
	hasThunks       bool
	descendantHooks bool
	hooks           map[string]Hook
}

// NewElement builds an element and computes its derived fields. The props
// map and children slice are copied; nil children are dropped.
func NewElement(tag string, props Props, children []VNode, key, namespace string) *Element {
	el := &Element{
		tag:       tag,
		namespace: namespace,
		key:       key,
		props:     make(Props, len(props)),
		children:  make([]VNode, 0, len(children)),
	}

	for name, value := range props {
		el.props[name] = value
		if h, ok := value.(Hook); ok {
			if el.hooks == nil {
				el.hooks = make(map[string]Hook)
			}
			el.hooks[name] = h
		}
	}

	descendants := 0
	for _, child := range children {
		if child == nil {
			continue
		}
		el.children = append(el.children, child)

		switch child.Kind() {
		case KindElement:
			c, ok := child.(*Element)
			if !ok {
				continue
			}
			descendants += c.count
			el.hasWidgets = el.hasWidgets || c.hasWidgets
			el.hasThunks = el.hasThunks || c.hasThunks
			el.descendantHooks = el.descendantHooks || len(c.hooks) > 0 || c.descendantHooks
		case KindWidget:
			el.hasWidgets = true
		case KindThunk:
			el.hasThunks = true
		}
	}
	el.count = len(el.children) + descendants

	return el
}

// Kind implements VNode.
func (e *Element) Kind() Kind { return KindElement }

// Tag returns the element tag name.
func (e *Element) Tag() string { return e.tag }

// Namespace returns the element namespace, or "" for the default namespace.
func (e *Element) Namespace() string { return e.namespace }

// Key returns the reconciliation key, or "" when unkeyed.
func (e *Element) Key() string { return e.key }

// Props returns the property mapping. It must not be modified.
func (e *Element) Props() Props { return e.props }

// Children returns the child list. It must not be modified.
func (e *Element) Children() []VNode { return e.children }

// SubtreeSize returns the number of descendant nodes. Widgets, text and
// thunk children count as one node each and contribute no descendants.
func (e *Element) SubtreeSize() int { return e.count }

// HasWidgets reports whether any descendant is a widget.
func (e *Element) HasWidgets() bool { return e.hasWidgets }

// HasThunks reports whether any descendant is a thunk.
func (e *Element) HasThunks() bool { return e.hasThunks }

// HasDescendantHooks reports whether any descendant element carries hooks.
func (e *Element) HasDescendantHooks() bool { return e.descendantHooks }

// Hooks returns the hook-valued properties of this element.
func (e *Element) Hooks() map[string]Hook { return e.hooks }

// VText is a text node.
type VText struct {
	text string
}

// Kind implements VNode.
func (t *VText) Kind() Kind { return KindText }

// Text returns the text payload.
func (t *VText) Text() string { return t.text }

// Hook is a property value with attach/detach side effects. Hook is called
// when the property appears on a host element or changes to this value;
// Unhook is called once when the value is removed or superseded.
type Hook interface {
	Hook(node host.Node, name string, previous any)
	Unhook(node host.Node, name string, next any)
}

// keyed is implemented by nodes that carry a reconciliation key.
type keyed interface {
	Key() string
}

// keyOf returns the reconciliation key of v, or "" when v is unkeyed.
func keyOf(v VNode) string {
	switch k := v.(type) {
	case *FuncWidget:
		if k == nil {
			return ""
		}
		return k.Key
	case keyed:
		return k.Key()
	}
	return ""
}

// isNilNode reports whether v is nil or a typed nil pointer.
func isNilNode(v VNode) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// identical reports whether a and b are the same node value. Node types
// that are not comparable are never identical.
func identical(a, b VNode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
