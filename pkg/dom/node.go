package dom

import (
	"slices"

	"github.com/vango-dev/vpatch/pkg/host"
)

// attachable is implemented by nodes that can record their parent.
type attachable interface {
	setParent(p *Element)
}

// Element is a host element.
type Element struct {
	tag       string
	namespace string
	props     map[string]any
	parent    *Element
	children  []host.Node
}

// NewElement creates a detached element in the HTML namespace.
func NewElement(tag string) *Element {
	return NewElementNS("", tag)
}

// NewElementNS creates a detached element in namespace.
func NewElementNS(namespace, tag string) *Element {
	return &Element{
		tag:       tag,
		namespace: namespace,
		props:     make(map[string]any),
	}
}

// TagName implements host.Element.
func (e *Element) TagName() string { return e.tag }

// Namespace returns the element namespace, "" for HTML.
func (e *Element) Namespace() string { return e.namespace }

// Prop returns the live value of a property.
func (e *Element) Prop(name string) (any, bool) {
	v, ok := e.props[name]
	return v, ok
}

// Props returns the live property map. Callers must not modify it.
func (e *Element) Props() map[string]any { return e.props }

// Parent implements host.Node.
func (e *Element) Parent() host.Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// ChildNodes implements host.Node.
func (e *Element) ChildNodes() []host.Node { return e.children }

// AppendChild implements host.Node.
func (e *Element) AppendChild(child host.Node) {
	detach(child)
	e.children = append(e.children, child)
	adopt(child, e)
}

// InsertBefore implements host.Node.
func (e *Element) InsertBefore(child, ref host.Node) {
	if ref == nil {
		e.AppendChild(child)
		return
	}
	detach(child)
	i := e.indexOf(ref)
	if i < 0 {
		e.children = append(e.children, child)
	} else {
		e.children = slices.Insert(e.children, i, child)
	}
	adopt(child, e)
}

// RemoveChild implements host.Node.
func (e *Element) RemoveChild(child host.Node) {
	i := e.indexOf(child)
	if i < 0 {
		return
	}
	e.children = slices.Delete(e.children, i, i+1)
	adopt(child, nil)
}

// ReplaceChild implements host.Node.
func (e *Element) ReplaceChild(newChild, oldChild host.Node) {
	i := e.indexOf(oldChild)
	if i < 0 {
		return
	}
	if newChild == oldChild {
		return
	}
	detach(newChild)
	// detaching may have shifted oldChild
	i = e.indexOf(oldChild)
	e.children[i] = newChild
	adopt(oldChild, nil)
	adopt(newChild, e)
}

func (e *Element) indexOf(child host.Node) int {
	return slices.Index(e.children, child)
}

func (e *Element) setParent(p *Element) { e.parent = p }

// Text is a host text node.
type Text struct {
	data   string
	parent *Element
}

// NewText creates a detached text node.
func NewText(data string) *Text {
	return &Text{data: data}
}

// Data returns the text payload.
func (t *Text) Data() string { return t.data }

// SetData implements host.Text.
func (t *Text) SetData(data string) { t.data = data }

// Parent implements host.Node.
func (t *Text) Parent() host.Node {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

// ChildNodes implements host.Node. Text nodes have no children.
func (t *Text) ChildNodes() []host.Node { return nil }

// AppendChild implements host.Node. It is a no-op for text nodes.
func (t *Text) AppendChild(host.Node) {}

// InsertBefore implements host.Node. It is a no-op for text nodes.
func (t *Text) InsertBefore(host.Node, host.Node) {}

// RemoveChild implements host.Node. It is a no-op for text nodes.
func (t *Text) RemoveChild(host.Node) {}

// ReplaceChild implements host.Node. It is a no-op for text nodes.
func (t *Text) ReplaceChild(host.Node, host.Node) {}

func (t *Text) setParent(p *Element) { t.parent = p }

// detach removes n from its current parent, if any.
func detach(n host.Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

func adopt(n host.Node, p *Element) {
	if a, ok := n.(attachable); ok {
		a.setParent(p)
	}
}

var (
	_ host.Element = (*Element)(nil)
	_ host.Text    = (*Text)(nil)
)
