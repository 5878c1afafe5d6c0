// Package host defines the capabilities the patch engine needs from a live
// host tree.
//
// The engine never constructs host nodes itself. A renderer builds them from
// virtual nodes and the engine only moves, replaces and removes them through
// the primitives below. Insertion positions use shifting-index semantics: a
// position is evaluated against the child list as it exists at the moment of
// the call.
package host

// Node is a node in a live host tree.
//
// Implementations must return an untyped nil from Parent when the node is
// detached.
type Node interface {
	// Parent returns the parent node, or nil for a detached node.
	Parent() Node

	// ChildNodes returns the current ordered child list. Callers must not
	// retain the slice across mutations.
	ChildNodes() []Node

	// AppendChild appends child, detaching it from any previous parent.
	AppendChild(child Node)

	// InsertBefore inserts child before ref. A nil ref appends.
	InsertBefore(child, ref Node)

	// RemoveChild detaches child from this node.
	RemoveChild(child Node)

	// ReplaceChild puts newChild where oldChild was and detaches oldChild.
	ReplaceChild(newChild, oldChild Node)
}

// Text is a host text node whose payload can be mutated in place.
type Text interface {
	Node

	// SetData replaces the text payload.
	SetData(data string)
}

// Element is a host element node.
type Element interface {
	Node

	// TagName returns the element tag.
	TagName() string
}
