package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VText {
	return &VText{text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VText {
	return Text(fmt.Sprintf(format, args...))
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node VNode) VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse VNode) VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() VNode) VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to nodes.
func Range[T any](items []T, fn func(item T, index int) VNode) []VNode {
	result := make([]VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if !isNilNode(node) {
			result = append(result, node)
		}
	}
	return result
}

// Repeat creates n nodes using the given function.
func Repeat(n int, fn func(i int) VNode) []VNode {
	if n <= 0 {
		return nil
	}
	result := make([]VNode, 0, n)
	for i := 0; i < n; i++ {
		node := fn(i)
		if !isNilNode(node) {
			result = append(result, node)
		}
	}
	return result
}
