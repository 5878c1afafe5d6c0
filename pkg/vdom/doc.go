// Package vdom provides immutable virtual tree snapshots and the diff
// algorithm that compares them.
//
// # Core Types
//
// VNode is a closed union of four variants distinguished by Kind:
// *Element, *VText, Widget and *Thunk. Elements compute their derived
// fields (subtree size, descendant widget/thunk/hook flags, own hooks) once
// at construction; nothing in a tree is mutated afterwards except a thunk's
// cached resolution.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    Ul(Range(items, func(it Item, _ int) VNode {
//	        return Li(Key(it.ID), it.Label)
//	    })),
//	)
//
// # Diffing
//
// Diff walks two trees in lock-step and returns a PatchSet keyed by the
// pre-order index of each node in the first tree. Identical nodes are
// skipped without descending. Keyed children are aligned by Reorder before
// the positional walk, and removed subtrees are torn down so that each hook
// is unhooked and each widget destroyed exactly once when the patches are
// applied.
//
// Property mappings are compared with DiffProps. Nested mappings are diffed
// key by key; hooks are opaque and always replaced wholesale.
package vdom
