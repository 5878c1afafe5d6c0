package vdom

import (
	"fmt"

	"github.com/vango-dev/vpatch/internal/errors"
)

// Diff compares two trees and returns the patches that turn a into b,
// indexed against a. A lazy node that fails to resolve aborts the diff; no
// partial patch set is returned.
func Diff(a, b VNode) (*PatchSet, error) {
	ps := newPatchSet(a)
	if err := walk(a, b, ps, 0); err != nil {
		return nil, err
	}
	return ps, nil
}

// walk compares a and b at index and records patches in ps.
func walk(a, b VNode, ps *PatchSet, index int) error {
	if identical(a, b) {
		return nil
	}

	if isThunk(a) || isThunk(b) {
		return thunks(a, b, ps, index)
	}

	if isNilNode(b) {
		// A widget gets a single remove, which also destroys it. Anything
		// else tears down its hooks and widgets first.
		if a.Kind() != KindWidget {
			if err := teardown(a, ps, index); err != nil {
				return err
			}
		}
		ps.push(index, Patch{Kind: PatchRemove, Old: a})
		return nil
	}

	var apply []Patch
	clearOld := false

	switch b.Kind() {
	case KindElement:
		bn, ok := b.(*Element)
		if !ok {
			return unknownKind(b, index)
		}
		an, ok := a.(*Element)
		if ok && an.tag == bn.tag && an.namespace == bn.namespace && an.key == bn.key {
			if props := DiffProps(an.props, bn.props); props != nil {
				apply = append(apply, Patch{Kind: PatchProps, Old: a, New: b, Props: props})
			}
			var err error
			apply, err = diffChildren(an, bn, ps, apply, index)
			if err != nil {
				return err
			}
		} else {
			apply = append(apply, Patch{Kind: PatchReplace, Old: a, New: b})
			clearOld = true
		}

	case KindText:
		bt, ok := b.(*VText)
		if !ok {
			return unknownKind(b, index)
		}
		if at, ok := a.(*VText); !ok {
			apply = append(apply, Patch{Kind: PatchReplace, Old: a, New: b})
			clearOld = true
		} else if at.text != bt.text {
			apply = append(apply, Patch{Kind: PatchText, Old: a, New: b})
		}

	case KindWidget:
		if _, ok := b.(Widget); !ok {
			return unknownKind(b, index)
		}
		if isNilNode(a) || a.Kind() != KindWidget {
			clearOld = true
		}
		apply = append(apply, Patch{Kind: PatchWidget, Old: a, New: b})

	default:
		return unknownKind(b, index)
	}

	ps.push(index, apply...)

	if clearOld {
		return teardown(a, ps, index)
	}
	return nil
}

// diffChildren walks the children of two matching elements. Inserts and
// the reorder patch are appended to the parent's patch list; the reorder
// goes last so it sees every inserted node.
func diffChildren(a, b *Element, ps *PatchSet, apply []Patch, index int) ([]Patch, error) {
	aChildren := a.children
	ordered, moves := Reorder(aChildren, b.children)

	n := max(len(aChildren), len(ordered))
	for i := 0; i < n; i++ {
		var left, right VNode
		if i < len(aChildren) {
			left = aChildren[i]
		}
		if i < len(ordered) {
			right = ordered[i]
		}
		index++

		if left == nil {
			if right != nil {
				apply = append(apply, Patch{Kind: PatchInsert, New: right})
			}
		} else if err := walk(left, right, ps, index); err != nil {
			return nil, err
		}

		if el, ok := left.(*Element); ok {
			index += el.count
		}
	}

	if moves != nil {
		apply = append(apply, Patch{Kind: PatchReorder, Old: a, New: b, Moves: moves})
	}
	return apply, nil
}

// teardown records the patches that release v's subtree: an unhook props
// patch for every element with hooks, a remove for every widget, and a
// nested teardown for every thunk. Subtrees without any of these are
// skipped using the derived flags.
func teardown(v VNode, ps *PatchSet, index int) error {
	if isNilNode(v) {
		return nil
	}
	switch v.Kind() {
	case KindElement:
		el, ok := v.(*Element)
		if !ok {
			return unknownKind(v, index)
		}
		if len(el.hooks) > 0 {
			ps.push(index, Patch{Kind: PatchProps, Old: el, Props: unhookProps(el.hooks)})
		}
		if !el.descendantHooks && !el.hasWidgets && !el.hasThunks {
			return nil
		}
		for _, child := range el.children {
			index++
			if err := teardown(child, ps, index); err != nil {
				return err
			}
			if c, ok := child.(*Element); ok {
				index += c.count
			}
		}
	case KindWidget:
		ps.push(index, Patch{Kind: PatchRemove, Old: v})
	case KindThunk:
		return thunks(v, nil, ps, index)
	}
	return nil
}

// thunks resolves lazy sides and records their diff as a nested patch set.
func thunks(a, b VNode, ps *PatchSet, index int) error {
	ra, rb, err := resolveThunks(a, b)
	if err != nil {
		return withIndex(err, index)
	}
	nested, err := Diff(ra, rb)
	if err != nil {
		return withIndex(err, index)
	}
	if !nested.Empty() {
		ps.push(index, Patch{Kind: PatchThunk, Old: a, New: b, Nested: nested})
	}
	return nil
}

func unhookProps(hooks map[string]Hook) PropsDiff {
	diff := make(PropsDiff, len(hooks))
	for name := range hooks {
		diff[name] = Removed
	}
	return diff
}

func isThunk(v VNode) bool {
	_, ok := v.(*Thunk)
	return ok
}

func unknownKind(v VNode, index int) error {
	return errors.New(errors.CodeUnknownNodeKind).
		WithIndex(index).
		WithDetail(fmt.Sprintf("%T reports kind %s", v, v.Kind()))
}

// withIndex tags an unindexed coded error with index.
func withIndex(err error, index int) error {
	if e, ok := err.(*errors.Error); ok && e.Index == errors.NoIndex {
		e.Index = index
	}
	return err
}
