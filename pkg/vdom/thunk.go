package vdom

import (
	"fmt"

	"github.com/vango-dev/vpatch/internal/errors"
)

// Thunk is a lazy node. Its render function runs at most once; the result
// is cached on the thunk and reused by later diffs and by the renderer.
//
// Thunks are not safe for concurrent resolution.
type Thunk struct {
	key      string
	args     []any
	render   func(previous VNode) VNode
	resolved VNode
}

// Lazy creates a thunk. render receives the node the thunk is compared
// against, which is nil on first render.
func Lazy(render func(previous VNode) VNode) *Thunk {
	return &Thunk{render: render}
}

// Memo creates a thunk that reuses the previous thunk's resolved tree when
// the previous side is a Memo thunk with equal args. Reusing the tree keeps
// the identity short-circuit in Diff, so an unchanged memo costs nothing.
func Memo(args []any, render func() VNode) *Thunk {
	t := &Thunk{args: args}
	t.render = func(previous VNode) VNode {
		if p, ok := previous.(*Thunk); ok && p.args != nil && p.resolved != nil && argsEqual(p.args, t.args) {
			return p.resolved
		}
		return render()
	}
	return t
}

// WithKey sets the reconciliation key and returns the thunk.
func (t *Thunk) WithKey(key string) *Thunk {
	t.key = key
	return t
}

// Kind implements VNode.
func (t *Thunk) Kind() Kind { return KindThunk }

// Key returns the reconciliation key.
func (t *Thunk) Key() string { return t.key }

// Resolved returns the cached result, or nil before the first Resolve.
func (t *Thunk) Resolved() VNode { return t.resolved }

// Resolve renders the thunk once and caches the result. The result must be
// an element, a text node or a widget.
func (t *Thunk) Resolve(previous VNode) (VNode, error) {
	if t.resolved != nil {
		return t.resolved, nil
	}
	if t.render == nil {
		return nil, errors.New(errors.CodeInvalidLazyNode).WithDetail("thunk has no render function")
	}

	out := t.render(previous)
	if isNilNode(out) {
		return nil, errors.New(errors.CodeInvalidLazyNode).WithDetail("thunk rendered <nil>")
	}
	switch out.Kind() {
	case KindElement, KindText:
	case KindWidget:
		if _, ok := out.(Widget); !ok {
			return nil, errors.New(errors.CodeInvalidLazyNode).WithDetailf("%T reports KindWidget but is not a Widget", out)
		}
	default:
		return nil, errors.New(errors.CodeInvalidLazyNode).WithDetailf("thunk rendered %s (%T)", out.Kind(), out)
	}

	t.resolved = out
	return out, nil
}

// resolveThunks resolves whichever sides are thunks. a is resolved first so
// that b's render function sees a resolved previous thunk.
func resolveThunks(a, b VNode) (VNode, VNode, error) {
	ra, rb := a, b
	if ta, ok := a.(*Thunk); ok {
		r, err := ta.Resolve(nil)
		if err != nil {
			return nil, nil, err
		}
		ra = r
	}
	if tb, ok := b.(*Thunk); ok {
		r, err := tb.Resolve(a)
		if err != nil {
			return nil, nil, err
		}
		rb = r
	}
	return ra, rb, nil
}

func argsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !propsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (t *Thunk) String() string {
	if t.resolved == nil {
		return "Thunk(unresolved)"
	}
	return fmt.Sprintf("Thunk(%s)", t.resolved.Kind())
}
