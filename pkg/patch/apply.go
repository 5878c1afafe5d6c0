package patch

import (
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Renderer builds a host tree for a virtual node, including all of its
// descendants.
type Renderer interface {
	Render(v vdom.VNode) (host.Node, error)
}

// PropertyApplier applies a property change map to a live element.
// previous holds the element's virtual properties before the change.
type PropertyApplier interface {
	ApplyProps(node host.Node, changes vdom.PropsDiff, previous vdom.Props) error
}

// Options holds the collaborators used by Apply. A nil field defaults to
// the in-memory implementation in package dom.
type Options struct {
	Renderer Renderer
	Props    PropertyApplier
}

func (o Options) withDefaults() Options {
	if o.Renderer == nil || o.Props == nil {
		r := dom.NewRenderer()
		if o.Renderer == nil {
			o.Renderer = r
		}
		if o.Props == nil {
			o.Props = r
		}
	}
	return o
}

// Apply applies ps to the host tree rooted at root, which must have been
// built from ps.A. It returns the root after patching.
//
// Apply stops at the first failing patch and returns the root as it stood
// at that point together with the error. The host tree may then be
// partially patched; callers should discard it.
func Apply(root host.Node, ps *vdom.PatchSet, opts Options) (host.Node, error) {
	if ps.Empty() {
		return root, nil
	}
	opts = opts.withDefaults()

	indices := ps.Indices()
	nodes := MapIndices(root, ps.A, indices)

	for _, index := range indices {
		node, ok := nodes[index]
		if !ok {
			return root, errors.New(errors.CodeTargetMismatch).
				WithIndex(index).
				WithDetail("no host node at this index")
		}
		for _, p := range ps.Get(index) {
			next, err := applyPatch(node, p, opts)
			if err != nil {
				return root, withIndex(err, index)
			}
			if node == root {
				root = next
			}
		}
	}
	return root, nil
}

// applyPatch applies one patch to node and returns the node that now stands
// in its place, or nil when it was removed.
func applyPatch(node host.Node, p vdom.Patch, opts Options) (host.Node, error) {
	switch p.Kind {
	case vdom.PatchRemove:
		if parent := node.Parent(); parent != nil {
			parent.RemoveChild(node)
		}
		destroyWidget(node, p.Old)
		return nil, nil

	case vdom.PatchInsert:
		child, err := renderVNode(opts, p.New)
		if err != nil {
			return nil, err
		}
		node.AppendChild(child)
		return node, nil

	case vdom.PatchText:
		t, ok := p.New.(*vdom.VText)
		if !ok {
			return nil, mismatch("text patch carries %T", p.New)
		}
		if h, ok := node.(host.Text); ok {
			h.SetData(t.Text())
			return node, nil
		}
		return replaceNode(node, p.New, opts)

	case vdom.PatchProps:
		if _, ok := node.(host.Element); !ok {
			return nil, mismatch("properties patch targets %T", node)
		}
		var previous vdom.Props
		if el, ok := p.Old.(*vdom.Element); ok {
			previous = el.Props()
		}
		if err := opts.Props.ApplyProps(node, p.Props, previous); err != nil {
			return nil, errors.FromError(err, errors.CodeTargetMismatch)
		}
		return node, nil

	case vdom.PatchReorder:
		if _, ok := node.(host.Element); !ok {
			return nil, mismatch("reorder patch targets %T", node)
		}
		if err := reorderChildren(node, p.Moves); err != nil {
			return nil, err
		}
		return node, nil

	case vdom.PatchReplace:
		return replaceNode(node, p.New, opts)

	case vdom.PatchWidget:
		return patchWidget(node, p, opts)

	case vdom.PatchThunk:
		next, err := Apply(node, p.Nested, opts)
		if err != nil {
			return nil, err
		}
		if next != nil && next != node {
			if parent := node.Parent(); parent != nil {
				parent.ReplaceChild(next, node)
			}
		}
		return next, nil
	}

	return nil, mismatch("unknown patch kind %d", p.Kind)
}

// replaceNode puts the rendering of v in node's place.
func replaceNode(node host.Node, v vdom.VNode, opts Options) (host.Node, error) {
	next, err := renderVNode(opts, v)
	if err != nil {
		return nil, err
	}
	if parent := node.Parent(); parent != nil && next != node {
		parent.ReplaceChild(next, node)
	}
	return next, nil
}

// patchWidget updates node in place when the new widget is the same kind
// as the old one, and otherwise renders the new widget and destroys the
// old one.
func patchWidget(node host.Node, p vdom.Patch, opts Options) (host.Node, error) {
	updating := vdom.SameWidget(p.Old, p.New)

	var next host.Node
	if updating {
		w := p.New.(vdom.Widget)
		n, err := w.Update(p.Old.(vdom.Widget), node)
		if err != nil {
			return nil, errors.New(errors.CodeWidgetFailed).
				WithDetailf("update %q", w.WidgetName()).
				Wrap(err)
		}
		next = n
		if next == nil {
			next = node
		}
	} else {
		n, err := renderVNode(opts, p.New)
		if err != nil {
			return nil, err
		}
		next = n
	}

	if parent := node.Parent(); parent != nil && next != node {
		parent.ReplaceChild(next, node)
	}
	if !updating {
		destroyWidget(node, p.Old)
	}
	return next, nil
}

// reorderChildren removes the listed children, remembering keyed ones, and
// reinserts them at their targets. Positions shift as the list changes.
func reorderChildren(node host.Node, moves *vdom.Moves) error {
	if moves == nil {
		return nil
	}

	keyed := make(map[string]host.Node)
	for _, rm := range moves.Removes {
		children := node.ChildNodes()
		if rm.From < 0 || rm.From >= len(children) {
			return mismatch("reorder removes child %d of %d", rm.From, len(children))
		}
		child := children[rm.From]
		if rm.Key != "" {
			keyed[rm.Key] = child
		}
		node.RemoveChild(child)
	}

	length := len(node.ChildNodes())
	for _, ins := range moves.Inserts {
		child, ok := keyed[ins.Key]
		if !ok {
			return mismatch("reorder inserts unknown key %q", ins.Key)
		}
		var ref host.Node
		if ins.To < length {
			ref = node.ChildNodes()[ins.To]
		}
		length++
		node.InsertBefore(child, ref)
	}
	return nil
}

func destroyWidget(node host.Node, v vdom.VNode) {
	if w, ok := v.(vdom.Widget); ok {
		w.Destroy(node)
	}
}

func renderVNode(opts Options, v vdom.VNode) (host.Node, error) {
	node, err := opts.Renderer.Render(v)
	if err != nil {
		return nil, errors.FromError(err, errors.CodeRenderFailed)
	}
	if node == nil {
		return nil, errors.New(errors.CodeRenderFailed).
			WithDetailf("renderer returned no node for %s", v.Kind())
	}
	return node, nil
}

func mismatch(format string, args ...any) *errors.Error {
	return errors.New(errors.CodeTargetMismatch).WithDetailf(format, args...)
}

// withIndex tags an unindexed coded error with index.
func withIndex(err error, index int) error {
	if e, ok := err.(*errors.Error); ok && e.Index == errors.NoIndex {
		e.Index = index
	}
	return err
}
