package dom

import (
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Renderer builds host trees from virtual nodes.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds the host tree for v, including all descendants. Widgets are
// created with Init and thunks are resolved.
func (r *Renderer) Render(v vdom.VNode) (host.Node, error) {
	if v == nil {
		return nil, errors.New(errors.CodeRenderFailed).WithDetail("cannot render <nil>")
	}

	switch v.Kind() {
	case vdom.KindElement:
		el, ok := v.(*vdom.Element)
		if !ok {
			break
		}
		return r.renderElement(el)

	case vdom.KindText:
		t, ok := v.(*vdom.VText)
		if !ok {
			break
		}
		return NewText(t.Text()), nil

	case vdom.KindWidget:
		w, ok := v.(vdom.Widget)
		if !ok {
			break
		}
		node, err := w.Init()
		if err != nil {
			return nil, errors.New(errors.CodeWidgetFailed).
				WithDetailf("init %q", w.WidgetName()).
				Wrap(err)
		}
		if node == nil {
			return nil, errors.New(errors.CodeWidgetFailed).
				WithDetailf("widget %q created no host node", w.WidgetName())
		}
		return node, nil

	case vdom.KindThunk:
		th, ok := v.(*vdom.Thunk)
		if !ok {
			break
		}
		resolved, err := th.Resolve(nil)
		if err != nil {
			return nil, err
		}
		return r.Render(resolved)
	}

	return nil, errors.New(errors.CodeUnknownNodeKind).
		WithDetailf("%T reports kind %s", v, v.Kind())
}

func (r *Renderer) renderElement(v *vdom.Element) (host.Node, error) {
	el := NewElementNS(v.Namespace(), v.Tag())
	if err := ApplyProps(el, vdom.PropsDiff(v.Props()), nil); err != nil {
		return nil, err
	}
	for _, child := range v.Children() {
		node, err := r.Render(child)
		if err != nil {
			return nil, err
		}
		el.AppendChild(node)
	}
	return el, nil
}

// ApplyProps applies a property change map to node. It lets a Renderer
// serve as the patch engine's property applier.
func (r *Renderer) ApplyProps(node host.Node, changes vdom.PropsDiff, previous vdom.Props) error {
	return ApplyProps(node, changes, previous)
}
