package patch

import (
	stderrors "errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func toHTML(t *testing.T, n host.Node) string {
	t.Helper()
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(n)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	return html
}

func mustRender(t *testing.T, v vdom.VNode) host.Node {
	t.Helper()
	n, err := dom.NewRenderer().Render(v)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return n
}

// patchTo renders a, patches it to b and checks the result against a fresh
// rendering of b.
func patchTo(t *testing.T, a, b vdom.VNode) host.Node {
	t.Helper()
	root := mustRender(t, a)

	ps, err := vdom.Diff(a, b)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	got, err := Apply(root, ps, Options{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if b == nil {
		if got != nil {
			t.Errorf("Apply() = %v, want nil root", got)
		}
		return nil
	}

	if gotHTML, wantHTML := toHTML(t, got), toHTML(t, mustRender(t, b)); gotHTML != wantHTML {
		t.Errorf("patched tree:\n got  %s\n want %s", gotHTML, wantHTML)
	}
	return got
}

func keyedItems(keys string) []vdom.VNode {
	var items []vdom.VNode
	for _, k := range strings.Fields(keys) {
		if strings.HasPrefix(k, "_") {
			items = append(items, vdom.Li(k))
			continue
		}
		items = append(items, vdom.Li(vdom.Key(k), k))
	}
	return items
}

func TestApplyStructuralEquivalence(t *testing.T) {
	tests := []struct {
		name string
		a, b vdom.VNode
	}{
		{"text change", vdom.Div(vdom.Text("a")), vdom.Div(vdom.Text("b"))},
		{"props change", vdom.Div(vdom.Props{"a": "1", "b": "2"}), vdom.Div(vdom.Props{"b": "3", "c": "4"})},
		{"nested style", vdom.Div(vdom.Styles(vdom.Props{"color": "red", "margin": "0"})),
			vdom.Div(vdom.Styles(vdom.Props{"color": "blue"}))},
		{"style added", vdom.Div(), vdom.Div(vdom.Styles(vdom.Props{"color": "red"}))},
		{"append", vdom.Ul(vdom.Li("a")), vdom.Ul(vdom.Li("a"), vdom.Li("b"), vdom.Li("c"))},
		{"truncate", vdom.Ul(vdom.Li("a"), vdom.Li("b"), vdom.Li("c")), vdom.Ul(vdom.Li("a"))},
		{"tag change", vdom.Div(vdom.P("x"), vdom.Span("y")), vdom.Div(vdom.Em("x"), vdom.Span("y"))},
		{"text to element", vdom.Div("x"), vdom.Div(vdom.Strong("x"))},
		{"element to text", vdom.Div(vdom.Strong("x")), vdom.Div("x")},
		{"root replaced", vdom.Div(vdom.P("x")), vdom.Section(vdom.P("x"))},
		{"root text", vdom.Text("a"), vdom.Text("b")},
		{"root text to element", vdom.Text("a"), vdom.P("b")},
		{"keyed swap", vdom.Ul(keyedItems("x y")), vdom.Ul(keyedItems("y x"))},
		{"keyed reverse", vdom.Ul(keyedItems("a b c d e")), vdom.Ul(keyedItems("e d c b a"))},
		{"keyed insert and delete", vdom.Ul(keyedItems("a b c d e")), vdom.Ul(keyedItems("e new1 c a new2"))},
		{"keyed from empty", vdom.Ul(), vdom.Ul(keyedItems("a b"))},
		{"keyed to empty", vdom.Ul(keyedItems("a b")), vdom.Ul()},
		{"mixed keys", vdom.Ul(keyedItems("_p a _q b")), vdom.Ul(keyedItems("b _r a"))},
		{"keys dropped", vdom.Ul(keyedItems("a b")), vdom.Ul(keyedItems("_x _y _z"))},
		{"keys added", vdom.Ul(keyedItems("_x _y")), vdom.Ul(keyedItems("b a"))},
		{"deep", vdom.Div(vdom.Header(vdom.H1("t")), vdom.Ul(keyedItems("a b c")), vdom.Footer("f")),
			vdom.Div(vdom.Header(vdom.H1("T"), vdom.P("sub")), vdom.Ul(keyedItems("c a")), vdom.Footer(vdom.Class("x"), "F"))},
		{"svg namespace", vdom.Div(vdom.El("a")), vdom.Div(vdom.ElNS(vdom.SVGNamespace, "a"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patchTo(t, tt.a, tt.b)
		})
	}
}

func TestApplyKeyedMoveReusesNodes(t *testing.T) {
	a := vdom.Ul(keyedItems("x y z"))
	root := mustRender(t, a)
	before := root.ChildNodes()
	x, z := before[0], before[2]

	ps, err := vdom.Diff(a, vdom.Ul(keyedItems("z y x")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(root, ps, Options{}); err != nil {
		t.Fatal(err)
	}

	after := root.ChildNodes()
	if after[0] != z || after[2] != x {
		t.Error("keyed nodes were recreated instead of moved")
	}
}

func TestApplyRootRemoved(t *testing.T) {
	patchTo(t, vdom.Div(vdom.P("x")), nil)
}

func TestApplyEmptyPatchSet(t *testing.T) {
	a := vdom.Div(vdom.P("x"))
	root := mustRender(t, a)
	ps, _ := vdom.Diff(a, a)

	got, err := Apply(root, ps, Options{})
	if err != nil || got != root {
		t.Errorf("Apply() = %v, %v; want root unchanged", got, err)
	}
}

func TestApplyRandomKeyedLists(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []string{"a", "b", "c", "d", "e", "f", "g", "_u", "_v", "_w"}

	pick := func() string {
		var keys []string
		for _, i := range rng.Perm(len(pool))[:rng.Intn(len(pool)+1)] {
			keys = append(keys, pool[i])
		}
		return strings.Join(keys, " ")
	}

	for i := 0; i < 200; i++ {
		from, to := pick(), pick()
		t.Run(fmt.Sprintf("%q to %q", from, to), func(t *testing.T) {
			patchTo(t, vdom.Div(vdom.Ul(keyedItems(from)), vdom.P("end")),
				vdom.Div(vdom.Ul(keyedItems(to)), vdom.P("end")))
		})
	}
}

func TestApplyThunks(t *testing.T) {
	t.Run("changed", func(t *testing.T) {
		patchTo(t,
			vdom.Div(vdom.Lazy(func(vdom.VNode) vdom.VNode { return vdom.P("a") })),
			vdom.Div(vdom.Lazy(func(vdom.VNode) vdom.VNode { return vdom.P("b") })))
	})

	t.Run("resolved root replaced", func(t *testing.T) {
		patchTo(t,
			vdom.Div(vdom.Lazy(func(vdom.VNode) vdom.VNode { return vdom.P("a") }), vdom.Hr()),
			vdom.Div(vdom.Lazy(func(vdom.VNode) vdom.VNode { return vdom.Span("a") }), vdom.Hr()))
	})

	t.Run("root thunk replaced", func(t *testing.T) {
		patchTo(t,
			vdom.Lazy(func(vdom.VNode) vdom.VNode { return vdom.P("a") }),
			vdom.Lazy(func(vdom.VNode) vdom.VNode { return vdom.Span("a") }))
	})

	t.Run("memo unchanged", func(t *testing.T) {
		view := func() vdom.VNode { return vdom.P("same") }
		patchTo(t,
			vdom.Div(vdom.Memo([]any{1}, view)),
			vdom.Div(vdom.Memo([]any{1}, view)))
	})

	t.Run("thunk removed", func(t *testing.T) {
		patchTo(t,
			vdom.Div(vdom.Lazy(func(vdom.VNode) vdom.VNode { return vdom.P("a") }), vdom.Hr()),
			vdom.Div(vdom.Hr()))
	})
}

func TestApplyErrors(t *testing.T) {
	t.Run("props on text node", func(t *testing.T) {
		ps, _ := vdom.Diff(vdom.Div(vdom.Class("a")), vdom.Div(vdom.Class("b")))
		_, err := Apply(dom.NewText("x"), ps, Options{})
		if errors.CodeOf(err) != errors.CodeTargetMismatch {
			t.Fatalf("err = %v, want %s", err, errors.CodeTargetMismatch)
		}
		if e := err.(*errors.Error); e.Index != 0 {
			t.Errorf("index = %d, want 0", e.Index)
		}
	})

	t.Run("host tree out of shape", func(t *testing.T) {
		ps, _ := vdom.Diff(vdom.Div(vdom.P("a")), vdom.Div(vdom.P("b")))
		_, err := Apply(dom.NewElement("div"), ps, Options{})
		if errors.CodeOf(err) != errors.CodeTargetMismatch {
			t.Errorf("err = %v, want %s", err, errors.CodeTargetMismatch)
		}
	})

	t.Run("renderer fails", func(t *testing.T) {
		boom := stderrors.New("boom")
		a := vdom.Div()
		b := vdom.Div(&vdom.FuncWidget{InitFunc: func() (host.Node, error) { return nil, boom }})
		ps, _ := vdom.Diff(a, b)

		_, err := Apply(mustRender(t, a), ps, Options{})
		if errors.CodeOf(err) != errors.CodeWidgetFailed || !stderrors.Is(err, boom) {
			t.Errorf("err = %v, want %s wrapping boom", err, errors.CodeWidgetFailed)
		}
	})

	t.Run("renderer returns nothing", func(t *testing.T) {
		a := vdom.Div()
		ps, _ := vdom.Diff(a, vdom.Div(vdom.P()))
		_, err := Apply(mustRender(t, a), ps, Options{Renderer: nilRenderer{}})
		if errors.CodeOf(err) != errors.CodeRenderFailed {
			t.Errorf("err = %v, want %s", err, errors.CodeRenderFailed)
		}
	})
}

type nilRenderer struct{}

func (nilRenderer) Render(vdom.VNode) (host.Node, error) { return nil, nil }
