package vdom

import (
	"errors"
	"testing"

	"github.com/vango-dev/vpatch/pkg/host"
)

// countingHook records Hook/Unhook calls.
type countingHook struct {
	hooked   int
	unhooked int
}

func (h *countingHook) Hook(host.Node, string, any)   { h.hooked++ }
func (h *countingHook) Unhook(host.Node, string, any) { h.unhooked++ }

func testWidget(name string) *FuncWidget {
	return &FuncWidget{Name: name}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindWidget, "Widget"},
		{KindThunk, "Thunk"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSubtreeSize(t *testing.T) {
	tests := []struct {
		name string
		node *Element
		want int
	}{
		{"empty", Div(), 0},
		{"one text", Div("a"), 1},
		{"flat", Ul(Li(), Li(), Li()), 3},
		{"nested", Div(P("a", Span("b")), "c"), 5},
		{"widget leaf", Div(testWidget("w")), 1},
		{"thunk leaf", Div(Lazy(func(VNode) VNode { return Div(Span()) })), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.SubtreeSize(); got != tt.want {
				t.Errorf("SubtreeSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSubtreeSizeInvariant(t *testing.T) {
	tree := Div(
		Header(H1("title")),
		Ul(Li(Key(1), "one"), Li(Key(2), "two", Em("!"))),
		testWidget("w"),
		"tail",
	)

	var check func(el *Element)
	check = func(el *Element) {
		want := len(el.Children())
		for _, c := range el.Children() {
			if ce, ok := c.(*Element); ok {
				want += ce.SubtreeSize()
				check(ce)
			}
		}
		if el.SubtreeSize() != want {
			t.Errorf("<%s> SubtreeSize() = %d, want %d", el.Tag(), el.SubtreeSize(), want)
		}
	}
	check(tree)
}

func TestDerivedFlags(t *testing.T) {
	h := &countingHook{}

	t.Run("hooks", func(t *testing.T) {
		el := Div(HookAttr("focus", h), Class("x"))
		if len(el.Hooks()) != 1 || el.Hooks()["focus"] != h {
			t.Errorf("Hooks() = %v, want focus hook only", el.Hooks())
		}
		if el.HasDescendantHooks() {
			t.Error("own hooks must not set HasDescendantHooks")
		}

		parent := Section(Div(el))
		if !parent.HasDescendantHooks() {
			t.Error("HasDescendantHooks should propagate from grandchild")
		}
	})

	t.Run("widgets", func(t *testing.T) {
		el := Div(Span(testWidget("w")))
		if !el.HasWidgets() {
			t.Error("HasWidgets should propagate")
		}
		if el.HasThunks() {
			t.Error("HasThunks should be false")
		}
	})

	t.Run("thunks", func(t *testing.T) {
		el := Div(Span(Lazy(func(VNode) VNode { return Text("x") })))
		if !el.HasThunks() {
			t.Error("HasThunks should propagate")
		}
	})
}

func TestNewElementCopiesInputs(t *testing.T) {
	props := Props{"id": "a"}
	children := []VNode{Text("x"), nil, Text("y")}

	el := NewElement("div", props, children, "k", "")
	props["id"] = "changed"
	children[0] = Text("z")

	if el.Props()["id"] != "a" {
		t.Errorf("props not copied: %v", el.Props())
	}
	if len(el.Children()) != 2 {
		t.Fatalf("nil child not dropped: %d children", len(el.Children()))
	}
	if el.Children()[0].(*VText).Text() != "x" {
		t.Error("children not copied")
	}
	if el.Key() != "k" {
		t.Errorf("Key() = %q, want k", el.Key())
	}
}

func TestSameWidget(t *testing.T) {
	type otherWidget struct{ FuncWidget }

	initChart := func() (host.Node, error) { return nil, nil }
	initMap := func() (host.Node, error) { return nil, errors.New("map") }
	unnamed := func(init func() (host.Node, error)) *FuncWidget {
		return &FuncWidget{InitFunc: init}
	}

	tests := []struct {
		name string
		a, b VNode
		want bool
	}{
		{"same name", testWidget("chart"), testWidget("chart"), true},
		{"different name", testWidget("chart"), testWidget("map"), false},
		{"one unnamed", testWidget("chart"), testWidget(""), false},
		{"both unnamed same type", testWidget(""), testWidget(""), true},
		{"both unnamed different type", testWidget(""), &otherWidget{}, false},
		{"not a widget", testWidget("chart"), Div(), false},
		{"unnamed same init", unnamed(initChart), unnamed(initChart), true},
		{"unnamed different init", unnamed(initChart), unnamed(initMap), false},
		{"unnamed init and no init", unnamed(initChart), testWidget(""), false},
		{"named ignores init", &FuncWidget{Name: "chart", InitFunc: initChart},
			&FuncWidget{Name: "chart", InitFunc: initMap}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameWidget(tt.a, tt.b); got != tt.want {
				t.Errorf("SameWidget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentical(t *testing.T) {
	a := Div()
	if !identical(a, a) {
		t.Error("node should be identical to itself")
	}
	if identical(a, Div()) {
		t.Error("distinct nodes should not be identical")
	}
	if !identical(nil, nil) {
		t.Error("nil should be identical to nil")
	}
	if identical(a, nil) {
		t.Error("node should not be identical to nil")
	}
}
