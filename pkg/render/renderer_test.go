package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func renderVNode(t *testing.T, config RendererConfig, v vdom.VNode) string {
	t.Helper()
	html, err := NewRenderer(config).RenderVNode(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return html
}

func TestRenderText(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Text("Hello, World!"))
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Text("<script>alert('xss')</script>"))

	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Div(vdom.Class("container"),
		vdom.H1(vdom.Text("Title")),
		vdom.P(vdom.Text("Content")),
	))

	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderVoidElements(t *testing.T) {
	tests := []struct {
		name string
		node vdom.VNode
		want string
	}{
		{"input", vdom.Input(vdom.Type("text"), vdom.Name("email")), `<input name="email" type="text">`},
		{"br", vdom.Br(), `<br>`},
		{"img", vdom.Img(vdom.Src("/image.png"), vdom.Alt("test")), `<img alt="test" src="/image.png">`},
		{"hr", vdom.Hr(), `<hr>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderVNode(t, RendererConfig{}, tt.node)
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderBooleanAttributes(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Input(
		vdom.Type("checkbox"),
		vdom.Checked(true),
		vdom.Disabled(false),
	))

	if html != `<input checked type="checkbox">` {
		t.Errorf("got %q", html)
	}
}

func TestRenderStyleMapping(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Div(vdom.Styles(vdom.Props{
		"color":  "red",
		"margin": 0,
	})))

	if html != `<div style="color: red; margin: 0;"></div>` {
		t.Errorf("got %q", html)
	}
}

func TestRenderForeignElements(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Svg(
		vdom.Prop("viewBox", "0 0 10 10"),
		vdom.Circle(vdom.Prop("r", 4), vdom.Prop("hidden", true)),
		vdom.Path(vdom.Prop("d", "M0 0"), vdom.Text("x")),
	))

	want := `<svg viewBox="0 0 10 10"><circle hidden="true" r="4"/><path d="M0 0">x</path></svg>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

type noopHook struct{}

func (noopHook) Hook(host.Node, string, any)   {}
func (noopHook) Unhook(host.Node, string, any) {}

func TestRenderSkipsHooks(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Input(vdom.HookAttr("focus", noopHook{})))
	if html != "<input>" {
		t.Errorf("got %q, want <input>", html)
	}
}

func TestRenderPretty(t *testing.T) {
	html := renderVNode(t, RendererConfig{Pretty: true}, vdom.Div(
		vdom.H1(vdom.Text("Title")),
		vdom.P(vdom.Text("Content")),
	))

	want := "<div>\n  <h1>Title</h1>\n  <p>Content</p>\n</div>\n"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderNilNode(t *testing.T) {
	html, err := NewRenderer(RendererConfig{}).RenderToString(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "" {
		t.Errorf("nil node should produce empty string, got %q", html)
	}
}

type foreignNode struct{ host.Node }

func TestRenderForeignNode(t *testing.T) {
	_, err := NewRenderer(RendererConfig{}).RenderToString(foreignNode{})
	if errors.CodeOf(err) != errors.CodeRenderFailed {
		t.Errorf("err = %v, want %s", err, errors.CodeRenderFailed)
	}
}

func TestRenderToWriter(t *testing.T) {
	root := dom.NewElement("p")
	root.AppendChild(dom.NewText("a & b"))

	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderToWriter(&buf, root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "<p>a &amp; b</p>" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Div(vdom.Prop("title", `say "hi"`)))
	if html != `<div title="say &quot;hi&quot;"></div>` {
		t.Errorf("got %q", html)
	}
}

func TestRenderDataAttributes(t *testing.T) {
	html := renderVNode(t, RendererConfig{}, vdom.Div(vdom.Data("id", "7"), vdom.Data("role", "x")))
	if html != `<div data-id="7" data-role="x"></div>` {
		t.Errorf("got %q", html)
	}
}
