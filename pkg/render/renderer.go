package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer serializes host trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a host tree to an HTML string.
func (r *Renderer) RenderToString(node host.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a host tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node host.Node) error {
	return r.renderNode(w, node, 0)
}

// RenderVNode builds a host tree for v and renders it.
func (r *Renderer) RenderVNode(v vdom.VNode) (string, error) {
	node, err := dom.NewRenderer().Render(v)
	if err != nil {
		return "", err
	}
	return r.RenderToString(node)
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, node host.Node, depth int) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *dom.Element:
		return r.renderElement(w, n, depth)
	case *dom.Text:
		_, err := io.WriteString(w, escapeHTML(n.Data()))
		return err
	default:
		return errors.New(errors.CodeRenderFailed).
			WithDetailf("cannot serialize host node %T", node)
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, el *dom.Element, depth int) error {
	tag := el.TagName()

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, el); err != nil {
		return err
	}

	if isVoid(el) || isSelfClosing(el) {
		end := ">"
		if isSelfClosing(el) {
			end = "/>"
		}
		if _, err := io.WriteString(w, end); err != nil {
			return err
		}
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	children := el.ChildNodes()
	hasBlockChildren := len(children) > 0 && !isInlineElement(tag) && !onlyText(children)
	if r.config.Pretty && hasBlockChildren {
		w.Write([]byte{'\n'})
	}

	for _, child := range children {
		if err := r.renderNode(w, child, depth+1); err != nil {
			return err
		}
	}

	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
	return nil
}

// renderAttributes renders all attributes for an element.
func (r *Renderer) renderAttributes(w io.Writer, el *dom.Element) error {
	props := el.Props()
	// Sort keys for deterministic output
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := props[key]

		// Hooks are lifecycle state, not markup
		if _, ok := value.(vdom.Hook); ok {
			continue
		}

		name := key
		switch key {
		case "className":
			name = "class"
		case "htmlFor":
			name = "for"
		case "key":
			continue
		}

		if isBooleanAttr(el, name) {
			if b, ok := value.(bool); ok {
				if b {
					if _, err := fmt.Fprintf(w, " %s", name); err != nil {
						return err
					}
				}
				continue
			}
		}

		strValue := attrToString(value)
		if strValue == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(strValue)); err != nil {
			return err
		}
	}
	return nil
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case map[string]any:
		return declarations(v)
	case vdom.Props:
		return declarations(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// declarations renders a nested mapping as "key: value" pairs in key order.
func declarations(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		v := attrToString(m[key])
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", key, v)
	}
	return b.String()
}

func onlyText(children []host.Node) bool {
	for _, c := range children {
		if _, ok := c.(*dom.Text); !ok {
			return false
		}
	}
	return true
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
