package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Format is a snapshot encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the format from a file extension. Anything other than
// .json is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Node is the serialized form of a tree node.
type Node struct {
	Tag       string         `json:"tag,omitempty" yaml:"tag,omitempty"`
	Text      *string        `json:"text,omitempty" yaml:"text,omitempty"`
	Key       string         `json:"key,omitempty" yaml:"key,omitempty"`
	Namespace string         `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Props     map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	Children  []*Node        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Decode parses a snapshot document.
func Decode(data []byte, format Format) (*Node, error) {
	var n Node
	var err error
	if format == FormatJSON {
		err = json.Unmarshal(data, &n)
	} else {
		err = yaml.Unmarshal(data, &n)
	}
	if err != nil {
		return nil, errors.New(errors.CodeBadSnapshot).Wrap(err)
	}
	return &n, nil
}

// ReadFile decodes the snapshot at path, picking the format from its
// extension.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeBadSnapshot).
			WithDetail("Cannot read " + path).
			Wrap(err)
	}
	n, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, errors.FromError(err, errors.CodeBadSnapshot).WithDetail(path)
	}
	return n, nil
}

// Load reads and builds the tree at path.
func Load(path string) (vdom.VNode, error) {
	n, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return n.Build()
}

// Encode serializes n.
func Encode(n *Node, format Format) ([]byte, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(n, "", "  ")
		if err != nil {
			return nil, errors.New(errors.CodeBadSnapshot).Wrap(err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(n)
	if err != nil {
		return nil, errors.New(errors.CodeBadSnapshot).Wrap(err)
	}
	return data, nil
}

// Build converts the snapshot into a tree.
func (n *Node) Build() (vdom.VNode, error) {
	return n.build("root")
}

func (n *Node) build(path string) (vdom.VNode, error) {
	if n == nil {
		return nil, invalid(path, "empty node")
	}
	switch {
	case n.Tag != "" && n.Text != nil:
		return nil, invalid(path, "node has both tag and text")
	case n.Text != nil:
		if len(n.Children) > 0 || len(n.Props) > 0 {
			return nil, invalid(path, "text node cannot have props or children")
		}
		return vdom.Text(*n.Text), nil
	case n.Tag == "":
		return nil, invalid(path, "node needs a tag or text")
	}

	children := make([]vdom.VNode, 0, len(n.Children))
	for i, c := range n.Children {
		child, err := c.build(fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	props := make(vdom.Props, len(n.Props))
	for name, value := range n.Props {
		props[name] = normalize(value)
	}
	return vdom.NewElement(n.Tag, props, children, n.Key, n.Namespace), nil
}

func invalid(path, msg string) *errors.Error {
	return errors.New(errors.CodeBadSnapshot).WithDetailf("%s: %s", path, msg)
}

// normalize maps decoded values onto the types the differ compares
// directly: integers become int and mappings become vdom.Props.
func normalize(v any) any {
	switch x := v.(type) {
	case uint64:
		if x <= math.MaxInt64 {
			return int(x)
		}
	case int64:
		return int(x)
	case map[string]any:
		m := make(vdom.Props, len(x))
		for k, val := range x {
			m[k] = normalize(val)
		}
		return m
	case map[any]any:
		m := make(vdom.Props, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}

// FromVNode converts a tree into its serialized form. Thunks are written
// as their resolved tree; widgets cannot be serialized.
func FromVNode(v vdom.VNode) (*Node, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case *vdom.VText:
		text := n.Text()
		return &Node{Text: &text}, nil
	case *vdom.Element:
		out := &Node{
			Tag:       n.Tag(),
			Key:       n.Key(),
			Namespace: n.Namespace(),
		}
		for name, value := range n.Props() {
			if _, ok := value.(vdom.Hook); ok {
				continue
			}
			if out.Props == nil {
				out.Props = make(map[string]any)
			}
			out.Props[name] = value
		}
		for _, child := range n.Children() {
			c, err := FromVNode(child)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, c)
		}
		return out, nil
	case *vdom.Thunk:
		resolved, err := n.Resolve(nil)
		if err != nil {
			return nil, err
		}
		return FromVNode(resolved)
	}
	return nil, errors.New(errors.CodeBadSnapshot).
		WithDetailf("cannot serialize %s node", v.Kind())
}
