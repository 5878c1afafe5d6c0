package dom

import (
	"maps"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// ApplyProps applies a property change map to a live element. previous
// holds the element's properties before the change; it decides which hook
// is released when a hook-valued property is replaced or removed. When
// previous lacks a key, the live value is used instead.
//
// Hook values are attached with Hook(node, name, previous) and released
// with Unhook(node, name, next) exactly once. A nested vdom.PropsDiff is
// merged into the current nested mapping key by key.
func ApplyProps(node host.Node, changes vdom.PropsDiff, previous vdom.Props) error {
	el, ok := node.(*Element)
	if !ok {
		return errors.New(errors.CodeTargetMismatch).
			WithDetailf("properties applied to %T", node)
	}

	for name, value := range changes {
		old, had := previous[name]
		if !had {
			old, had = el.props[name]
		}

		if h, ok := old.(vdom.Hook); ok && had {
			var next any
			if !vdom.IsRemoved(value) {
				next = value
			}
			h.Unhook(el, name, next)
		}

		switch v := value.(type) {
		case vdom.PropsDiff:
			el.props[name] = mergeMapping(el.props[name], v)
		case vdom.Hook:
			el.props[name] = v
			v.Hook(el, name, old)
		default:
			if vdom.IsRemoved(value) {
				delete(el.props, name)
				continue
			}
			el.props[name] = cloneValue(value)
		}
	}
	return nil
}

// mergeMapping applies a nested change map to a copy of current.
func mergeMapping(current any, changes vdom.PropsDiff) map[string]any {
	merged := make(map[string]any)
	if m, ok := asMap(current); ok {
		maps.Copy(merged, m)
	}
	for key, value := range changes {
		switch v := value.(type) {
		case vdom.PropsDiff:
			merged[key] = mergeMapping(merged[key], v)
		default:
			if vdom.IsRemoved(value) {
				delete(merged, key)
				continue
			}
			merged[key] = cloneValue(value)
		}
	}
	return merged
}

// cloneValue copies plain mappings so that the live tree never aliases a
// virtual node's props.
func cloneValue(v any) any {
	m, ok := asMap(v)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = cloneValue(value)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	if _, ok := v.(vdom.Hook); ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case vdom.Props:
		return m, true
	}
	return nil, false
}
