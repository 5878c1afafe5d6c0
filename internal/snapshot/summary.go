package snapshot

import (
	"fmt"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Summary is a serializable view of a patch set.
type Summary struct {
	Patches int            `json:"patches" yaml:"patches"`
	Indices []IndexSummary `json:"indices" yaml:"indices"`
}

// IndexSummary lists the patches addressed to one index.
type IndexSummary struct {
	Index   int            `json:"index" yaml:"index"`
	Patches []PatchSummary `json:"patches" yaml:"patches"`
}

// PatchSummary describes a single patch. Removed properties appear as null.
type PatchSummary struct {
	Kind    string         `json:"kind" yaml:"kind"`
	OldText string         `json:"oldText,omitempty" yaml:"oldText,omitempty"`
	Text    string         `json:"text,omitempty" yaml:"text,omitempty"`
	Props   map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	Node    *Node          `json:"node,omitempty" yaml:"node,omitempty"`
	Removes []MoveSummary  `json:"removes,omitempty" yaml:"removes,omitempty"`
	Inserts []MoveSummary  `json:"inserts,omitempty" yaml:"inserts,omitempty"`
	Nested  *Summary       `json:"nested,omitempty" yaml:"nested,omitempty"`
}

// MoveSummary is one step of a reorder.
type MoveSummary struct {
	Index int    `json:"index" yaml:"index"`
	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
}

// Summarize converts ps. A nil set yields an empty summary.
func Summarize(ps *vdom.PatchSet) *Summary {
	s := &Summary{Patches: ps.Len(), Indices: []IndexSummary{}}
	for _, index := range ps.Indices() {
		entry := IndexSummary{Index: index}
		for _, p := range ps.Get(index) {
			entry.Patches = append(entry.Patches, summarizePatch(p))
		}
		s.Indices = append(s.Indices, entry)
	}
	return s
}

func summarizePatch(p vdom.Patch) PatchSummary {
	out := PatchSummary{Kind: p.Kind.String()}
	switch p.Kind {
	case vdom.PatchText:
		if t, ok := p.Old.(*vdom.VText); ok {
			out.OldText = t.Text()
		}
		if t, ok := p.New.(*vdom.VText); ok {
			out.Text = t.Text()
		}
	case vdom.PatchProps:
		out.Props = summarizeProps(p.Props)
	case vdom.PatchInsert, vdom.PatchReplace:
		// Widgets have no serialized form; the kind alone is reported.
		out.Node, _ = FromVNode(p.New)
	case vdom.PatchReorder:
		if p.Moves != nil {
			for _, r := range p.Moves.Removes {
				out.Removes = append(out.Removes, MoveSummary{Index: r.From, Key: r.Key})
			}
			for _, ins := range p.Moves.Inserts {
				out.Inserts = append(out.Inserts, MoveSummary{Index: ins.To, Key: ins.Key})
			}
		}
	case vdom.PatchThunk:
		if p.Nested != nil {
			out.Nested = Summarize(p.Nested)
		}
	}
	return out
}

func summarizeProps(diff vdom.PropsDiff) map[string]any {
	out := make(map[string]any, len(diff))
	for name, value := range diff {
		switch v := value.(type) {
		case vdom.PropsDiff:
			out[name] = summarizeProps(v)
		case vdom.Hook:
			out[name] = fmt.Sprintf("<hook %T>", v)
		default:
			if vdom.IsRemoved(v) {
				out[name] = nil
			} else {
				out[name] = v
			}
		}
	}
	return out
}
