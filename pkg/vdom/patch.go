package vdom

import (
	"fmt"
	"sort"
)

// PatchKind is the type of patch operation.
type PatchKind uint8

const (
	PatchRemove  PatchKind = iota + 1 // Remove node (and destroy it if it is a widget)
	PatchInsert                       // Append a rendered node to the target
	PatchText                         // Update text content
	PatchProps                        // Apply a property change map
	PatchReorder                      // Reorder the target's children
	PatchReplace                      // Replace node entirely
	PatchWidget                       // Update or recreate a widget
	PatchThunk                        // Apply a nested patch set for a thunk
)

// String returns the string representation of the PatchKind.
func (k PatchKind) String() string {
	switch k {
	case PatchRemove:
		return "Remove"
	case PatchInsert:
		return "Insert"
	case PatchText:
		return "Text"
	case PatchProps:
		return "Props"
	case PatchReorder:
		return "Reorder"
	case PatchReplace:
		return "Replace"
	case PatchWidget:
		return "Widget"
	case PatchThunk:
		return "Thunk"
	default:
		return "Unknown"
	}
}

// Patch is a single change addressed to an index of the original tree.
// Which payload fields are set depends on Kind.
type Patch struct {
	Kind PatchKind

	// Old is the node at the patched index in the original tree. Nil for
	// PatchInsert.
	Old VNode

	// New is the replacement, inserted or updated node.
	New VNode

	// Props is the change map of a PatchProps.
	Props PropsDiff

	// Moves is the move-set of a PatchReorder.
	Moves *Moves

	// Nested is the patch set of a PatchThunk, indexed against the
	// thunk's resolved tree.
	Nested *PatchSet
}

// String returns a short description of the patch.
func (p Patch) String() string {
	switch p.Kind {
	case PatchProps:
		return fmt.Sprintf("Props(%d keys)", len(p.Props))
	case PatchReorder:
		if p.Moves == nil {
			return "Reorder"
		}
		return fmt.Sprintf("Reorder(-%d +%d)", len(p.Moves.Removes), len(p.Moves.Inserts))
	case PatchText:
		if t, ok := p.New.(*VText); ok {
			return fmt.Sprintf("Text(%q)", t.text)
		}
	case PatchThunk:
		if p.Nested != nil {
			return fmt.Sprintf("Thunk(%d patches)", p.Nested.Len())
		}
	}
	return p.Kind.String()
}

// MoveRemove removes the child at From. Key is set when the removed node
// is reinserted by a later MoveInsert.
type MoveRemove struct {
	From int
	Key  string
}

// MoveInsert inserts the node removed under Key at position To.
type MoveInsert struct {
	Key string
	To  int
}

// Moves is a remove/insert edit of a child list. Removes are applied first,
// in order, each against the list as left by the previous one; inserts
// follow with the same shifting semantics.
type Moves struct {
	Removes []MoveRemove
	Inserts []MoveInsert
}

// PatchSet maps indices of the original tree A to the patches addressed to
// them. Indices number A in pre-order: the root is 0 and each element's
// descendants follow it.
type PatchSet struct {
	// A is the tree the patches were computed against.
	A VNode

	order   []int
	patches map[int][]Patch
}

func newPatchSet(a VNode) *PatchSet {
	return &PatchSet{
		A:       a,
		patches: make(map[int][]Patch),
	}
}

// push appends patches to index, keeping first-insertion order of indices.
func (ps *PatchSet) push(index int, patches ...Patch) {
	if len(patches) == 0 {
		return
	}
	if _, ok := ps.patches[index]; !ok {
		ps.order = append(ps.order, index)
	}
	ps.patches[index] = append(ps.patches[index], patches...)
}

// Get returns the patches addressed to index, in emission order.
func (ps *PatchSet) Get(index int) []Patch {
	if ps == nil {
		return nil
	}
	return ps.patches[index]
}

// Indices returns the patched indices in ascending order.
func (ps *PatchSet) Indices() []int {
	if ps == nil {
		return nil
	}
	indices := make([]int, len(ps.order))
	copy(indices, ps.order)
	sort.Ints(indices)
	return indices
}

// Each calls fn for every patched index in first-insertion order.
func (ps *PatchSet) Each(fn func(index int, patches []Patch)) {
	if ps == nil {
		return
	}
	for _, index := range ps.order {
		fn(index, ps.patches[index])
	}
}

// Len returns the total number of patches, not counting nested sets.
func (ps *PatchSet) Len() int {
	if ps == nil {
		return 0
	}
	n := 0
	for _, patches := range ps.patches {
		n += len(patches)
	}
	return n
}

// Empty reports whether the set holds no patches.
func (ps *PatchSet) Empty() bool {
	return ps == nil || len(ps.order) == 0
}
