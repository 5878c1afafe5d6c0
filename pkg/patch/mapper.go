package patch

import (
	"slices"
	"sort"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// MapIndices returns the host node at each of indices, numbering tree in
// pre-order exactly as vdom.Diff does. Subtrees that hold no requested
// index are skipped without touching their host nodes.
func MapIndices(root host.Node, tree vdom.VNode, indices []int) map[int]host.Node {
	nodes := make(map[int]host.Node, len(indices))
	if root == nil || len(indices) == 0 {
		return nodes
	}
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	mapNode(root, tree, sorted, nodes, 0)
	return nodes
}

func mapNode(node host.Node, tree vdom.VNode, indices []int, nodes map[int]host.Node, index int) {
	if node == nil {
		return
	}
	if indexInRange(indices, index, index) {
		nodes[index] = node
	}

	el, ok := tree.(*vdom.Element)
	if !ok {
		return
	}
	childNodes := node.ChildNodes()
	for i, child := range el.Children() {
		index++
		last := index
		if c, ok := child.(*vdom.Element); ok {
			last += c.SubtreeSize()
		}
		if i < len(childNodes) && indexInRange(indices, index, last) {
			mapNode(childNodes[i], child, indices, nodes, index)
		}
		index = last
	}
}

// indexInRange reports whether a sorted index list holds a value in
// [left, right].
func indexInRange(indices []int, left, right int) bool {
	i := sort.SearchInts(indices, left)
	return i < len(indices) && indices[i] <= right
}
