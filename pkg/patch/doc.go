// Package patch applies vdom patch sets to live host trees.
//
// MapIndices pairs the indices of a patch set with host nodes by walking
// the original virtual tree alongside the host tree. Apply looks up each
// patched node and runs its patches in order, in ascending index order,
// using a Renderer for new nodes and a PropertyApplier for property
// changes.
//
//	ps, err := vdom.Diff(prev, next)
//	...
//	root, err = patch.Apply(root, ps, patch.Options{})
//
// Apply returns the new root. It differs from the old one when the root
// node itself was replaced, and is nil when the root was removed.
package patch
