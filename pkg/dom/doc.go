// Package dom is an in-memory host tree for the patch engine.
//
// Element and Text implement the host capabilities from package host. The
// Renderer builds host trees from virtual nodes and applies property change
// maps to live elements, so a single Renderer value serves as both patch
// collaborators:
//
//	r := dom.NewRenderer()
//	root, err := r.Render(view)
//	...
//	root, err = patch.Apply(root, ps, patch.Options{Renderer: r, Props: r})
//
// The tree is not safe for concurrent use.
package dom
