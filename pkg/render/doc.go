// Package render serializes host trees to HTML.
//
// The renderer walks a live tree built by package dom and writes HTML5:
//
//   - Elements with sorted attributes, so equal trees serialize equally
//   - Text and attribute escaping
//   - Void elements (input, br, img, etc.) without closing tags
//   - Boolean attributes (disabled, checked, etc.) without values
//   - Nested mappings such as style as "key: value" declarations
//   - Childless SVG and MathML elements written as <tag/>
//
// Hook-valued properties are lifecycle state and never serialized.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(root)
//
// Comparing the serialization of two host trees is how the tests and the
// CLI check that a patched tree matches a freshly rendered one.
package render
