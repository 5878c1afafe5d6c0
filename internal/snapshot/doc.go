// Package snapshot reads and writes tree snapshots as YAML or JSON and
// summarizes patch sets in a serializable form.
//
// A snapshot node is either an element or a text node:
//
//	tag: ul
//	props:
//	  class: list
//	children:
//	  - tag: li
//	    key: a
//	    children:
//	      - text: first
//
// Exactly one of tag and text must be set on each node.
package snapshot
