// Package errors provides structured, coded errors for vpatch.
//
// Every failure the diff and patch engine can report carries a registered
// code that maps to a category, a short message and a longer explanation:
//
//   - diff: a tree snapshot could not be compared (bad lazy node resolution)
//   - patch: a patch could not be replayed on the host tree
//   - snapshot: a snapshot file could not be decoded
//   - config: the configuration file is invalid
//
// # Usage
//
//	err := errors.New("E100").
//	    WithIndex(7).
//	    WithDetail("lazy node returned <nil>")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E100: Lazy node resolved to an invalid node
//	//
//	//   at index 7
//	//
//	//   lazy node returned <nil>
//
// Errors compare by code under errors.Is, so callers can match on a fresh
// template:
//
//	if stderrors.Is(err, errors.New(errors.CodeTargetMismatch)) { ... }
package errors
