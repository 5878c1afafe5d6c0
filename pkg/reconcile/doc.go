// Package reconcile keeps a live host tree in step with a sequence of
// virtual trees.
//
// A Reconciler owns one host tree. Mount renders the first virtual tree;
// every Update diffs the current tree against the next one, applies the
// patches and tracks the root when it is replaced:
//
//	rec := reconcile.New(reconcile.WithLogger(logger))
//	root, err := rec.Mount(ctx, view(state))
//	...
//	res, err := rec.Update(ctx, view(state))
//	if res.RootReplaced {
//	    attach(res.Root)
//	}
//
// Each Update is traced as the spans vpatch.diff and vpatch.apply and, when
// metrics are configured, counted in Prometheus. Updates on one Reconciler
// are serialized.
package reconcile
