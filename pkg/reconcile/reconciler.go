package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/patch"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

const defaultTracerName = "vpatch"

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithTracer sets the tracer. Default: the global provider's "vpatch" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Reconciler) {
		r.tracer = tracer
	}
}

// WithRenderer sets the renderer used to build host nodes.
func WithRenderer(renderer patch.Renderer) Option {
	return func(r *Reconciler) {
		r.patchOpts.Renderer = renderer
	}
}

// WithPropertyApplier sets the property applier used for property patches.
func WithPropertyApplier(props patch.PropertyApplier) Option {
	return func(r *Reconciler) {
		r.patchOpts.Props = props
	}
}

// Result describes one update.
type Result struct {
	// Root is the host root after the update.
	Root host.Node

	// RootReplaced is set when the update put a new node at the root,
	// or removed it.
	RootReplaced bool

	// Patches is the number of patches applied, not counting nested sets.
	Patches int

	// Indices is the number of patched indices.
	Indices int

	// PatchSet is the applied patch set.
	PatchSet *vdom.PatchSet
}

// Reconciler owns a host tree and the virtual tree it was built from.
type Reconciler struct {
	mu        sync.Mutex
	tree      vdom.VNode
	root      host.Node
	mounted   bool
	patchOpts patch.Options

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// New creates a Reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(defaultTracerName)
	}
	r.logger = r.logger.With("component", "reconciler")
	return r
}

// Mount renders tree and makes it the current tree, discarding any
// previous one.
func (r *Reconciler) Mount(ctx context.Context, tree vdom.VNode) (host.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mount(ctx, tree)
}

func (r *Reconciler) mount(ctx context.Context, tree vdom.VNode) (host.Node, error) {
	_, span := r.tracer.Start(ctx, "vpatch.mount")
	defer span.End()

	root, err := r.render(tree)
	if err != nil {
		r.fail(span, err, "mount failed")
		return nil, err
	}
	r.tree, r.root, r.mounted = tree, root, true
	span.SetStatus(codes.Ok, "")
	r.logger.Debug("mounted", "kind", tree.Kind().String())
	return root, nil
}

func (r *Reconciler) render(tree vdom.VNode) (host.Node, error) {
	renderer := r.patchOpts.Renderer
	if renderer == nil {
		// same default as patch.Apply
		return dom.NewRenderer().Render(tree)
	}
	return renderer.Render(tree)
}

// Update diffs the current tree against next and patches the host tree.
// An Update before Mount mounts next.
//
// On error the current tree and root are left as they were. If the
// failure happened while applying patches, the host tree may be partially
// patched and should be remounted.
func (r *Reconciler) Update(ctx context.Context, next vdom.VNode) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.mounted {
		root, err := r.mount(ctx, next)
		if err != nil {
			return Result{}, err
		}
		return Result{Root: root, RootReplaced: true}, nil
	}

	ctx, span := r.tracer.Start(ctx, "vpatch.diff")
	start := time.Now()
	ps, err := vdom.Diff(r.tree, next)
	r.metrics.observeDiff(time.Since(start))
	if err != nil {
		r.fail(span, err, "diff failed")
		span.End()
		return Result{}, err
	}
	span.SetAttributes(
		attribute.Int("vpatch.patch_count", ps.Len()),
		attribute.Int("vpatch.index_count", len(ps.Indices())),
	)
	span.SetStatus(codes.Ok, "")
	span.End()

	_, span = r.tracer.Start(ctx, "vpatch.apply")
	defer span.End()

	start = time.Now()
	root, err := patch.Apply(r.root, ps, r.patchOpts)
	if err != nil {
		r.metrics.observeApply(time.Since(start), nil, false)
		r.fail(span, err, "apply failed")
		return Result{}, err
	}

	res := Result{
		Root:         root,
		RootReplaced: root != r.root,
		Patches:      ps.Len(),
		Indices:      len(ps.Indices()),
		PatchSet:     ps,
	}
	r.metrics.observeApply(time.Since(start), ps, res.RootReplaced)
	span.SetAttributes(attribute.Bool("vpatch.root_replaced", res.RootReplaced))
	span.SetStatus(codes.Ok, "")

	r.tree, r.root = next, root
	r.logger.Debug("updated",
		"patches", res.Patches,
		"indices", res.Indices,
		"root_replaced", res.RootReplaced,
	)
	return res, nil
}

func (r *Reconciler) fail(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.metrics.observeError(err)
	r.logger.Error(msg, "error", err, "code", errors.CodeOf(err))
}

// Root returns the current host root.
func (r *Reconciler) Root() host.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// Tree returns the virtual tree the host tree was last built from.
func (r *Reconciler) Tree() vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree
}
