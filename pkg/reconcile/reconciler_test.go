package reconcile

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func toHTML(t *testing.T, n host.Node) string {
	t.Helper()
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(n)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	return html
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func newTestReconciler(t *testing.T) (*Reconciler, *Metrics, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	r := New(
		WithLogger(logger),
		WithMetrics(m),
		WithTracer(noop.NewTracerProvider().Tracer("test")),
	)
	return r, m, &logs
}

func counter(state string) *vdom.Element {
	return vdom.Div(vdom.Class("counter"),
		vdom.Span(state),
		vdom.Button("+"),
	)
}

func TestMountAndUpdate(t *testing.T) {
	ctx := context.Background()
	r, m, logs := newTestReconciler(t)

	root, err := r.Mount(ctx, counter("0"))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if r.Root() != root {
		t.Error("Root() does not return the mounted root")
	}

	res, err := r.Update(ctx, counter("1"))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if res.RootReplaced || res.Root != root {
		t.Error("root replaced by a text-only update")
	}
	if res.Patches != 1 || res.Indices != 1 {
		t.Errorf("patches/indices = %d/%d, want 1/1", res.Patches, res.Indices)
	}
	if got := toHTML(t, r.Root()); got != `<div class="counter"><span>1</span><button>+</button></div>` {
		t.Errorf("html = %s", got)
	}

	if got := testutil.ToFloat64(m.diffsTotal); got != 1 {
		t.Errorf("diffs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.patchesTotal.WithLabelValues("Text")); got != 1 {
		t.Errorf("patches_total{kind=Text} = %v, want 1", got)
	}
	if got := histogramCount(t, m.applyDuration); got != 1 {
		t.Errorf("apply_duration_seconds count = %d, want 1", got)
	}
	if !strings.Contains(logs.String(), "msg=updated") {
		t.Errorf("update not logged: %s", logs.String())
	}
}

func TestUpdateTracksRootReplacement(t *testing.T) {
	ctx := context.Background()
	r, m, _ := newTestReconciler(t)

	old, _ := r.Mount(ctx, vdom.Div("a"))
	res, err := r.Update(ctx, vdom.Section("a"))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !res.RootReplaced || res.Root == old {
		t.Fatal("root replacement not reported")
	}
	if r.Root() != res.Root {
		t.Error("Root() not updated")
	}
	if got := testutil.ToFloat64(m.rootReplacements); got != 1 {
		t.Errorf("root_replacements_total = %v, want 1", got)
	}

	// later updates patch the new root
	if _, err := r.Update(ctx, vdom.Section("b")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := toHTML(t, r.Root()); got != "<section>b</section>" {
		t.Errorf("html = %s", got)
	}
}

func TestUpdateBeforeMount(t *testing.T) {
	r, _, _ := newTestReconciler(t)
	res, err := r.Update(context.Background(), vdom.P("x"))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !res.RootReplaced || res.Root == nil {
		t.Error("first update should mount")
	}
	if r.Tree() == nil {
		t.Error("Tree() not set")
	}
}

func TestUpdateFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	r, m, logs := newTestReconciler(t)

	tree := vdom.Div(vdom.P("x"))
	root, _ := r.Mount(ctx, tree)

	bad := vdom.Div(vdom.Lazy(func(vdom.VNode) vdom.VNode { return nil }))
	_, err := r.Update(ctx, bad)
	if errors.CodeOf(err) != errors.CodeInvalidLazyNode {
		t.Fatalf("err = %v, want %s", err, errors.CodeInvalidLazyNode)
	}
	if r.Tree() != vdom.VNode(tree) || r.Root() != root {
		t.Error("failed update changed reconciler state")
	}
	if got := testutil.ToFloat64(m.errorsTotal.WithLabelValues(errors.CodeInvalidLazyNode)); got != 1 {
		t.Errorf("errors_total{code=E100} = %v, want 1", got)
	}
	if !strings.Contains(logs.String(), "diff failed") {
		t.Errorf("failure not logged: %s", logs.String())
	}
}

func TestMountFailure(t *testing.T) {
	r, m, _ := newTestReconciler(t)
	_, err := r.Mount(context.Background(), nil)
	if errors.CodeOf(err) != errors.CodeRenderFailed {
		t.Fatalf("err = %v, want %s", err, errors.CodeRenderFailed)
	}
	if got := testutil.ToFloat64(m.errorsTotal.WithLabelValues(errors.CodeRenderFailed)); got != 1 {
		t.Errorf("errors_total{code=E121} = %v, want 1", got)
	}
}

func TestDefaultsWithoutMetrics(t *testing.T) {
	r := New()
	if _, err := r.Mount(context.Background(), vdom.P("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Update(context.Background(), vdom.P("y")); err != nil {
		t.Fatal(err)
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	m.observeDiff(0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "app_ui_diffs_total" {
			found = true
		}
	}
	if !found {
		t.Error("app_ui_diffs_total not registered")
	}
}
