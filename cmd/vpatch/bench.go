package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/reconcile"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

type benchProfile struct {
	Name     string
	ListSize int
	Updates  int
}

var benchProfiles = map[string]benchProfile{
	"fast":     {Name: "fast", ListSize: 20, Updates: 1000},
	"standard": {Name: "standard", ListSize: 100, Updates: 5000},
	"stress":   {Name: "stress", ListSize: 1000, Updates: 10000},
}

type benchConfig struct {
	Profile  string
	ListSize int
	Updates  int
	Seed     int64
	JSONOut  string
}

type benchReport struct {
	Version   string            `json:"version"`
	Workload  benchWorkload     `json:"workload"`
	LatencyMS latencyInfo       `json:"latency_ms"`
	Patches   map[string]uint64 `json:"patches"`
	PerUpdate perUpdateInfo     `json:"per_update"`
	GC        gcInfo            `json:"gc"`
}

type benchWorkload struct {
	Profile  string `json:"profile"`
	ListSize int    `json:"list_size"`
	Updates  int    `json:"updates"`
	Seed     int64  `json:"seed"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type perUpdateInfo struct {
	Patches float64 `json:"patches"`
	Indices float64 `json:"indices"`
	AllocKB float64 `json:"alloc_kb"`
}

type gcInfo struct {
	NumGC        uint32  `json:"num_gc"`
	PauseTotalMS float64 `json:"pause_total_ms"`
}

func benchCmd() *cobra.Command {
	var cfg benchConfig

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure diff and patch cost on a churning keyed list",
		Long: `Run a reconciler against a keyed list that is shuffled, grown,
shrunk and edited on every update, and report latency percentiles.

Profiles:
  fast      20 items, 1000 updates
  standard  100 items, 5000 updates
  stress    1000 items, 10000 updates

Examples:
  vpatch bench
  vpatch bench --profile=stress --json=report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, ok := benchProfiles[cfg.Profile]
			if !ok {
				return errors.Newf(errors.CategoryCLI, "unknown profile %q", cfg.Profile)
			}
			if cfg.ListSize <= 0 {
				cfg.ListSize = profile.ListSize
			}
			if cfg.Updates <= 0 {
				cfg.Updates = profile.Updates
			}

			report, err := runBench(cmd, cfg)
			if err != nil {
				return err
			}
			writeBenchSummary(cmd.OutOrStdout(), report)
			if cfg.JSONOut != "" {
				return writeBenchJSON(cfg.JSONOut, cmd.OutOrStdout(), report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Profile, "profile", "fast", "Workload profile: fast, standard or stress")
	cmd.Flags().IntVar(&cfg.ListSize, "list-size", 0, "Initial list size (default from profile)")
	cmd.Flags().IntVar(&cfg.Updates, "updates", 0, "Number of updates (default from profile)")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 1, "Random seed")
	cmd.Flags().StringVar(&cfg.JSONOut, "json", "", "Write the report as JSON to a file, or - for stdout")

	return cmd
}

// churnList holds the keyed list the benchmark mutates.
type churnList struct {
	rng    *rand.Rand
	keys   []string
	labels map[string]string
	next   int
}

func newChurnList(size int, seed int64) *churnList {
	l := &churnList{rng: rand.New(rand.NewSource(seed)), labels: make(map[string]string)}
	for i := 0; i < size; i++ {
		l.add(len(l.keys))
	}
	return l
}

func (l *churnList) add(at int) {
	key := fmt.Sprintf("k%d", l.next)
	l.next++
	l.keys = append(l.keys, "")
	copy(l.keys[at+1:], l.keys[at:])
	l.keys[at] = key
	l.labels[key] = "item " + key
}

// step applies one random edit.
func (l *churnList) step() {
	n := len(l.keys)
	switch op := l.rng.Intn(4); {
	case op == 0 && n > 1:
		i, j := l.rng.Intn(n), l.rng.Intn(n)
		l.keys[i], l.keys[j] = l.keys[j], l.keys[i]
	case op == 1 || n == 0:
		l.add(l.rng.Intn(n + 1))
	case op == 2:
		i := l.rng.Intn(n)
		delete(l.labels, l.keys[i])
		l.keys = append(l.keys[:i], l.keys[i+1:]...)
	default:
		key := l.keys[l.rng.Intn(n)]
		l.labels[key] = fmt.Sprintf("item %s v%d", key, l.rng.Intn(1000))
	}
}

func (l *churnList) tree() vdom.VNode {
	return vdom.Ul(
		vdom.Class("bench"),
		vdom.Range(l.keys, func(key string, _ int) vdom.VNode {
			return vdom.Li(vdom.Key(key), vdom.Text(l.labels[key]))
		}),
	)
}

func runBench(cmd *cobra.Command, cfg benchConfig) (benchReport, error) {
	list := newChurnList(cfg.ListSize, cfg.Seed)
	rec := reconcile.New()
	if _, err := rec.Mount(cmd.Context(), list.tree()); err != nil {
		return benchReport{}, err
	}

	samples := make([]time.Duration, 0, cfg.Updates)
	patches := make(map[string]uint64)
	var patchTotal, indexTotal int

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	for i := 0; i < cfg.Updates; i++ {
		list.step()
		next := list.tree()

		start := time.Now()
		res, err := rec.Update(cmd.Context(), next)
		samples = append(samples, time.Since(start))
		if err != nil {
			return benchReport{}, err
		}

		patchTotal += res.Patches
		indexTotal += res.Indices
		res.PatchSet.Each(func(_ int, ps []vdom.Patch) {
			for _, p := range ps {
				patches[p.Kind.String()]++
			}
		})
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	// The patched tree must match a fresh render of the final list.
	html := render.NewRenderer(render.RendererConfig{})
	got, err := html.RenderToString(rec.Root())
	if err != nil {
		return benchReport{}, err
	}
	want, err := html.RenderVNode(list.tree())
	if err != nil {
		return benchReport{}, err
	}
	if got != want {
		return benchReport{}, errors.New(errors.CodeTargetMismatch).
			WithDetail("patched tree diverged from a fresh render")
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	updates := float64(cfg.Updates)
	report := benchReport{
		Version: version,
		Workload: benchWorkload{
			Profile:  cfg.Profile,
			ListSize: cfg.ListSize,
			Updates:  cfg.Updates,
			Seed:     cfg.Seed,
		},
		LatencyMS: latencyInfo{
			Min: ms(percentile(samples, 0)),
			P50: ms(percentile(samples, 0.50)),
			P95: ms(percentile(samples, 0.95)),
			P99: ms(percentile(samples, 0.99)),
			Max: ms(percentile(samples, 1)),
		},
		Patches: patches,
		GC: gcInfo{
			NumGC:        after.NumGC - before.NumGC,
			PauseTotalMS: ms(time.Duration(after.PauseTotalNs - before.PauseTotalNs)),
		},
	}
	if updates > 0 {
		report.PerUpdate = perUpdateInfo{
			Patches: float64(patchTotal) / updates,
			Indices: float64(indexTotal) / updates,
			AllocKB: float64(after.TotalAlloc-before.TotalAlloc) / 1024 / updates,
		}
	}
	return report, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func writeBenchSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== vpatch benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "List size: %d\n", report.Workload.ListSize)
	fmt.Fprintf(w, "Updates: %d\n", report.Workload.Updates)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Update latency (diff + apply):")
	fmt.Fprintf(w, "  min: %.3f ms\n", report.LatencyMS.Min)
	fmt.Fprintf(w, "  p50: %.3f ms\n", report.LatencyMS.P50)
	fmt.Fprintf(w, "  p95: %.3f ms\n", report.LatencyMS.P95)
	fmt.Fprintf(w, "  p99: %.3f ms\n", report.LatencyMS.P99)
	fmt.Fprintf(w, "  max: %.3f ms\n", report.LatencyMS.Max)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Per update:")
	fmt.Fprintf(w, "  patches: %.2f\n", report.PerUpdate.Patches)
	fmt.Fprintf(w, "  indices: %.2f\n", report.PerUpdate.Indices)
	fmt.Fprintf(w, "  alloc:   %.1f KB\n", report.PerUpdate.AllocKB)
	fmt.Fprintln(w)

	kinds := make([]string, 0, len(report.Patches))
	for kind := range report.Patches {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	fmt.Fprintln(w, "Patches by kind:")
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %-8s %d\n", kind+":", report.Patches[kind])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "GC: %d cycles, %.2f ms paused\n", report.GC.NumGC, report.GC.PauseTotalMS)
}

func writeBenchJSON(path string, stdout io.Writer, report benchReport) error {
	out := stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
