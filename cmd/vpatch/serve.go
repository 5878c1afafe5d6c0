package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/internal/snapshot"
	"github.com/vango-dev/vpatch/pkg/reconcile"
	"github.com/vango-dev/vpatch/pkg/render"
)

// maxRequestBytes bounds the size of a diff request body.
const maxRequestBytes = 4 << 20

func serveCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP diff service",
		Long: `Serve tree diffs over HTTP.

Endpoints:
  POST /v1/diff   {"a": <snapshot>, "b": <snapshot>}
  GET  /healthz
  GET  /metrics   Prometheus metrics

Examples:
  vpatch serve
  vpatch serve --addr=:9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return runServe(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from "+config.ConfigFileName+")")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newService(cfg, logger, registry).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// service answers diff requests. Each request gets its own Reconciler;
// the metrics are shared.
type service struct {
	logger   *slog.Logger
	metrics  *reconcile.Metrics
	registry *prometheus.Registry
	html     *render.Renderer
}

func newService(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) *service {
	return &service{
		logger: logger.With("component", "server"),
		metrics: reconcile.NewMetrics(
			reconcile.WithNamespace(cfg.Metrics.Namespace),
			reconcile.WithRegistry(registry),
		),
		registry: registry,
		html: render.NewRenderer(render.RendererConfig{
			Pretty: cfg.Render.Pretty,
			Indent: cfg.Render.Indent,
		}),
	}
}

func (s *service) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Post("/v1/diff", s.handleDiff)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

type diffRequest struct {
	A *snapshot.Node `json:"a"`
	B *snapshot.Node `json:"b"`
}

type diffResponse struct {
	Summary      *snapshot.Summary `json:"summary"`
	HTML         string            `json:"html"`
	RootReplaced bool              `json:"rootReplaced"`
}

type errorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func (s *service) handleDiff(w http.ResponseWriter, r *http.Request) {
	res, err := s.diff(w, r)
	if err != nil {
		s.logger.Warn("diff request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, statusFor(err), errorResponse{Code: errors.CodeOf(err), Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *service) diff(w http.ResponseWriter, r *http.Request) (*diffResponse, error) {
	var req diffRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, errors.New(errors.CodeBadSnapshot).Wrap(err)
	}
	if req.A == nil || req.B == nil {
		return nil, errors.New(errors.CodeBadSnapshot).WithDetail(`both "a" and "b" are required`)
	}

	a, err := req.A.Build()
	if err != nil {
		return nil, err
	}
	b, err := req.B.Build()
	if err != nil {
		return nil, err
	}

	rec := reconcile.New(
		reconcile.WithLogger(s.logger.With("request_id", middleware.GetReqID(r.Context()))),
		reconcile.WithMetrics(s.metrics),
	)
	if _, err := rec.Mount(r.Context(), a); err != nil {
		return nil, err
	}
	res, err := rec.Update(r.Context(), b)
	if err != nil {
		return nil, err
	}

	html, err := s.html.RenderToString(res.Root)
	if err != nil {
		return nil, err
	}
	return &diffResponse{
		Summary:      snapshot.Summarize(res.PatchSet),
		HTML:         html,
		RootReplaced: res.RootReplaced,
	}, nil
}

func statusFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.CodeBadSnapshot:
		return http.StatusBadRequest
	case errors.CodeInvalidLazyNode, errors.CodeUnknownNodeKind:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
