// Package server exposes the render pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
	"github.com/vovakirdan/starshot/internal/output"
)

// FetchFunc resolves a username to a contribution grid.
type FetchFunc func(ctx context.Context, username string) (contrib.Grid, error)

// Options configures a Server.
type Options struct {
	Config     config.Config
	Token      string
	Watermark  string
	MaxFrames  int
	RatePerSec float64
	RateBurst  int
	Logger     *log.Logger

	// Fetch overrides the GitHub client; used by tests.
	Fetch FetchFunc
}

// Server handles animation requests.
type Server struct {
	opts    Options
	limiter *rate.Limiter
	logger  *log.Logger

	registry  *prometheus.Registry
	renders   *prometheus.CounterVec
	durations prometheus.Histogram
}

// New builds a Server with its own metrics registry.
func New(opts Options) *Server {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 1
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Fetch == nil {
		client := contrib.NewClient(opts.Token)
		opts.Fetch = client.Fetch
	}
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Server{
		opts:     opts,
		limiter:  rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.RateBurst),
		logger:   logger,
		registry: registry,
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "starshot_renders_total",
			Help: "Completed renders by format and status.",
		}, []string{"format", "status"}),
		durations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "starshot_render_duration_seconds",
			Help:    "End-to-end render latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/api/generate", s.rateLimited(s.handleGenerate))
	return r
}

func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	format := output.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = output.FormatSVG
	}
	if format != output.FormatSVG && format != output.FormatGIF {
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
		return
	}

	cfg := s.opts.Config
	if fps := queryInt(r, "fps"); fps > 0 {
		if fps > 60 {
			http.Error(w, "fps is limited to 60", http.StatusBadRequest)
			return
		}
		cfg.Simulation.FPS = fps
	}

	policyName := r.URL.Query().Get("policy")
	if policyName == "" {
		policyName = "random"
	}

	maxFrames := queryInt(r, "max_frames")
	if maxFrames <= 0 || (s.opts.MaxFrames > 0 && maxFrames > s.opts.MaxFrames) {
		maxFrames = s.opts.MaxFrames
	}

	grid, err := s.opts.Fetch(r.Context(), username)
	if err != nil {
		s.logger.Error("fetch failed", "user", username, "err", err)
		http.Error(w, "could not fetch contribution graph", http.StatusBadGateway)
		return
	}

	started := time.Now()
	res, err := output.Render(output.Request{
		Grid:      grid,
		Policy:    policyName,
		Config:    cfg,
		Watermark: s.opts.Watermark,
		MaxFrames: maxFrames,
	}, format)
	if err != nil {
		s.renders.WithLabelValues(string(format), "error").Inc()
		s.logger.Error("render failed", "user", username, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.durations.Observe(time.Since(started).Seconds())
	s.renders.WithLabelValues(string(format), "ok").Inc()
	s.logger.Info("rendered", "user", username, "format", format, "frames", res.Frames, "score", res.Score)

	switch format {
	case output.FormatGIF:
		w.Header().Set("Content-Type", "image/gif")
	default:
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(res.Data)
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
