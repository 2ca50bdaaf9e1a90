// Package http serves the ledger REST API, the HTMX page with its partials, and ops endpoints.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"memorizer/internal/core"
	"memorizer/internal/ledger"
	applog "memorizer/internal/log"
	"memorizer/internal/middleware/ratelimit"
	"memorizer/internal/middleware/security"
	"memorizer/internal/middleware/trace"
	"memorizer/internal/view"
	appweb "memorizer/web"
)

// Ledger is the service the handlers drive; *services.LedgerService implements it.
type Ledger interface {
	Entries(ctx context.Context) ([]core.Shift, []core.Song, error)
	ListShifts(ctx context.Context) ([]core.Shift, error)
	ListSongs(ctx context.Context) ([]core.Song, error)
	CreateShift(ctx context.Context, s core.Shift) (core.Shift, error)
	DeleteShift(ctx context.Context, id int64) error
	CreateSong(ctx context.Context, s core.Song) (core.Song, error)
	DeleteSong(ctx context.Context, id int64) error
	Earnings(ctx context.Context) (core.EarningsStats, error)
	Payout(ctx context.Context) (ledger.PayoutResult, error)
}

// Config carries the server settings taken from the application config.
type Config struct {
	Addr   string
	Layout view.Layout
	// RateLimitPerMinute bounds mutations per client IP; 0 disables the limiter.
	RateLimitPerMinute int
	// Ready reports storage readiness for /readyz; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *applog.Logger
	// Now is the clock behind the quick-entry default date.
	Now func() time.Time
}

type Server struct {
	http.Server
	ledger    Ledger
	layout    view.Layout
	templates *template.Template
	validate  *validator.Validate
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	metrics   *metrics
	ready     func(ctx context.Context) error
	logger    *applog.Logger
	now       func() time.Time
	started   time.Time
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(cfg Config, l Ledger) (*Server, error) {
	tmpl, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	layout := cfg.Layout
	if layout == "" {
		layout = view.LayoutMerged
	}

	s := &Server{
		ledger:    l,
		layout:    layout,
		templates: tmpl,
		validate:  newValidator(),
		detector:  security.NewDetector(),
		metrics:   newMetrics(),
		ready:     cfg.Ready,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		now:       now,
		started:   time.Now(),
	}
	if cfg.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})
	}

	s.Addr = cfg.Addr
	s.Handler = s.routes()
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 15 * time.Second
	s.IdleTimeout = 60 * time.Second
	return s, nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(trace.NewMiddleware(s.detector.ExtractClientIP).Middleware)
	r.Use(applog.Middleware(s.logger, trace.GetRequestID))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.inspect)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	static, _ := fs.Sub(appweb.StaticFS, "static")
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited))
		}

		r.Get("/", s.handleIndex)

		r.Route("/api", func(r chi.Router) {
			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", s.handleListShifts)
				r.Post("/", s.handleCreateShift)
				r.Delete("/{id}", s.handleDeleteShift)
			})
			r.Route("/songs", func(r chi.Router) {
				r.Get("/", s.handleListSongs)
				r.Post("/", s.handleCreateSong)
				r.Delete("/{id}", s.handleDeleteSong)
			})
			r.Get("/stats/earnings", s.handleEarnings)
			r.Post("/stats/payout", s.handlePayout)
		})

		r.Route("/ui", func(r chi.Router) {
			r.Get("/entries", s.handleUIEntries)
			r.Post("/entries", s.handleUIQuickEntry)
			r.Delete("/shifts/{id}", s.handleUIDelete(core.KindShift))
			r.Delete("/songs/{id}", s.handleUIDelete(core.KindSong))
			r.Get("/stats", s.handleUIStats)
			r.Post("/payout", s.handleUIPayout)
		})
	})
	return r
}

// inspect logs and counts probe-looking requests; they are still served.
func (s *Server) inspect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason, ok := s.detector.Suspicious(r); ok {
			s.metrics.suspicious.WithLabelValues(reason).Inc()
			applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request",
				"reason", reason,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.metrics.rateLimited.Inc()
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)

	if strings.HasPrefix(r.URL.Path, "/ui/") {
		ErrorResponse(http.StatusTooManyRequests, "Слишком много запросов, попробуйте позже").Write(w)
		return
	}
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

// Shutdown stops the rate limiter before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.Server.Shutdown(ctx)
}
