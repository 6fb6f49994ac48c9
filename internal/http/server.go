// Package http serves the PJES dashboard: the page, its chart panels and the
// filtered downloads.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	applog "pjes/internal/log"
	"pjes/internal/middleware/ratelimit"
	"pjes/internal/middleware/security"
	"pjes/internal/middleware/trace"
	"pjes/internal/services"
	appweb "pjes/web"
)

// Options tune a Server. The zero value serves without a logo and without
// download limiting.
type Options struct {
	LogoPath string
	// ExportRateLimit is the number of downloads per client IP per minute;
	// 0 disables limiting.
	ExportRateLimit int
	Logger          *applog.Logger
	// Now stamps the page footer; defaults to time.Now.
	Now func() time.Time
}

// Server wraps http.Server with the dashboard dependencies.
type Server struct {
	http.Server
	reports      *services.ReportService
	audit        *services.AuditService
	templates    *template.Template
	logoPath     string
	limiter      *ratelimit.Limiter
	ips          *security.IPResolver
	logger       *applog.Logger
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// server. audit may be nil.
func NewServer(addr string, reports *services.ReportService, audit *services.AuditService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)
	if opts.Now == nil {
		opts.Now = time.Now
	}

	limit := ratelimit.DefaultConfig()
	limit.Limit = opts.ExportRateLimit

	s := &Server{
		reports:  reports,
		audit:    audit,
		logoPath: opts.LogoPath,
		limiter:  ratelimit.NewLimiter(limit),
		ips:      security.NewIPResolver(),
		logger:   logger,
		now:      opts.Now,
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", applog.FieldError, err)
	} else {
		s.templates = t
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	exports := s.limiter.Middleware(s.ips.ClientIP, func(r *http.Request, clientIP string) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Export rate limit exceeded",
			applog.FieldClientIP, clientIP,
			applog.FieldPath, r.URL.Path,
			applog.FieldComponent, applog.ComponentRateLimit)
	})

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /charts/{chart}", s.handleChart)
	mux.Handle("GET /export/{file}", exports(http.HandlerFunc(s.handleExport)))
	mux.HandleFunc("GET /logo", s.handleLogo)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger, s.ips.ClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts the listener down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the dataset is loaded and templates parsed.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil || s.reports.Dataset() == nil {
		ServiceUnavailableError("dataset not loaded").Write(w)
		return
	}
	if s.templates == nil {
		ServiceUnavailableError("templates not loaded").Write(w)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
