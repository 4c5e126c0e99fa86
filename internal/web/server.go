// Package web provides the JSON HTTP API for vino-route.
package web

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evcraddock/vino-route/internal/auth"
	"github.com/evcraddock/vino-route/internal/db"
	"github.com/evcraddock/vino-route/internal/ledger"
	"github.com/evcraddock/vino-route/internal/logging"
	"github.com/evcraddock/vino-route/internal/route"
)

// Server is the vino-route HTTP server.
type Server struct {
	config   Config
	ledger   route.Ledger
	service  *route.Service // nil when no prospect source is configured
	users    *auth.UserStore
	sessions *auth.SessionStore
	routes   *routeCache
	metrics  *metrics
	registry *prometheus.Registry
	mux      *http.ServeMux
	handler  http.Handler
	now      func() time.Time
}

// NewServer creates a server over the given database. fetcher may be nil,
// in which case route generation answers 503.
func NewServer(d *sql.DB, fetcher route.Fetcher, cfg Config) *Server {
	if cfg.RouteTTL <= 0 {
		cfg.RouteTTL = DefaultRouteTTL
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := newMetrics(reg)

	l := countingLedger{
		Ledger:   ledger.New(db.NewKVStore(d)),
		failures: m.ledgerWriteFailures.Inc,
	}

	s := &Server{
		config:   cfg,
		ledger:   l,
		users:    auth.NewUserStore(d),
		sessions: auth.NewSessionStore(d),
		routes:   newRouteCache(cfg.RouteTTL),
		metrics:  m,
		registry: reg,
		mux:      http.NewServeMux(),
		now:      time.Now,
	}
	if fetcher != nil {
		s.service = route.NewService(fetcher, l)
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.mux.HandleFunc("/auth/signup", s.handleSignUp)
	s.mux.HandleFunc("/auth/signin", s.handleSignIn)
	s.mux.HandleFunc("/auth/signout", s.handleSignOut)

	s.mux.HandleFunc("/api/route", s.handleAPIRoute)
	s.mux.HandleFunc("/api/route/status", s.handleAPIStatus)
	s.mux.HandleFunc("/api/route/note", s.handleAPINote)
	s.mux.HandleFunc("/api/route/sort", s.handleAPISort)
	s.mux.HandleFunc("/api/history", s.handleAPIHistory)
	s.mux.HandleFunc("/api/report", s.handleAPIReport)

	s.handler = logging.RequestLogger(auth.RequireUser(s.sessions, s.mux))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	if err := s.sessions.Cleanup(); err != nil {
		slog.Warn("cleaning up sessions", "error", err)
	}

	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting server", "addr", addr, "dev_mode", s.config.DevMode, "prospects", s.service != nil)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
