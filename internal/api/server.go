// Package api exposes the tracker over REST: auth, entity data, the habit
// flow, and backup management.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solo-life/service_layer/internal/auth"
	"github.com/solo-life/service_layer/internal/config"
	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/httputil"
	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/metrics"
	"github.com/solo-life/service_layer/internal/middleware"
	"github.com/solo-life/service_layer/internal/repo"
	"github.com/solo-life/service_layer/internal/tracker"
)

const maxBodyBytes = 1 << 20

// Server wires the services behind the REST routes.
type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	auth    *auth.Service
	repo    *repo.Store
	tracker *tracker.Service
	router  *mux.Router
	now     func() time.Time
}

// Options carries the server dependencies.
type Options struct {
	Config   *config.Config
	Logger   *logging.Logger
	Auth     *auth.Service
	Repo     *repo.Store
	Tracker  *tracker.Service
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewServer builds the router with the full middleware stack.
func NewServer(opts Options) *Server {
	s := &Server{
		cfg:     opts.Config,
		logger:  opts.Logger,
		auth:    opts.Auth,
		repo:    opts.Repo,
		tracker: opts.Tracker,
		now:     time.Now,
	}

	r := mux.NewRouter()

	tracing := middleware.NewTracingMiddleware(opts.Logger)
	cors := middleware.NewCORSMiddleware(opts.Config.Server.AllowedOrigins)
	r.Use(mux.MiddlewareFunc(tracing.Handler))
	r.Use(mux.MiddlewareFunc(cors.Handler))
	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware("solo-life", opts.Metrics))
	}
	if opts.Config.Server.RateLimitPerSec > 0 {
		limiter := middleware.NewRateLimiter(opts.Config.Server.RateLimitPerSec, opts.Config.Server.RateLimitBurst, opts.Logger)
		r.Use(mux.MiddlewareFunc(limiter.Handler))
	}

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	authMW := middleware.NewAuthMiddleware([]byte(opts.Config.Auth.JWTSecret), opts.Logger, nil)
	protected.Use(mux.MiddlewareFunc(authMW.Handler))
	protected.Use(mux.MiddlewareFunc(middleware.RequireUserID))

	protected.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	protected.HandleFunc("/data/{entity}", s.handleGetData).Methods(http.MethodGet)
	protected.HandleFunc("/data/{entity}", s.handlePutData).Methods(http.MethodPut)

	protected.HandleFunc("/habits/missions", s.handleMissions).Methods(http.MethodGet)
	protected.HandleFunc("/habits/penalty", s.handlePenalty).Methods(http.MethodGet)
	protected.HandleFunc("/habits/{id}/complete", s.handleCompleteHabit).Methods(http.MethodPost)
	protected.HandleFunc("/habits/{id}/uncomplete", s.handleUncompleteHabit).Methods(http.MethodPost)

	protected.HandleFunc("/backup", s.handleCreateBackup).Methods(http.MethodPost)
	protected.HandleFunc("/backups", s.handleListBackups).Methods(http.MethodGet)
	protected.HandleFunc("/backup/export", s.handleExport).Methods(http.MethodGet)
	protected.HandleFunc("/backup/import", s.handleImport).Methods(http.MethodPost)
	protected.HandleFunc("/backup/{id}/restore", s.handleRestoreBackup).Methods(http.MethodPost)

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := errors.GetServiceError(err)
	if serviceErr == nil {
		serviceErr = errors.Internal("internal error", err)
	}
	if serviceErr.HTTPStatus >= http.StatusInternalServerError {
		s.logger.WithContext(r.Context()).WithError(err).Error("request failed")
	}
	httputil.WriteErrorResponse(w, r, serviceErr.HTTPStatus, string(serviceErr.Code), serviceErr.Message, serviceErr.Details)
}

func decodeJSON(r *http.Request, target interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Validation("failed to read request body")
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.Validation("invalid JSON body")
	}
	return nil
}
