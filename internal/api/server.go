package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/multichain-wallet/multichain-wallet/internal/app"
	"github.com/multichain-wallet/multichain-wallet/internal/config"
	"github.com/multichain-wallet/multichain-wallet/internal/logger"
	"github.com/multichain-wallet/multichain-wallet/internal/metrics"
	"github.com/multichain-wallet/multichain-wallet/internal/middleware"
	apperrors "github.com/multichain-wallet/multichain-wallet/pkg/errors"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	lifecycle   LifecycleManager
	balances    BalanceFetcher
	tokens      TokenCatalog
	registry    *app.Registry
	session     *app.WalletSession
	rateLimiter *middleware.RateLimiter
	httpServer  *http.Server
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	lifecycle LifecycleManager,
	balances BalanceFetcher,
	tokens TokenCatalog,
	registry *app.Registry,
	session *app.WalletSession,
) *Server {
	return &Server{
		config:      cfg,
		lifecycle:   lifecycle,
		balances:    balances,
		tokens:      tokens,
		registry:    registry,
		session:     session,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitEnabled),
	}
}

// routes builds the request mux. Split out so handler tests can exercise the
// full routing table without binding a port.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /v1/wallet/generate", s.handleGenerate)
	mux.HandleFunc("POST /v1/wallet", s.handlePersist)
	mux.HandleFunc("GET /v1/wallet", s.handleWalletState)
	mux.HandleFunc("DELETE /v1/wallet", s.handleLogout)
	mux.HandleFunc("POST /v1/wallet/unlock", s.handleUnlock)
	mux.HandleFunc("GET /v1/wallet/export", s.handleExport)
	mux.HandleFunc("PUT /v1/wallet/password", s.handleSetPassword)
	mux.HandleFunc("DELETE /v1/wallet/password", s.handleClearPassword)

	mux.HandleFunc("GET /v1/chains", s.handleListChains)
	mux.HandleFunc("GET /v1/chains/{chain}/address", s.handleChainAddress)
	mux.HandleFunc("GET /v1/chains/{chain}/report", s.handleChainReport)

	mux.HandleFunc("POST /v1/chains/{chain}/tokens", s.handleAddToken)
	mux.HandleFunc("GET /v1/chains/{chain}/tokens", s.handleListTokens)

	// Chain: RequestID -> Logging -> RateLimit -> Routes
	return middleware.RequestID(s.loggingMiddleware(s.rateLimiter.Limit(mux)))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info(context.Background(), "starting server", "port", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests with status and duration
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := middleware.NewStatusRecorder(w)

		next.ServeHTTP(recorder, r)

		logger.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError maps an error to a JSON error response. Unrecognized errors are
// logged and surfaced as opaque 500s so internal detail never leaks.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr, ok := apperrors.IsAppError(err)
	if !ok {
		logger.Error(ctx, "request failed", "error", err)
		appErr = apperrors.ErrInternalError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(appErr)
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.ErrBadRequest.WithDetail(err.Error())
	}
	return nil
}
