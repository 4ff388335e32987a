package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/config"
	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/handlers"
	"github.com/motoreast/rebate-portal/internal/middleware"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Deps carries the wired collaborators the route layer needs.
type Deps struct {
	Gateway *gateway.Gateway
	Tokens  *auth.TokenManager
	Revoked auth.TokenBlacklist
	Log     *zap.Logger
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, d Deps) *Server {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(d.Gateway, d.Log).Register(mux)
	handlers.NewClaimsHandler(d.Gateway, d.Log).Register(mux)
	handlers.NewCondosHandler(d.Gateway, d.Log).Register(mux)
	handlers.NewRegistrationsHandler(d.Gateway, d.Log).Register(mux)
	handlers.NewReceiptsHandler(d.Gateway, d.Log).Register(mux)
	handlers.NewAdminHandler(d.Gateway, d.Log).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.Logging(d.Log,
			middleware.Authenticate(d.Tokens, d.Revoked, d.Log, mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
