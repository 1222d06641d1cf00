package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"vetgateway/frontend/geocoding"
	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
	"vetgateway/infrastructure/audit"
	sessioncookie "vetgateway/infrastructure/session"
	"vetgateway/infrastructure/sqlite"
	"vetgateway/infrastructure/upstream"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var ShutdownTimeout = 2 * time.Second

// AuthConfig controls how the token cookie is verified and issued.
type AuthConfig struct {
	JWTSecret    string
	SecureCookie bool
}

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	DB        *sqlite.DB
	Upstream  *upstream.Client
	Geocoding *geocoding.Service
	Audit     *audit.Service
	Auth      AuthConfig
}

// NewServer creates a new http server.
func NewServer(addr string, db *sqlite.DB, client *upstream.Client, geo *geocoding.Service, auditSvc *audit.Service, auth AuthConfig) *Server {
	s := &Server{
		Addr:      addr,
		router:    chi.NewRouter(),
		DB:        db,
		Upstream:  client,
		Geocoding: geo,
		Audit:     auditSvc,
		Auth:      auth,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			slog.Error("health check failed", slog.Any("err", err))
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.RegisterAuthRoutes()

	s.router.Group(func(r chi.Router) {
		r.Use(s.AuthenticateMiddleware)
		s.RegisterFrontendRoutes(r)
		// Registered last; static routes above take priority over the
		// {resource} parameters.
		s.RegisterProxyRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

// AuthenticateMiddleware resolves the caller's credential once per request
// and places it in the context.
func (s *Server) AuthenticateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessioncookie.TokenFromRequest(r)
		if token == "" {
			respond.Unauthorized(w)
			return
		}

		cred, err := sessioncookie.ParseCredential(token, s.Auth.JWTSecret)
		if err != nil {
			if errors.Is(err, sessioncookie.ErrTokenExpired) {
				http.SetCookie(w, sessioncookie.ClearCookie(s.Auth.SecureCookie))
			} else {
				slog.Warn("credential rejected", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("err", err))
			}
			respond.Unauthorized(w)
			return
		}

		ctx := sharedcontext.NewContextWithCredential(r.Context(), cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
