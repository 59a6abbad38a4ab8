// Package httpapi exposes the service over HTTP: routing, the middleware
// chain (rate limit → security headers → authentication → policy), and the
// JSON handlers.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dkazakov/studentapi/internal/logging"
	"github.com/dkazakov/studentapi/internal/server/auth"
	"github.com/dkazakov/studentapi/internal/server/ratelimit"
	"github.com/dkazakov/studentapi/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address  string
	logger   logging.Logger
	users    *services.UserService
	students *services.StudentService
	authn    *auth.Authenticator
	authz    *auth.Evaluator
	limiter  *ratelimit.Limiter

	// ping probes the backing database for the health endpoint; nil skips
	// the probe.
	ping func(ctx context.Context) error
}

func NewServer(
	address string,
	l logging.Logger,
	users *services.UserService,
	students *services.StudentService,
	authn *auth.Authenticator,
	authz *auth.Evaluator,
	limiter *ratelimit.Limiter,
	ping func(ctx context.Context) error,
) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    users,
		students: students,
		authn:    authn,
		authz:    authz,
		limiter:  limiter,
		ping:     ping,
	}
}

// Handler assembles the route table and middleware chain. The rate limiter
// gates everything, including unauthenticated login traffic.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/refresh", s.refreshToken)

	mux.Handle("GET /api/students", s.requirePolicy(auth.PolicyUser, s.listStudents))
	mux.Handle("GET /api/students/{id}", s.requirePolicy(auth.PolicyUser, s.getStudent))
	mux.Handle("POST /api/students", s.requirePolicy(auth.PolicyAdmin, s.createStudent))
	mux.Handle("PUT /api/students/{id}", s.requirePolicy(auth.PolicyAdmin, s.updateStudent))
	mux.Handle("DELETE /api/students/{id}", s.requirePolicy(auth.PolicyAdmin, s.deleteStudent))

	mux.HandleFunc("GET /health", s.health)

	return s.rateLimit(securityHeaders(mux))
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
