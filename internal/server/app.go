// Package server initializes and runs the application: configuration and
// validation, logging, the database and migrations, process-scoped session
// state, and the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkazakov/studentapi/internal/logging"
	"github.com/dkazakov/studentapi/internal/server/auth"
	"github.com/dkazakov/studentapi/internal/server/config"
	"github.com/dkazakov/studentapi/internal/server/httpapi"
	"github.com/dkazakov/studentapi/internal/server/ratelimit"
	"github.com/dkazakov/studentapi/internal/server/refreshtokens"
	"github.com/dkazakov/studentapi/internal/server/repositories/repomanager"
	"github.com/dkazakov/studentapi/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	limiter     *ratelimit.Limiter
	httpServer  *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	// Missing required settings abort startup, never degrade silently.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	// All mutable session state lives in these two objects; they are
	// constructed here and injected, never reached through globals.
	tokenStore := refreshtokens.NewStore(cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitPermits)

	users, err := services.NewUserService(cfg, tokenStore)
	if err != nil {
		return nil, fmt.Errorf("user service init error: %w", err)
	}
	students := services.NewStudentService(db, rm)

	authn := auth.NewAuthenticator(
		auth.NewAPIKeyVerifier(cfg.APIKey, cfg.APIKeyRole),
		auth.NewBearerVerifier([]byte(cfg.SecretKey), cfg.JWTIssuer, cfg.JWTAudience),
	)
	authz := auth.NewEvaluator()

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, users, students, authn, authz, limiter, db.PingContext)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		limiter:     limiter,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		// Reclaims idle rate-limit partitions so the map stays bounded.
		app.limiter.Run(ctx, app.config.RateLimitWindow)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
