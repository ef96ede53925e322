// Package server wires the SailBlog application together: configuration,
// logging, the PostgreSQL pool and migrations, services, the public HTTP
// API and the gRPC health endpoint. It also owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/sailblog/internal/logging"
	"github.com/dmitrijs2005/sailblog/internal/server/auth"
	"github.com/dmitrijs2005/sailblog/internal/server/config"
	"github.com/dmitrijs2005/sailblog/internal/server/httpapi"
	"github.com/dmitrijs2005/sailblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sailblog/internal/server/services"
	"github.com/dmitrijs2005/sailblog/internal/server/tracing"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/sailblog/internal/server/grpc"
)

// openDB is replaceable in tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewZerologLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: repomanager.NewPostgresRepositoryManager(),
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

func (app *App) initTracing(ctx context.Context) tracing.Shutdown {
	if !app.config.TracingEnabled {
		app.logger.Info(ctx, "Tracing disabled")
		return nil
	}

	shutdown, err := tracing.Init(ctx, app.config.TracingEndpoint, app.config.TracingSampleRate)
	if err != nil {
		app.logger.Warn(ctx, "Failed to initialize tracing", "error", err.Error())
		return nil
	}

	app.logger.Info(ctx, "Tracing initialized", "endpoint", app.config.TracingEndpoint)
	return shutdown
}

// buildHTTPServer assembles the auth core, the services and the HTTP API.
func (app *App) buildHTTPServer() *httpapi.Server {
	if app.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hasher := auth.NewPasswordHasher(app.config.PasswordHashCost)
	tokens := auth.NewTokenCodec([]byte(app.config.SecretKey), app.config.SessionTTL)

	us := services.NewUserService(app.db, app.repomanager, hasher, tokens)
	ps := services.NewPostService(app.db, app.repomanager, auth.OwnerOnly{})
	guard := auth.NewGuard(tokens, us)

	return httpapi.NewServer(app.config, app.logger, us, ps, guard)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.buildHTTPServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCHealthAddr, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the schema and serves until a signal arrives or a server
// fails, then releases the database and flushes traces.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	shutdownTracing := app.initTracing(ctx)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCHealthAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	if shutdownTracing != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			app.logger.Error(ctx, "tracer shutdown error", "error", err.Error())
		}
	}

	app.logger.Info(context.Background(), "Graceful shutdown complete")
	return nil
}
