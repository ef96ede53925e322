// Package httpapi is the public HTTP/JSON surface of SailBlog: account
// routes, post routes behind the session guard, and the operational
// endpoints (health, readiness, metrics).
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/sailblog/internal/logging"
	"github.com/dmitrijs2005/sailblog/internal/server/config"
	"github.com/dmitrijs2005/sailblog/internal/server/models"
	"github.com/dmitrijs2005/sailblog/internal/server/tracing"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UserService is the account logic the handlers depend on.
type UserService interface {
	Signup(ctx context.Context, nickname, password, confirmation string) (*models.User, error)
	Login(ctx context.Context, nickname, password string) (string, error)
}

// PostService is the post logic the handlers depend on.
type PostService interface {
	List(ctx context.Context) ([]*models.PostSummary, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, user *models.User, title, content string) (*models.Post, error)
	Update(ctx context.Context, user *models.User, id, title, content string) (*models.Post, error)
	Delete(ctx context.Context, user *models.User, id string) error
}

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string, now time.Time) (*models.User, error)
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	sessionTTL      time.Duration
	secureCookies   bool

	users   UserService
	posts   PostService
	guard   Authenticator
	logger  logging.Logger
	metrics *Metrics

	engine       *gin.Engine
	shuttingDown atomic.Bool
	now          func() time.Time
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, ps PostService, guard Authenticator) *Server {
	s := &Server{
		address:         cfg.HTTPAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
		sessionTTL:      cfg.SessionTTL,
		secureCookies:   cfg.IsProduction(),
		users:           us,
		posts:           ps,
		guard:           guard,
		logger:          l.With("module", "http_server"),
		metrics:         NewMetrics(),
		now:             time.Now,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(s.accessLog())
	r.Use(s.metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if s.shuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.POST("/signup", s.signup)
	r.POST("/login", s.login)
	r.POST("/logout", s.logout)

	r.GET("/posts", s.listPosts)
	r.GET("/posts/:id", s.getPost)
	r.POST("/posts", s.requireUser(s.createPost))
	r.PUT("/posts/:id", s.requireUser(s.updatePost))
	r.DELETE("/posts/:id", s.requireUser(s.deletePost))

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then flips readiness to 503 and drains
// in-flight requests for at most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.shuttingDown.Store(true)
	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
