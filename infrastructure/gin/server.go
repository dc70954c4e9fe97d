package gin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/jwt"
	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
)

// ServerBuilder assembles a Server fluently.
type ServerBuilder struct {
	cfg    Config
	log    logger.Logger
	routes func(*gin.Engine)
	checks map[string]HealthChecker
}

// NewServerBuilder starts a builder for service listening on port.
func NewServerBuilder(service string, port int) *ServerBuilder {
	return &ServerBuilder{
		cfg:    Config{ServiceName: service, Port: port},
		checks: make(map[string]HealthChecker),
	}
}

func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.log = log
	return b
}

func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.cfg.Debug = debug
	return b
}

func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.cfg.ServiceVersion = version
	return b
}

func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.cfg.ReadTimeout = read
	b.cfg.WriteTimeout = write
	b.cfg.IdleTimeout = idle
	return b
}

func (b *ServerBuilder) WithCORSOrigins(origins []string) *ServerBuilder {
	b.cfg.CORS.AllowedOrigins = origins
	return b
}

// WithHealthCheck registers a named dependency check on GET /health.
func (b *ServerBuilder) WithHealthCheck(name string, check HealthChecker) *ServerBuilder {
	b.checks[name] = check
	return b
}

// WithRoutes sets the function that mounts service routes.
func (b *ServerBuilder) WithRoutes(routes func(*gin.Engine)) *ServerBuilder {
	b.routes = routes
	return b
}

// Build wires middleware, health routes and service routes.
func (b *ServerBuilder) Build() *Server {
	if b.log == nil {
		b.log = logger.NewNop()
	}
	return NewServer(b.cfg, b.log, func(router *gin.Engine) {
		RegisterHealthRoutes(router, b.cfg.ServiceName, b.cfg.ServiceVersion, b.checks)
		if b.routes != nil {
			b.routes(router)
		}
	})
}

// Server is an http.Server around a gin engine.
type Server struct {
	cfg    Config
	router *gin.Engine
	srv    *http.Server
	log    logger.Logger
}

// NewServer applies recovery, request id, access log and CORS middleware in
// that order, then lets setup mount routes.
func NewServer(cfg Config, log logger.Logger, setup func(*gin.Engine)) *Server {
	cfg.SetDefaults()
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		RecoveryMiddleware(log),
		RequestIDLoggerMiddleware(log),
		LoggerMiddleware(log),
		CORSMiddleware(cfg.CORS),
	)
	if setup != nil {
		setup(router)
	}

	return &Server{
		cfg:    cfg,
		router: router,
		log:    log,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Router exposes the engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks serving until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		logger.String("address", s.srv.Addr),
		logger.String("service", s.cfg.ServiceName),
		logger.String("version", s.cfg.ServiceVersion),
	)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains connections within the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

// Run serves until SIGINT/SIGTERM or ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		s.log.Info("Shutdown requested")
	}

	//nolint:contextcheck // the parent context is already done here
	return s.Shutdown(context.Background())
}

// ProtectedGroup mounts path behind JWT authentication. With an empty
// secret the group is left open and handlers see no identity.
func ProtectedGroup(router gin.IRouter, path, jwtSecret string) *gin.RouterGroup {
	group := router.Group(path)
	if jwtSecret != "" {
		group.Use(jwt.Middleware(jwtSecret))
	}
	return group
}
