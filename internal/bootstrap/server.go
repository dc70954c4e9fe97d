package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	infragin "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/gin"
	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/api"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/config"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *sqlx.DB,
	deps *Services,
	log logger.Logger,
	tp *telemetry.Provider,
) *infragin.Server {
	handler := api.NewHandler(deps.Complaints, deps.Directory, deps.Entities, deps.Stats, log)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.AllowedOrigins).
		WithHealthCheck("database", infragin.PingChecker(db.PingContext, infragin.HealthStatusUnhealthy)).
		WithRoutes(func(router *gin.Engine) {
			router.GET("/metrics", gin.WrapH(tp.Handler()))
			api.SetupRoutes(router, handler, cfg.Auth.JWTSecret)
		})
	if deps.redis != nil {
		builder.WithHealthCheck("redis", infragin.PingChecker(func(ctx context.Context) error {
			return deps.redis.Ping(ctx).Err()
		}, infragin.HealthStatusDegraded))
	}
	return builder.Build()
}
