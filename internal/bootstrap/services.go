package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	infraredis "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/redis"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/aiclient"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/classifier"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/complaint"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/config"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/database"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/stats"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

// Services holds the wired domain components.
type Services struct {
	Directory  *directory.Directory
	Entities   *directory.Manager
	Complaints *complaint.Service
	Stats      *stats.Service
	Publisher  *events.Publisher
	AIEnabled  bool

	redis *redis.Client
}

func (s *Services) closeRedis() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

// SetupDomain builds the directory, classifier chain, lifecycle service and
// statistics over the database store.
func SetupDomain(
	ctx context.Context,
	cfg *config.Config,
	db *sqlx.DB,
	log logger.Logger,
	tp *telemetry.Provider,
) (*Services, error) {
	store := database.NewStore(db)

	dir, err := directory.Load(ctx, store, log)
	if err != nil {
		return nil, fmt.Errorf("load entity directory: %w", err)
	}

	orchestrator := SetupClassifier(cfg, dir, log, tp)
	redisClient, publisher := SetupEventPublisher(ctx, cfg, log, tp)

	complaints := complaint.NewService(complaint.Deps{
		Complaints: store,
		Comments:   store,
		Classifier: orchestrator,
		Directory:  dir,
		Events:     publisher,
		Logger:     log,
		Telemetry:  tp,
	})

	return &Services{
		Directory:  dir,
		Entities:   directory.NewManager(dir, store, store, log),
		Complaints: complaints,
		Stats:      stats.NewService(store, dir, log, tp),
		Publisher:  publisher,
		AIEnabled:  orchestrator.AIEnabled(),
		redis:      redisClient,
	}, nil
}

// SetupClassifier builds the keyword classifier and, when configured, the AI
// tier in front of it.
func SetupClassifier(
	cfg *config.Config,
	dir *directory.Directory,
	log logger.Logger,
	tp *telemetry.Provider,
) *classifier.Orchestrator {
	keyword := classifier.NewKeywordClassifier(classifier.DefaultKeywords(), dir, tp)
	aiCfg := cfg.Classification.AI

	var ai *classifier.AIClassifier
	client, err := aiclient.New(aiCfg.Config)
	switch {
	case errors.Is(err, aiclient.ErrNotConfigured):
		log.Info("AI classification disabled, using keywords only")
	case err != nil:
		log.Warn("AI provider unavailable, using keywords only", logger.Error(err))
	default:
		ai = classifier.NewAIClassifier(client, dir, tp)
		log.Info("AI classification enabled",
			logger.String("provider", client.Name()),
			logger.String("model", aiCfg.Model))
	}

	return classifier.NewOrchestrator(keyword, ai, classifier.OrchestratorConfig{
		Timeout:                 aiCfg.Timeout,
		RatePerSecond:           aiCfg.RateLimitPerSecond,
		Burst:                   aiCfg.Burst,
		BreakerFailureThreshold: aiCfg.BreakerFailureThreshold,
		BreakerOpenTimeout:      aiCfg.BreakerTimeout,
	}, log, tp)
}

// SetupEventPublisher creates an optional event publisher if Redis is enabled.
// Returns nil if Redis is disabled or unavailable.
func SetupEventPublisher(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	tp *telemetry.Provider,
) (*redis.Client, *events.Publisher) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	client, err := infraredis.NewClient(ctx, cfg.Redis.Config)
	if err != nil {
		log.Warn("Redis not available, events disabled", logger.Error(err))
		return nil, nil
	}

	log.Info("Event publisher initialized",
		logger.String("redis_address", cfg.Redis.Address),
		logger.String("stream", cfg.Redis.Stream))
	return client, events.NewPublisher(client, cfg.Redis.Stream, cfg.Redis.StreamMaxLen, log, tp)
}
