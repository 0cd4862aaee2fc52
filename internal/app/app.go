package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/luna-ray-dot/flashcard/internal/battle"
	"github.com/luna-ray-dot/flashcard/internal/card"
	"github.com/luna-ray-dot/flashcard/internal/config"
	"github.com/luna-ray-dot/flashcard/internal/history"
	"github.com/luna-ray-dot/flashcard/internal/logging"
	"github.com/luna-ray-dot/flashcard/internal/server"
	"github.com/luna-ray-dot/flashcard/internal/suggest"
	"github.com/luna-ray-dot/flashcard/internal/xp"
	ws "github.com/luna-ray-dot/flashcard/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis, the battle core and the
// HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	// Card lookups: Postgres repo behind a Redis read-through cache.
	cardRepo := card.NewRepository(pool)
	cardCache := card.NewCache(redisClient, 0)
	cardSvc := card.NewService(cardRepo, cardCache, logger)

	historySvc := history.NewService(redisClient, cfg.Battle.SkillWindow, logger)
	xpSvc := xp.NewService(redisClient, logger, xp.ServiceOptions{})

	var suggester battle.AnswerSuggester
	if cfg.Suggester.URL != "" {
		suggester = suggest.NewClient(suggest.Config{
			URL:     cfg.Suggester.URL,
			APIKey:  cfg.Suggester.APIKey,
			Model:   cfg.Suggester.Model,
			Timeout: cfg.Suggester.HTTPTimeout,
		}, logger)
		logger.Info().Msg("answer suggester initialized")
	} else {
		logger.Warn().Msg("SUGGESTER_URL not configured; ai answers use placeholder text")
	}

	aiCfg := battle.DefaultAIConfig()
	aiCfg.BaseAccuracy = cfg.Battle.AIBaseAccuracy
	aiCfg.BaseDelay = cfg.Battle.AIBaseDelay
	aiCfg.Jitter = cfg.Battle.AIJitter
	aiCfg.SkillWindow = cfg.Battle.SkillWindow
	aiController := battle.NewAIController(aiCfg, historySvc, suggester, logger)

	var battleRepo battle.Repository
	switch cfg.Battle.Store {
	case "memory":
		battleRepo = battle.NewMemoryRepository()
		logger.Warn().Msg("using in-memory battle store; state is lost on restart")
	default:
		battleRepo = battle.NewRedisRepository(redisClient, cfg.Battle.StateTTL, logger)
	}

	session := battle.NewSession(battleRepo, &cardLookup{svc: cardSvc}, aiController, battle.SessionOptions{
		History:             historySvc,
		XP:                  xpSvc,
		SimilarityThreshold: cfg.Battle.SimilarityThreshold,
	}, logger)

	wsHub := ws.NewHub(logger)
	battleWSHandler := battle.NewHandler(session, wsHub, logger)
	session.SetNotifier(battleWSHandler)

	battleHandlers := battle.NewHTTPHandlers(session, logger)
	leaderboardHandler := xp.NewHTTPHandler(xpSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, server.Handlers{
		Battle:             battleHandlers,
		BattleWS:           battleWSHandler.HandleWebSocket,
		LeaderboardHandler: leaderboardHandler.HandleGet,
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

// cardLookup narrows the card service to the battle core's view of a card.
type cardLookup struct {
	svc *card.Service
}

func (c *cardLookup) GetCard(ctx context.Context, questionID string) (*battle.Card, error) {
	cd, err := c.svc.GetCard(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return &battle.Card{
		ID:                cd.ID,
		Prompt:            cd.Prompt,
		CanonicalAnswer:   cd.CanonicalAnswer,
		AcceptableAnswers: cd.AcceptableAnswers,
	}, nil
}
