package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/luna-ray-dot/flashcard/internal/battle"
	"github.com/luna-ray-dot/flashcard/internal/config"
)

// Handlers groups the route handlers the server exposes. Battle handlers are
// required; the rest can be nil while a deployment is partially configured.
type Handlers struct {
	Battle             *battle.HTTPHandlers
	BattleWS           http.HandlerFunc
	LeaderboardHandler http.HandlerFunc
}

// NewHTTPServer wires base routes (health, metrics) plus the battle API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, handlers Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redis); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if handlers.Battle != nil {
		mux.HandleFunc("POST /v1/battles", handlers.Battle.CreateBattle)
		mux.HandleFunc("GET /v1/battles/{battleID}", handlers.Battle.GetBattle)
		mux.HandleFunc("POST /v1/battles/{battleID}/join", handlers.Battle.JoinBattle)
		mux.HandleFunc("POST /v1/battles/{battleID}/answers", handlers.Battle.SubmitAnswer)
	}

	if handlers.BattleWS != nil {
		mux.HandleFunc("/ws/battles", handlers.BattleWS)
	} else {
		mux.HandleFunc("/ws/battles", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "WebSocket handler not yet integrated", http.StatusNotImplemented)
		})
	}

	if handlers.LeaderboardHandler != nil {
		mux.HandleFunc("GET /v1/leaderboard", handlers.LeaderboardHandler)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
