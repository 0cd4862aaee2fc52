package xp

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participant_id"`
	XP            int    `json:"xp"`
}

// ServiceOptions configures the XP service.
type ServiceOptions struct {
	RedisKeyPrefix string // default: "xp"
	TopN           int    // default: 10
}

// Service accumulates experience points in a Redis sorted set and serves the
// top-N leaderboard. Awards are fire-and-forget from the battle's view.
type Service struct {
	redis  *redis.Client
	logger zerolog.Logger
	prefix string
	topN   int
}

// NewService constructs an XP service instance.
func NewService(client *redis.Client, logger zerolog.Logger, opts ServiceOptions) *Service {
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = "xp"
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = 10
	}
	return &Service{
		redis:  client,
		logger: logger.With().Str("component", "xp").Logger(),
		prefix: prefix,
		topN:   topN,
	}
}

func (s *Service) key() string {
	return s.prefix + ":all_time"
}

// AwardPoints increments a participant's total XP.
func (s *Service) AwardPoints(ctx context.Context, participantID string, amount int) error {
	if amount == 0 {
		return nil
	}
	if err := s.redis.ZIncrBy(ctx, s.key(), float64(amount), participantID).Err(); err != nil {
		return fmt.Errorf("award points: %w", err)
	}
	s.logger.Debug().Str("participant_id", participantID).Int("amount", amount).Msg("xp awarded")
	return nil
}

// Top returns the n highest-XP participants (n <= 0 picks the configured
// default).
func (s *Service) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = s.topN
	}

	rows, err := s.redis.ZRevRangeWithScores(ctx, s.key(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard read: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		id, _ := row.Member.(string)
		entries[i] = Entry{
			Rank:          i + 1,
			ParticipantID: id,
			XP:            int(row.Score),
		}
	}
	return entries, nil
}
