package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultWindow = 50
	defaultTTL    = 30 * 24 * time.Hour
)

// Record is one answer outcome in a participant's history, most recent first.
type Record struct {
	Correct   bool      `json:"correct"`
	TimeMs    int64     `json:"time_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Service keeps a bounded per-participant answer history in a Redis list.
// The window caps both storage and how much history feeds skill estimation.
type Service struct {
	redis  *redis.Client
	window int
	ttl    time.Duration
	logger zerolog.Logger
}

// NewService creates a history service (window <= 0 picks 50).
func NewService(client *redis.Client, window int, logger zerolog.Logger) *Service {
	if window <= 0 {
		window = defaultWindow
	}
	return &Service{
		redis:  client,
		window: window,
		ttl:    defaultTTL,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

func (s *Service) key(participantID string) string {
	return fmt.Sprintf("history:answers:%s", participantID)
}

// RecordOutcome prepends one outcome and trims the list to the window.
func (s *Service) RecordOutcome(ctx context.Context, participantID string, correct bool, timeMs int64) error {
	rec := Record{Correct: correct, TimeMs: timeMs, CreatedAt: time.Now()}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	key := s.key(participantID)
	pipe := s.redis.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.window-1))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// RecentAnswers returns up to limit records, most recent first.
func (s *Service) RecentAnswers(ctx context.Context, participantID string, limit int) ([]Record, error) {
	if limit <= 0 || limit > s.window {
		limit = s.window
	}

	raw, err := s.redis.LRange(ctx, s.key(participantID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			s.logger.Warn().Err(err).Str("participant_id", participantID).Msg("skip corrupted history record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// RecentOutcomes returns just the correctness flags, most recent first. This
// is the battle package's SkillSource.
func (s *Service) RecentOutcomes(ctx context.Context, participantID string, limit int) ([]bool, error) {
	records, err := s.RecentAnswers(ctx, participantID, limit)
	if err != nil {
		return nil, err
	}
	outcomes := make([]bool, len(records))
	for i, rec := range records {
		outcomes[i] = rec.Correct
	}
	return outcomes, nil
}
