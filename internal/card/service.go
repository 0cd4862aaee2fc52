package card

import (
	"context"

	"github.com/rs/zerolog"
)

// cardGetter is the repository surface the service depends on.
type cardGetter interface {
	GetByID(ctx context.Context, id string) (*Card, error)
}

// cardCache is the optional read-through cache surface.
type cardCache interface {
	Get(ctx context.Context, id string) (*Card, error)
	Set(ctx context.Context, card Card) error
}

// Service resolves cards through the cache with a repository fallback. Cache
// failures degrade to repository reads; they are logged, never surfaced.
type Service struct {
	repo   cardGetter
	cache  cardCache
	logger zerolog.Logger
}

// NewService creates the card lookup service. cache may be nil.
func NewService(repo cardGetter, cache cardCache, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "card_service").Logger(),
	}
}

// GetCard returns the card for a question id, or ErrNotFound.
func (s *Service) GetCard(ctx context.Context, id string) (*Card, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("card_id", id).Msg("cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *c); err != nil {
			s.logger.Warn().Err(err).Str("card_id", id).Msg("cache write failed")
		}
	}
	return c, nil
}
