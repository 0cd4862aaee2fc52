package card

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	cards map[string]*Card
	calls int
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*Card, error) {
	s.calls++
	c, ok := s.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

type stubCache struct {
	store  map[string]*Card
	getErr error
	setErr error
}

func (s *stubCache) Get(ctx context.Context, id string) (*Card, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.store[id], nil
}

func (s *stubCache) Set(ctx context.Context, card Card) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.store[card.ID] = &card
	return nil
}

func TestGetCardReadThrough(t *testing.T) {
	repo := &stubRepo{cards: map[string]*Card{"c1": {ID: "c1", CanonicalAnswer: "Paris"}}}
	cache := &stubCache{store: map[string]*Card{}}
	svc := NewService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	got, err := svc.GetCard(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.CanonicalAnswer)
	assert.Equal(t, 1, repo.calls)

	// second read served from cache
	_, err = svc.GetCard(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestGetCardCacheFailureFallsBack(t *testing.T) {
	repo := &stubRepo{cards: map[string]*Card{"c1": {ID: "c1"}}}
	cache := &stubCache{store: map[string]*Card{}, getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := NewService(repo, cache, zerolog.Nop())

	got, err := svc.GetCard(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
}

func TestGetCardMissing(t *testing.T) {
	repo := &stubRepo{cards: map[string]*Card{}}
	svc := NewService(repo, nil, zerolog.Nop())

	_, err := svc.GetCard(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCardNilCache(t *testing.T) {
	repo := &stubRepo{cards: map[string]*Card{"c1": {ID: "c1"}}}
	svc := NewService(repo, nil, zerolog.Nop())

	got, err := svc.GetCard(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
}
