package battle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryCreateGetSave(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := &Battle{ID: "b1", Mode: ModeFastest, QuestionIDs: []string{"q1"}}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, []string{"q1"}, got.QuestionIDs)

	got.Finished = true
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, again.Finished)
}

func TestMemoryRepositoryDuplicateCreate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Battle{ID: "b1"}))
	err := repo.Create(ctx, &Battle{ID: "b1"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryRepositoryGetMissing(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryClonesState(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := &Battle{ID: "b1", Participants: []Participant{{ID: "u1"}}}
	require.NoError(t, repo.Create(ctx, b))

	// mutating the original after Create must not leak into the store
	b.Participants[0].Score = 99

	got, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Participants[0].Score)

	// mutating a loaded copy must not leak either
	got.Participants[0].Score = 42
	again, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Participants[0].Score)
}
