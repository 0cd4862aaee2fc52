package battle

import (
	"context"
	"fmt"
	"sync"
)

// Repository abstracts battle state storage. Implementations return deep
// copies; callers never share mutable battle state with the store.
type Repository interface {
	Create(ctx context.Context, b *Battle) error
	Get(ctx context.Context, battleID string) (*Battle, error)
	Save(ctx context.Context, b *Battle) error
}

// MemoryRepository keeps battles in an in-process map. Suitable for tests and
// single-node deployments.
type MemoryRepository struct {
	mu      sync.RWMutex
	battles map[string]*Battle
}

// NewMemoryRepository creates an empty in-memory battle store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{battles: make(map[string]*Battle)}
}

// Create stores a new battle, failing if the id is taken.
func (r *MemoryRepository) Create(ctx context.Context, b *Battle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.battles[b.ID]; exists {
		return fmt.Errorf("battle %s: %w", b.ID, ErrAlreadyExists)
	}
	r.battles[b.ID] = b.Clone()
	return nil
}

// Get returns a copy of the battle or ErrNotFound.
func (r *MemoryRepository) Get(ctx context.Context, battleID string) (*Battle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.battles[battleID]
	if !exists {
		return nil, fmt.Errorf("battle %s: %w", battleID, ErrNotFound)
	}
	return b.Clone(), nil
}

// Save overwrites the stored battle state.
func (r *MemoryRepository) Save(ctx context.Context, b *Battle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.battles[b.ID] = b.Clone()
	return nil
}
