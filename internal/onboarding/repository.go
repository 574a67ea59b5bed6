package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

var ErrFlowNotFound = errors.New("onboarding flow not found")

// Repository persists onboarding flows by user id.
type Repository interface {
	Save(ctx context.Context, f *domain.Flow) error
	Get(ctx context.Context, userID string) (*domain.Flow, error)
}

// KVRepository keeps flows as JSON under onboarding_{userId}.
type KVRepository struct {
	store ports.KeyValueStore
}

func NewKVRepository(store ports.KeyValueStore) *KVRepository {
	return &KVRepository{store: store}
}

func flowKey(userID string) string {
	return "onboarding_" + userID
}

func (r *KVRepository) Save(ctx context.Context, f *domain.Flow) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode flow: %w", err)
	}
	if err := r.store.Set(ctx, flowKey(f.UserID), string(raw)); err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}
	return nil
}

func (r *KVRepository) Get(ctx context.Context, userID string) (*domain.Flow, error) {
	raw, err := r.store.Get(ctx, flowKey(userID))
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}
	var f domain.Flow
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("failed to decode flow: %w", err)
	}
	return &f, nil
}
