package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

// Repository stores generated plans.
type Repository interface {
	Save(ctx context.Context, plan domain.Plan) error
	Get(ctx context.Context, planID string) (*domain.Plan, error)
}

// KVRepository keeps plans as JSON under plan_{planId}.
type KVRepository struct {
	store ports.KeyValueStore
}

func NewKVRepository(store ports.KeyValueStore) *KVRepository {
	return &KVRepository{store: store}
}

func planKey(planID string) string {
	return "plan_" + planID
}

func (r *KVRepository) Save(ctx context.Context, plan domain.Plan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := r.store.Set(ctx, planKey(plan.PlanID), string(raw)); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// Get returns domain.ErrPlanNotFound for unknown ids.
func (r *KVRepository) Get(ctx context.Context, planID string) (*domain.Plan, error) {
	raw, err := r.store.Get(ctx, planKey(planID))
	if errors.Is(err, ports.ErrNotFound) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	var plan domain.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &plan, nil
}
