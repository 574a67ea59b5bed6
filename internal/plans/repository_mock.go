package plans

import (
	"context"

	"github.com/emiliopalmerini/despertar/internal/domain"
)

// MockRepository is a mock implementation of Repository for testing.
type MockRepository struct {
	SaveFunc func(ctx context.Context, plan domain.Plan) error
	GetFunc  func(ctx context.Context, planID string) (*domain.Plan, error)
}

func (m *MockRepository) Save(ctx context.Context, plan domain.Plan) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, plan)
	}
	return nil
}

func (m *MockRepository) Get(ctx context.Context, planID string) (*domain.Plan, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, planID)
	}
	return nil, domain.ErrPlanNotFound
}
