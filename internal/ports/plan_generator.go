package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/despertar/internal/domain"
)

// CallOptions tune a single call to the plan API. Zero values use the
// client's defaults.
type CallOptions struct {
	Timeout  time.Duration
	MinDelay time.Duration
}

// PlanGenerator is the remote plan API as seen by the flow controller.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req domain.PlanRequest, opts CallOptions) (*domain.Plan, error)
	GetPlan(ctx context.Context, planID string, opts CallOptions) (*domain.Plan, error)
	CompleteTask(ctx context.Context, planID, taskID string, opts CallOptions) (*domain.TaskCompletion, error)
}
