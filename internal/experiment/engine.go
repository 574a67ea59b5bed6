package experiment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

// Engine assigns users to experiment variants. Assignments are computed from
// the user id and persisted so they survive later changes to the weights.
type Engine struct {
	store        ports.KeyValueStore
	registry     *Registry
	forceControl bool
	logger       *zap.Logger
}

// NewEngine creates an engine. With forceControl every user gets variant A
// and nothing is persisted.
func NewEngine(store ports.KeyValueStore, registry *Registry, forceControl bool, logger *zap.Logger) *Engine {
	return &Engine{
		store:        store,
		registry:     registry,
		forceControl: forceControl,
		logger:       logger,
	}
}

// Registry returns the experiments known to the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// ForceControl reports whether the control override is on.
func (e *Engine) ForceControl() bool {
	return e.forceControl
}

// Assign computes the variant without touching the store.
func (e *Engine) Assign(userID string, cfg domain.ExperimentConfig) domain.Variant {
	if e.forceControl {
		return domain.VariantA
	}
	return domain.AssignVariant(userID, cfg)
}

// GetOrCreate returns the stored variant for the user or computes and stores
// a new one. Store failures are logged and never returned: the computed
// variant is used instead.
func (e *Engine) GetOrCreate(ctx context.Context, userID string, cfg domain.ExperimentConfig) domain.Assignment {
	if e.forceControl {
		return newAssignment(userID, cfg, domain.VariantA, false)
	}

	key := domain.AssignmentKey(cfg.Name, userID)
	stored, err := e.store.Get(ctx, key)
	switch {
	case err == nil && domain.Variant(stored).Valid():
		return newAssignment(userID, cfg, domain.Variant(stored), true)
	case err == nil:
		e.logger.Warn("discarding invalid stored variant",
			zap.String("experiment", cfg.Name),
			zap.String("user_id", userID),
			zap.String("value", stored),
		)
	case !errors.Is(err, ports.ErrNotFound):
		e.logger.Warn("failed to read experiment assignment",
			zap.String("experiment", cfg.Name),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	v := domain.AssignVariant(userID, cfg)
	if err := e.store.Set(ctx, key, string(v)); err != nil {
		e.logger.Warn("failed to persist experiment assignment",
			zap.String("experiment", cfg.Name),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	return newAssignment(userID, cfg, v, false)
}

// Get assigns the user in the named experiment.
func (e *Engine) Get(ctx context.Context, userID, experimentName string) (domain.Assignment, error) {
	cfg, err := e.registry.Get(experimentName)
	if err != nil {
		return domain.Assignment{}, err
	}
	return e.GetOrCreate(ctx, userID, cfg), nil
}

// Resolve assigns the user in every known experiment.
func (e *Engine) Resolve(ctx context.Context, userID string) map[string]domain.Assignment {
	out := make(map[string]domain.Assignment, len(e.registry.ordered))
	for _, cfg := range e.registry.ordered {
		out[cfg.Name] = e.GetOrCreate(ctx, userID, cfg)
	}
	return out
}

func newAssignment(userID string, cfg domain.ExperimentConfig, v domain.Variant, sticky bool) domain.Assignment {
	arm := cfg.Variant(v)
	return domain.Assignment{
		Experiment:  cfg.Name,
		UserID:      userID,
		Variant:     v,
		VariantName: arm.Name,
		Config:      arm.Payload,
		Sticky:      sticky,
	}
}
