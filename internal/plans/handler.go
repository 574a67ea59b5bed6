package plans

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/util"
)

// Config holds the simulated processing latencies.
type Config struct {
	GenerateLatency time.Duration
	TaskLatency     time.Duration
}

// Handler serves the mocked plan API.
type Handler struct {
	repo   Repository
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(repo Repository, cfg Config, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.PlanRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid plan request", zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, MsgGenerateFailed)
		return
	}

	if err := sleep(ctx, h.cfg.GenerateLatency); err != nil {
		return
	}

	plan := Build(NewPlanID(h.now()), req)
	if err := h.repo.Save(ctx, plan); err != nil {
		h.logger.Error("failed to save plan", zap.String("plan_id", plan.PlanID), zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, MsgGenerateFailed)
		return
	}

	h.logger.Info("plan generated",
		zap.String("plan_id", plan.PlanID),
		zap.String("user_id", req.UserID),
		zap.String("profile", string(req.Profile)),
	)
	util.WriteJSON(w, http.StatusOK, plan)
}

// Get returns the stored plan, or the generic template for unknown ids.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.load(r.Context(), chi.URLParam(r, "planId"))
	if err != nil {
		h.logger.Error("failed to load plan", zap.Error(err))
		util.WriteError(w, http.StatusNotFound, MsgPlanNotFound)
		return
	}
	util.WriteJSON(w, http.StatusOK, plan)
}

// CompleteTask marks a task of a stored plan as completed. Plans that were
// never stored here accept any task without persisting anything.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	planID := chi.URLParam(r, "planId")
	taskID := chi.URLParam(r, "taskId")

	if err := sleep(ctx, h.cfg.TaskLatency); err != nil {
		return
	}

	plan, err := h.repo.Get(ctx, planID)
	switch {
	case errors.Is(err, domain.ErrPlanNotFound):
	case err != nil:
		h.logger.Error("failed to load plan", zap.String("plan_id", planID), zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, MsgTaskFailed)
		return
	default:
		if !plan.MarkTask(taskID) {
			util.WriteError(w, http.StatusNotFound, MsgTaskFailed)
			return
		}
		if err := h.repo.Save(ctx, *plan); err != nil {
			h.logger.Error("failed to save plan", zap.String("plan_id", planID), zap.Error(err))
			util.WriteError(w, http.StatusInternalServerError, MsgTaskFailed)
			return
		}
	}

	util.WriteJSON(w, http.StatusOK, domain.TaskCompletion{
		Success:  true,
		PlanID:   planID,
		TaskID:   taskID,
		XPEarned: taskXP,
		Message:  MsgTaskCompleted,
		Badge:    CompletionBadge,
	})
}

// Page renders the plan summary as HTML.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plan, err := h.load(ctx, chi.URLParam(r, "planId"))
	if err != nil {
		http.Error(w, MsgPlanNotFound, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := PlanPage(*plan).Render(ctx, w); err != nil {
		h.logger.Error("failed to render plan page", zap.Error(err))
	}
}

func (h *Handler) load(ctx context.Context, planID string) (*domain.Plan, error) {
	plan, err := h.repo.Get(ctx, planID)
	if errors.Is(err, domain.ErrPlanNotFound) {
		generic := Generic(planID)
		return &generic, nil
	}
	return plan, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
