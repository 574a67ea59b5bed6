// Package dashboard serves the post-onboarding profile, daily tasks and
// progress stats.
package dashboard

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

const msgSaveFailed = "Não foi possível salvar. Tente novamente."

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Handler struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger, now: time.Now}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, h.userData(r.Context(), chi.URLParam(r, "userId")))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req profileRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := domain.NewUserData(req.Name, req.Email)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.SaveUserData(r.Context(), userID, u); err != nil {
		h.logger.Error("failed to save user data", zap.String("user_id", userID), zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}
	util.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	b := h.taskBoard(r.Context(), chi.URLParam(r, "userId"))
	util.WriteJSON(w, http.StatusOK, b.Tasks)
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	b := h.taskBoard(ctx, userID)
	task, err := b.Complete(chi.URLParam(r, "taskId"), h.now())
	if err != nil {
		util.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := h.repo.SaveTaskBoard(ctx, userID, b); err != nil {
		h.logger.Error("failed to save tasks", zap.String("user_id", userID), zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}
	util.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	b := h.taskBoard(r.Context(), chi.URLParam(r, "userId"))
	util.WriteJSON(w, http.StatusOK, b.Stats(h.now()))
}

// userData falls back to the defaults when nothing usable is stored.
func (h *Handler) userData(ctx context.Context, userID string) domain.UserData {
	u, err := h.repo.GetUserData(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Warn("failed to load user data", zap.String("user_id", userID), zap.Error(err))
		}
		return domain.DefaultUserData
	}
	return u
}

func (h *Handler) taskBoard(ctx context.Context, userID string) domain.TaskBoard {
	b, err := h.repo.GetTaskBoard(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Warn("failed to load tasks", zap.String("user_id", userID), zap.Error(err))
		}
		return domain.NewTaskBoard()
	}
	if len(b.Tasks) == 0 {
		b.Tasks = domain.DefaultDailyTasks()
	}
	return b
}
