package dashboard

import (
	"context"

	"github.com/emiliopalmerini/despertar/internal/domain"
)

// MockRepository is a mock implementation of Repository for testing.
type MockRepository struct {
	GetUserDataFunc   func(ctx context.Context, userID string) (domain.UserData, error)
	SaveUserDataFunc  func(ctx context.Context, userID string, u domain.UserData) error
	GetTaskBoardFunc  func(ctx context.Context, userID string) (domain.TaskBoard, error)
	SaveTaskBoardFunc func(ctx context.Context, userID string, b domain.TaskBoard) error
}

func (m *MockRepository) GetUserData(ctx context.Context, userID string) (domain.UserData, error) {
	if m.GetUserDataFunc != nil {
		return m.GetUserDataFunc(ctx, userID)
	}
	return domain.UserData{}, ErrNotFound
}

func (m *MockRepository) SaveUserData(ctx context.Context, userID string, u domain.UserData) error {
	if m.SaveUserDataFunc != nil {
		return m.SaveUserDataFunc(ctx, userID, u)
	}
	return nil
}

func (m *MockRepository) GetTaskBoard(ctx context.Context, userID string) (domain.TaskBoard, error) {
	if m.GetTaskBoardFunc != nil {
		return m.GetTaskBoardFunc(ctx, userID)
	}
	return domain.TaskBoard{}, ErrNotFound
}

func (m *MockRepository) SaveTaskBoard(ctx context.Context, userID string, b domain.TaskBoard) error {
	if m.SaveTaskBoardFunc != nil {
		return m.SaveTaskBoardFunc(ctx, userID, b)
	}
	return nil
}
