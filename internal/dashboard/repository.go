package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

// ErrNotFound is returned when nothing was saved for the user yet.
var ErrNotFound = errors.New("not found")

// Repository defines the data access interface for the user dashboard.
type Repository interface {
	GetUserData(ctx context.Context, userID string) (domain.UserData, error)
	SaveUserData(ctx context.Context, userID string, u domain.UserData) error
	GetTaskBoard(ctx context.Context, userID string) (domain.TaskBoard, error)
	SaveTaskBoard(ctx context.Context, userID string, b domain.TaskBoard) error
}

// KVRepository implements Repository on a key-value store.
type KVRepository struct {
	store ports.KeyValueStore
}

// NewKVRepository creates a new KVRepository.
func NewKVRepository(store ports.KeyValueStore) *KVRepository {
	return &KVRepository{store: store}
}

func userDataKey(userID string) string  { return "userData_" + userID }
func userTasksKey(userID string) string { return "userTasks_" + userID }

func (r *KVRepository) GetUserData(ctx context.Context, userID string) (domain.UserData, error) {
	var u domain.UserData
	err := r.get(ctx, userDataKey(userID), &u)
	return u, err
}

func (r *KVRepository) SaveUserData(ctx context.Context, userID string, u domain.UserData) error {
	return r.set(ctx, userDataKey(userID), u)
}

func (r *KVRepository) GetTaskBoard(ctx context.Context, userID string) (domain.TaskBoard, error) {
	var b domain.TaskBoard
	err := r.get(ctx, userTasksKey(userID), &b)
	return b, err
}

func (r *KVRepository) SaveTaskBoard(ctx context.Context, userID string, b domain.TaskBoard) error {
	return r.set(ctx, userTasksKey(userID), b)
}

func (r *KVRepository) get(ctx context.Context, key string, v any) error {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
