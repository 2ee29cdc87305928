package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskRepository scopes every lookup by owner; a task owned by someone else
// behaves exactly like a missing one (ErrNotFound).
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, userID, id string) (*entity.Task, error)
	// GetByIDs returns the user's tasks among ids, preserving the order of ids.
	GetByIDs(ctx context.Context, userID string, ids []string) ([]entity.Task, error)
	List(ctx context.Context, f entity.TaskFilter) ([]entity.Task, int, error)
	Update(ctx context.Context, userID, id string, p entity.TaskPatch) (*entity.Task, error)
	Toggle(ctx context.Context, userID, id string) (*entity.Task, error)
	Delete(ctx context.Context, userID, id string) error
}
