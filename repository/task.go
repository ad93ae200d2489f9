package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

// TaskRepository stores tasks. Implementations assign ids and never reuse them.
type TaskRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
