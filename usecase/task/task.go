package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// ListTasks returns every task in insertion order. The result is never nil.
func (uc *UseCase) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) CreateTask(ctx context.Context, title *string, completed *bool) (*domain.Task, error) {
	task, err := domain.NewTask(title, completed)
	if err != nil {
		return nil, err
	}
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task created", zap.Int64("task_id", created.ID))
	return created, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if _, err := uc.tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task updated", zap.Int64("task_id", id))
	return updated, nil
}

// DeleteTask removes the task and returns it as it was before removal.
func (uc *UseCase) DeleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return nil, err
	}
	uc.logger.Debug("task deleted", zap.Int64("task_id", id))
	return task, nil
}

func (uc *UseCase) CountTasks(ctx context.Context) (int, error) {
	return uc.tasks.Count(ctx)
}
