package memory

import (
	"context"
	"sync"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type taskRepository struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	lastID int64
}

// NewTaskRepository returns an empty in-process task store. Ids start at 1.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{}
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	task := r.tasks[idx]
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	stored := domain.Task{ID: r.lastID, Title: task.Title, Completed: task.Completed}
	r.tasks = append(r.tasks, stored)
	return &stored, nil
}

func (r *taskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	patch.Apply(&r.tasks[idx])
	updated := r.tasks[idx]
	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.ErrTaskNotFound
	}
	r.tasks = append(r.tasks[:idx], r.tasks[idx+1:]...)
	return nil
}

func (r *taskRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks), nil
}

// indexOf expects r.mu to be held.
func (r *taskRepository) indexOf(id int64) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
