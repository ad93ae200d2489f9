package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/fastygo/tasktracker/domain"
)

func TestTaskRepositoryKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := repo.Create(ctx, &domain.Task{Title: title}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	if err := repo.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.Task{Title: "d"}); err != nil {
		t.Fatalf("create d: %v", err)
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var titles []string
	var ids []int64
	for _, task := range tasks {
		titles = append(titles, task.Title)
		ids = append(ids, task.ID)
	}
	if got := len(tasks); got != 3 {
		t.Fatalf("len = %d", got)
	}
	if titles[0] != "a" || titles[1] != "c" || titles[2] != "d" {
		t.Fatalf("titles = %v", titles)
	}
	if ids[2] != 4 {
		t.Fatalf("deleted id reused: %v", ids)
	}
}

func TestTaskRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	created, _ := repo.Create(ctx, &domain.Task{Title: "a"})

	created.Title = "mutated"
	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "a" {
		t.Fatalf("store mutated through returned pointer: %+v", got)
	}

	list, _ := repo.List(ctx)
	list[0].Title = "mutated"
	again, _ := repo.GetByID(ctx, created.ID)
	if again.Title != "a" {
		t.Fatalf("store mutated through list: %+v", again)
	}
}

func TestTaskRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	if _, err := repo.GetByID(ctx, 1); err != domain.ErrTaskNotFound {
		t.Fatalf("get err = %v", err)
	}
	if _, err := repo.Update(ctx, 1, domain.TaskPatch{}); err != domain.ErrTaskNotFound {
		t.Fatalf("update err = %v", err)
	}
	if err := repo.Delete(ctx, 1); err != domain.ErrTaskNotFound {
		t.Fatalf("delete err = %v", err)
	}
	if _, err := repo.Create(ctx, nil); err != domain.ErrInvalidPayload {
		t.Fatalf("create nil err = %v", err)
	}
}

func TestTaskRepositoryConcurrentCreatesGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := repo.Create(ctx, &domain.Task{Title: "t"}); err != nil {
					t.Errorf("create: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	tasks, _ := repo.List(ctx)
	seen := make(map[int64]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
	if n, _ := repo.Count(ctx); n != workers*perWorker {
		t.Fatalf("count = %d", n)
	}
}
