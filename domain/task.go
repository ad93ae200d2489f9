package domain

// Task is a titled, completable to-do item. ID is assigned once by the store.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// NewTask validates the inputs of a create call and returns an unsaved task.
func NewTask(title *string, completed *bool) (*Task, error) {
	if title == nil || *title == "" {
		return nil, ErrTitleRequired
	}
	task := &Task{Title: *title}
	if completed != nil {
		task.Completed = *completed
	}
	return task, nil
}

// Validate rejects patches that would blank out the title.
func (p TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return ErrTitleRequired
	}
	return nil
}

// Apply copies the provided fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
