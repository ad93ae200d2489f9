package domain

import "testing"

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestNewTask(t *testing.T) {
	task, err := NewTask(strPtr("buy milk"), nil)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Title != "buy milk" || task.Completed {
		t.Fatalf("task = %+v", task)
	}

	done, err := NewTask(strPtr("x"), boolPtr(true))
	if err != nil || !done.Completed {
		t.Fatalf("completed not applied: %+v %v", done, err)
	}

	for _, title := range []*string{nil, strPtr("")} {
		if _, err := NewTask(title, nil); err != ErrTitleRequired {
			t.Fatalf("err = %v, want ErrTitleRequired", err)
		}
	}
}

func TestTaskPatch(t *testing.T) {
	task := Task{ID: 1, Title: "a", Completed: false}

	TaskPatch{Completed: boolPtr(true)}.Apply(&task)
	if task.Title != "a" || !task.Completed {
		t.Fatalf("completed patch: %+v", task)
	}

	TaskPatch{Title: strPtr("b")}.Apply(&task)
	if task.Title != "b" || !task.Completed || task.ID != 1 {
		t.Fatalf("title patch: %+v", task)
	}

	if err := (TaskPatch{Title: strPtr("")}).Validate(); err != ErrTitleRequired {
		t.Fatalf("empty title accepted: %v", err)
	}
	if err := (TaskPatch{}).Validate(); err != nil {
		t.Fatalf("empty patch rejected: %v", err)
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsDomainError(ErrTaskNotFound, ErrCodeNotFound) {
		t.Fatal("ErrTaskNotFound not classified as NOT_FOUND")
	}
	wrapped := WrapError(ErrCodeInternal, "save failed", ErrInvalidPayload)
	if wrapped.Error() != "save failed: invalid payload" {
		t.Fatalf("Error() = %q", wrapped.Error())
	}
	if Message(wrapped) != "save failed" {
		t.Fatalf("Message = %q", Message(wrapped))
	}
	if got := InvalidCredentials("m294").Message; got != "invalid credentials, use «m294» as password" {
		t.Fatalf("InvalidCredentials = %q", got)
	}
}
