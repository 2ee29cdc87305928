package entity

import "time"

// Task belongs to exactly one user. Status true means done.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UserID      string    `json:"userId"`
}

// TaskFilter narrows a task listing. Status nil means any status.
type TaskFilter struct {
	UserID string
	Status *bool
	Search string
	Page   int
	Limit  int
}

func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TaskPatch carries the fields of a partial update; nil fields are left alone.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *bool
}
