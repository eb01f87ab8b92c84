package domain

import "time"

// Task is a top-level unit of work that can be timed.
type Task struct {
	ID        string
	Title     string
	Status    SubjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtask belongs to a Task and can be timed on its own.
type Subtask struct {
	ID        string
	TaskID    string
	Title     string
	Status    SubjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subject is the timing-relevant view of either a task or a subtask.
type Subject struct {
	ID     string
	Kind   SubjectKind
	Title  string
	Status SubjectStatus
	// ParentID is the owning task for subtasks, empty for tasks.
	ParentID string
}
