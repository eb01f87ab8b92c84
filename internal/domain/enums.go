package domain

// SubjectKind tags what a session is timing.
type SubjectKind string

const (
	SubjectTask    SubjectKind = "task"
	SubjectSubtask SubjectKind = "subtask"
)

// IsValid reports whether k is a known subject kind.
func (k SubjectKind) IsValid() bool {
	return k == SubjectTask || k == SubjectSubtask
}

// SubjectStatus is the progress state of a task or subtask.
type SubjectStatus string

const (
	SubjectTodo       SubjectStatus = "todo"
	SubjectInProgress SubjectStatus = "in_progress"
	SubjectDone       SubjectStatus = "done"
)

// IsValid reports whether s is a known subject status.
func (s SubjectStatus) IsValid() bool {
	return s == SubjectTodo || s == SubjectInProgress || s == SubjectDone
}
