package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/whiteindia/selftrack-sub002/internal/db"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/repository"
)

type subjectService struct {
	subjects repository.SubjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSubjectService(subjects repository.SubjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SubjectService {
	return &subjectService{
		subjects: subjects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *subjectService) CreateTask(ctx context.Context, title string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("task title is required: %w", ErrValidation)
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.SubjectTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subjects.CreateTask(ctx, task); err != nil {
		return nil, storeError("creating task", err)
	}
	return task, nil
}

func (s *subjectService) CreateSubtask(ctx context.Context, taskID, title string) (*domain.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("subtask title is required: %w", ErrValidation)
	}

	now := time.Now().UTC()
	sub := &domain.Subtask{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		Title:     title,
		Status:    domain.SubjectTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubjects := repository.NewSQLiteSubjectRepo(tx)
		if _, err := txSubjects.GetTask(ctx, taskID); err != nil {
			return storeError("loading task "+taskID, err)
		}
		if err := txSubjects.CreateSubtask(ctx, sub); err != nil {
			return storeError("creating subtask", err)
		}
		return nil
	})
	if err != nil {
		if !isServiceError(err) {
			err = fmt.Errorf("%w: creating subtask: %w", ErrStorage, err)
		}
		return nil, err
	}
	return sub, nil
}

func (s *subjectService) Get(ctx context.Context, id string, kind domain.SubjectKind) (*domain.Subject, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown subject kind %q: %w", kind, ErrValidation)
	}
	subj, err := s.subjects.Get(ctx, id, kind)
	if err != nil {
		return nil, storeError("loading "+string(kind)+" "+id, err)
	}
	return subj, nil
}

func (s *subjectService) List(ctx context.Context) ([]*domain.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, storeError("listing subjects", err)
	}
	return subjects, nil
}

// MarkInProgress moves a subject to in_progress. Callers invoke it after a
// successful Start; the timer engine itself never touches subject status.
func (s *subjectService) MarkInProgress(ctx context.Context, id string, kind domain.SubjectKind) (err error) {
	startedAt := time.Now()
	defer func() {
		observeUseCase(ctx, s.observer, "subject-in-progress", startedAt,
			map[string]any{"subject_id": id, "subject_kind": string(kind)}, err)
	}()

	if !kind.IsValid() {
		return fmt.Errorf("unknown subject kind %q: %w", kind, ErrValidation)
	}
	if err := s.subjects.UpdateStatus(ctx, id, kind, domain.SubjectInProgress); err != nil {
		return storeError("updating "+string(kind)+" "+id, err)
	}
	return nil
}
