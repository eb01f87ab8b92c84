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
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

type timerService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

// NewTimerService builds a TimerService. A nil clock means time.Now.
func NewTimerService(
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	clock func() time.Time,
	observers ...UseCaseObserver,
) TimerService {
	if clock == nil {
		clock = time.Now
	}
	return &timerService{
		sessions: sessions,
		uow:      uow,
		now:      clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *timerService) Start(ctx context.Context, subjectID string, kind domain.SubjectKind, note string) (session *domain.Session, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subject_id": subjectID, "subject_kind": string(kind)}
	defer func() {
		if session != nil {
			fields["session_id"] = session.ID
		}
		observeUseCase(ctx, s.observer, "timer-start", startedAt, fields, err)
	}()

	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, fmt.Errorf("subject id is required: %w", ErrValidation)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown subject kind %q: %w", kind, ErrValidation)
	}
	note = strings.Join(strings.Fields(note), " ")
	if len(timer.Decode(note)) > 0 {
		return nil, fmt.Errorf("note must not contain timer markers: %w", ErrValidation)
	}

	now := s.now().UTC()
	candidate := &domain.Session{
		ID:          uuid.New().String(),
		SubjectID:   subjectID,
		SubjectKind: kind,
		StartTime:   now,
		EventLog:    note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteSubjectRepo(tx).Get(ctx, subjectID, kind); err != nil {
			return storeError("loading "+string(kind), err)
		}

		txSessions := repository.NewSQLiteSessionRepo(tx)
		open, err := txSessions.FindOpenBySubject(ctx, subjectID, kind)
		switch {
		case err == nil:
			return fmt.Errorf("%s %s has open session %s: %w", kind, subjectID, open.ID, ErrConflict)
		case !isNotFound(err):
			return storeError("checking open sessions", err)
		}

		if err := txSessions.Insert(ctx, candidate); err != nil {
			return storeError("inserting session", err)
		}
		return nil
	})
	if err != nil {
		if !isServiceError(err) {
			err = fmt.Errorf("%w: starting session: %w", ErrStorage, err)
		}
		return nil, err
	}
	return candidate, nil
}

func (s *timerService) Pause(ctx context.Context, id string) (session *domain.Session, err error) {
	startedAt := time.Now()
	defer func() {
		observeUseCase(ctx, s.observer, "timer-pause", startedAt, map[string]any{"session_id": id}, err)
	}()

	return s.appendEvent(ctx, id, func(snap timer.Snapshot, at time.Time) (timer.Event, error) {
		if snap.IsTerminal() {
			return timer.Event{}, fmt.Errorf("pausing stopped session %s: %w", id, ErrInvalidTransition)
		}
		if snap.Status == timer.StatusPaused {
			return timer.Event{}, fmt.Errorf("session %s is already paused: %w", id, ErrInvalidTransition)
		}
		return timer.Paused(at), nil
	})
}

func (s *timerService) Resume(ctx context.Context, id string) (session *domain.Session, err error) {
	startedAt := time.Now()
	defer func() {
		observeUseCase(ctx, s.observer, "timer-resume", startedAt, map[string]any{"session_id": id}, err)
	}()

	return s.appendEvent(ctx, id, func(snap timer.Snapshot, at time.Time) (timer.Event, error) {
		if snap.IsTerminal() {
			return timer.Event{}, fmt.Errorf("resuming stopped session %s: %w", id, ErrInvalidTransition)
		}
		if snap.Status == timer.StatusRunning {
			return timer.Event{}, fmt.Errorf("session %s is already running: %w", id, ErrInvalidTransition)
		}
		return timer.Resumed(at), nil
	})
}

// appendEvent is the shared read-check-append-write path of Pause and
// Resume. next validates the transition against the fresh snapshot.
func (s *timerService) appendEvent(ctx context.Context, id string, next func(timer.Snapshot, time.Time) (timer.Event, error)) (*domain.Session, error) {
	current, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, storeError("loading session "+id, err)
	}

	at := s.now().UTC()
	ev, err := next(current.Snapshot(), at)
	if err != nil {
		return nil, err
	}

	log := timer.Encode(current.EventLog, ev)
	updated, err := s.sessions.Update(ctx, id, domain.SessionUpdate{EventLog: &log, UpdatedAt: at})
	if err != nil {
		return nil, storeError("writing session "+id, err)
	}
	return updated, nil
}

func (s *timerService) Stop(ctx context.Context, id string, comment string) (session *domain.Session, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": id}
	defer func() {
		if session != nil && session.DurationMinutes != nil {
			fields["duration_minutes"] = *session.DurationMinutes
		}
		observeUseCase(ctx, s.observer, "timer-stop", startedAt, fields, err)
	}()

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("stop comment is required: %w", ErrValidation)
	}

	current, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, storeError("loading session "+id, err)
	}
	if !current.IsOpen() {
		return nil, fmt.Errorf("session %s is already stopped: %w", id, ErrInvalidTransition)
	}
	snap := current.Snapshot()

	end := s.now().UTC()
	minutes := timer.FinalDuration(current.StartTime, end, snap)
	log := timer.Encode(current.EventLog, timer.Stopped(end))

	updated, err := s.sessions.Update(ctx, id, domain.SessionUpdate{
		EventLog:        &log,
		EndTime:         &end,
		DurationMinutes: &minutes,
		Comment:         &comment,
		UpdatedAt:       end,
	})
	if err != nil {
		return nil, storeError("writing session "+id, err)
	}
	return updated, nil
}

func (s *timerService) Get(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, storeError("loading session "+id, err)
	}
	return newSessionView(sess, s.now()), nil
}

func (s *timerService) ListOpen(ctx context.Context) ([]*SessionView, error) {
	sessions, err := s.sessions.ListOpen(ctx)
	if err != nil {
		return nil, storeError("listing open sessions", err)
	}
	return newSessionViews(sessions, s.now()), nil
}

func (s *timerService) ListRecent(ctx context.Context, days int) ([]*SessionView, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d: %w", days, ErrValidation)
	}
	now := s.now()
	sessions, err := s.sessions.ListSince(ctx, now.UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, storeError("listing recent sessions", err)
	}
	return newSessionViews(sessions, now), nil
}

func (s *timerService) ListBySubject(ctx context.Context, subjectID string, kind domain.SubjectKind) ([]*SessionView, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, fmt.Errorf("subject id is required: %w", ErrValidation)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown subject kind %q: %w", kind, ErrValidation)
	}
	sessions, err := s.sessions.ListBySubject(ctx, subjectID, kind)
	if err != nil {
		return nil, storeError("listing sessions of "+string(kind)+" "+subjectID, err)
	}
	return newSessionViews(sessions, s.now()), nil
}

func newSessionView(sess *domain.Session, now time.Time) *SessionView {
	snap := sess.Snapshot()
	return &SessionView{
		Session:  sess,
		Snapshot: snap,
		Elapsed:  timer.LiveElapsed(sess.StartTime, now, snap),
		AsOf:     now,
	}
}

func newSessionViews(sessions []*domain.Session, now time.Time) []*SessionView {
	views := make([]*SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, newSessionView(sess, now))
	}
	return views
}
