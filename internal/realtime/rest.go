package realtime

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/service"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

const defaultRecentDays = 7

type startSessionRequest struct {
	SubjectID   string `json:"subjectId"`
	SubjectKind string `json:"subjectKind"`
	Note        string `json:"note"`
}

type stopSessionRequest struct {
	Comment string `json:"comment"`
}

// sessionResponse is the JSON view of a session and its derived timer state.
type sessionResponse struct {
	ID              string     `json:"id"`
	SubjectID       string     `json:"subjectId"`
	SubjectKind     string     `json:"subjectKind"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	EventLog        string     `json:"eventLog"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Comment         string     `json:"comment,omitempty"`
	Status          string     `json:"status"`
	TotalPausedMs   int64      `json:"totalPausedMs"`
	LastPauseAt     *time.Time `json:"lastPauseAt,omitempty"`
	ElapsedMs       int64      `json:"elapsedMs"`
	Clock           string     `json:"clock"`
}

func newSessionResponse(sess *domain.Session, snap timer.Snapshot, elapsed time.Duration) sessionResponse {
	return sessionResponse{
		ID:              sess.ID,
		SubjectID:       sess.SubjectID,
		SubjectKind:     string(sess.SubjectKind),
		StartTime:       sess.StartTime,
		EndTime:         sess.EndTime,
		EventLog:        sess.EventLog,
		DurationMinutes: sess.DurationMinutes,
		Comment:         sess.Comment,
		Status:          string(snap.Status),
		TotalPausedMs:   snap.TotalPaused.Milliseconds(),
		LastPauseAt:     snap.LastPauseAt,
		ElapsedMs:       elapsed.Milliseconds(),
		Clock:           timer.FormatClock(elapsed),
	}
}

func viewResponse(v *service.SessionView) sessionResponse {
	return newSessionResponse(v.Session, v.Snapshot, v.Elapsed)
}

// sessionResponseAt derives the view of a freshly written session.
func (s *Server) sessionResponseAt(sess *domain.Session) sessionResponse {
	return newSessionResponse(sess, sess.Snapshot(), sess.Elapsed(s.now()))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := domain.SubjectKind(req.SubjectKind)
	sess, err := s.timers.Start(r.Context(), req.SubjectID, kind, req.Note)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// Moving the subject along is the caller's job, and a failure here
	// must not undo a started timer.
	if err := s.subjects.MarkInProgress(r.Context(), sess.SubjectID, sess.SubjectKind); err != nil {
		s.logger.WarnContext(r.Context(), "mark_in_progress_failed",
			"subject_id", sess.SubjectID, "error", err.Error())
	}

	writeJSON(w, http.StatusCreated, s.sessionResponseAt(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var views []*service.SessionView
	var err error
	switch open, _ := strconv.ParseBool(q.Get("open")); {
	case q.Get("subject") != "":
		kind := domain.SubjectKind(q.Get("kind"))
		if kind == "" {
			kind = domain.SubjectTask
		}
		views, err = s.timers.ListBySubject(r.Context(), q.Get("subject"), kind)
	case open:
		views, err = s.timers.ListOpen(r.Context())
	default:
		days := defaultRecentDays
		if v := q.Get("days"); v != "" {
			n, convErr := strconv.Atoi(v)
			if convErr != nil {
				writeJSONError(w, http.StatusBadRequest, "days must be an integer")
				return
			}
			days = n
		}
		views, err = s.timers.ListRecent(r.Context(), days)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]sessionResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, viewResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.timers.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse(view))
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.timers.Pause(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponseAt(sess))
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.timers.Resume(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponseAt(sess))
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	var req stopSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.timers.Stop(r.Context(), r.PathValue("id"), req.Comment)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponseAt(sess))
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request_failed", "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
