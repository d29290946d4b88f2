package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hrviet/daotao/internal/eventlog"
	"github.com/hrviet/daotao/internal/exam"
	"github.com/hrviet/daotao/internal/rbac"
)

// Engine bundles the collaborators the handlers need.
type Engine struct {
	Exams    exam.ExamStore
	Attempts exam.AttemptStore
	Pool     exam.QuestionPool
	Access   exam.AccessFunc
	Events   eventlog.Recorder
}

// SessionManager keeps one live Session per attempt id. The session's own
// lock serializes transitions; the manager only guards the registry map.
type SessionManager struct {
	engine Engine

	mu       sync.Mutex
	sessions map[string]*exam.Session
}

func NewSessionManager(engine Engine) *SessionManager {
	if engine.Events == nil {
		engine.Events = eventlog.Nop{}
	}
	return &SessionManager{engine: engine, sessions: map[string]*exam.Session{}}
}

func (m *SessionManager) config(attemptID *string) exam.SessionConfig {
	return exam.SessionConfig{
		Store: m.engine.Attempts,
		Pool:  m.engine.Pool,
		OnExpired: func() {
			// Timer-forced finalize already persisted; just clean up.
			id := *attemptID
			m.drop(id)
			m.record(context.Background(), eventlog.TypeAttemptFinalized, id,
				map[string]string{"reason": string(exam.ReasonTimeExpired)})
		},
	}
}

func (m *SessionManager) put(s *exam.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Attempt().ID] = s
}

func (m *SessionManager) get(id string) (*exam.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.Close()
		delete(m.sessions, id)
	}
}

func (m *SessionManager) record(ctx context.Context, typ, key string, data any) {
	if err := m.engine.Events.Append(ctx, typ, key, data); err != nil {
		log.Printf("eventlog append %s %s: %v", typ, key, err)
	}
}

// BeginHandler draws the question set and creates the pending attempt.
// POST /exams/{examID}/attempts
func (m *SessionManager) BeginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := rbac.ActorFromContext(r.Context())
		e, err := m.engine.Exams.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeError(w, err)
			return
		}

		var attemptID string
		s, err := exam.Begin(r.Context(), m.config(&attemptID), e, actor)
		if err != nil {
			writeError(w, err)
			return
		}
		attemptID = s.Attempt().ID
		m.put(s)
		m.record(r.Context(), eventlog.TypeAttemptCreated, attemptID,
			map[string]any{"examId": e.ID, "examineeId": actor.EmployeeID, "totalCount": s.Attempt().TotalCount})
		if s.Shortfall() > 0 {
			log.Printf("exam %s: question pool short by %d, serving %d",
				e.ID, s.Shortfall(), s.Attempt().TotalCount)
		}
		writeJSON(w, http.StatusCreated, newSessionView(s))
	}
}

// StartHandler arms the attempt: stamps the start time and starts the clock.
// POST /attempts/{attemptID}/start
func (m *SessionManager) StartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.ownedSession(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Arm(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		m.record(r.Context(), eventlog.TypeAttemptStarted, s.Attempt().ID, nil)
		writeJSON(w, http.StatusOK, newSessionView(s))
	}
}

// ResumeHandler re-enters a persisted attempt, e.g. after a page reload. An
// attempt whose time ran out while away comes back already finalized.
// POST /attempts/{attemptID}/resume
func (m *SessionManager) ResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := rbac.ActorFromContext(r.Context())
		id := chi.URLParam(r, "attemptID")

		m.drop(id) // replace any stale live session for this attempt

		a, err := m.engine.Attempts.GetAttempt(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if a.ExamineeID != actor.EmployeeID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		e, err := m.engine.Exams.GetExam(r.Context(), a.ExamID)
		if err != nil {
			writeError(w, err)
			return
		}

		attemptID := id
		s, err := exam.Resume(r.Context(), m.config(&attemptID), e, a)
		if err != nil {
			writeError(w, err)
			return
		}
		if s.Attempt().Status.Terminal() {
			// Expired on resume; nothing live to keep.
			writeJSON(w, http.StatusOK, newSessionView(s))
			return
		}
		m.put(s)
		writeJSON(w, http.StatusOK, newSessionView(s))
	}
}

// AnswerHandler records a choice in memory. Nothing is persisted until
// submit.
// PUT /attempts/{attemptID}/answers/{index}
func (m *SessionManager) AnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.ownedSession(r)
		if err != nil {
			writeError(w, err)
			return
		}
		idx := parseIntDefault(chi.URLParam(r, "index"), -1)
		var req struct {
			Chosen *int `json:"chosen"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := s.Answer(idx, req.Chosen); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSessionView(s))
	}
}

// SubmitHandler finalizes manually. Blocked while any question is open.
// POST /attempts/{attemptID}/submit
func (m *SessionManager) SubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.ownedSession(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Finalize(r.Context(), exam.ReasonManualSubmit); err != nil {
			writeError(w, err)
			return
		}
		a := s.Attempt()
		m.drop(a.ID)
		m.record(r.Context(), eventlog.TypeAttemptFinalized, a.ID,
			map[string]any{"reason": string(exam.ReasonManualSubmit), "status": a.Status, "correctCount": a.CorrectCount})
		writeJSON(w, http.StatusOK, newSessionView(s))
	}
}

// ownedSession finds the live session for the URL's attempt and checks the
// caller owns it. Attempt records are single-writer: only the examinee's own
// session mutates them.
func (m *SessionManager) ownedSession(r *http.Request) (*exam.Session, error) {
	actor, _ := rbac.ActorFromContext(r.Context())
	id := chi.URLParam(r, "attemptID")
	s, ok := m.get(id)
	if !ok {
		return nil, exam.ErrNotFound
	}
	if s.Attempt().ExamineeID != actor.EmployeeID {
		return nil, exam.ErrNotEligible
	}
	return s, nil
}
