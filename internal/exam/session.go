package exam

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAnswerOutOfRange rejects an answer index or choice outside the drawn set.
var ErrAnswerOutOfRange = errors.New("exam: answer out of range")

// SessionConfig wires a session to its collaborators. Store and Pool are
// required; Clock defaults to time.Now.
type SessionConfig struct {
	Store AttemptStore
	Pool  QuestionPool
	Clock func() time.Time

	// OnWarning fires once when remaining time crosses the warning window.
	OnWarning func()
	// OnExpired fires after a timer-forced finalize has been persisted.
	OnExpired func()
}

func (c SessionConfig) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// Session owns one attempt's lifecycle: NotStarted -> InProgress ->
// Passed|Failed. All transitions are serialized on an internal lock; the
// timer goroutine and a caller's submit race for the same guard and the
// loser sees a terminal state.
type Session struct {
	mu        sync.Mutex
	cfg       SessionConfig
	exam      Exam
	attempt   Attempt
	questions []ShuffledQuestion
	timer     *TimerController
	shortfall int
}

// Begin draws a fresh question subset for the actor and persists a pending
// attempt. The timer is not started: the attempt stays NotStarted until Arm.
// A failed create aborts the whole start; no session exists afterwards.
func Begin(ctx context.Context, cfg SessionConfig, e Exam, actor Actor) (*Session, error) {
	if e.Status != ExamOpen {
		return nil, ErrExamClosed
	}
	if !actor.EligibleFor(e) {
		return nil, ErrNotEligible
	}

	pool, err := cfg.Pool.ByTopics(ctx, e.TopicIDs)
	if err != nil {
		return nil, err
	}
	res, err := Draw(e, pool)
	if err != nil {
		return nil, err
	}

	a := Attempt{
		ExamID:      e.ID,
		ExamineeID:  actor.EmployeeID,
		AttemptDate: cfg.now().Format("2006-01-02"),
		TotalCount:  len(res.Questions),
		Status:      StatusNotStarted,
		Answers:     res.Details,
	}
	created, err := cfg.Store.Create(ctx, a)
	if err != nil {
		return nil, &PersistenceError{Op: "create", Err: err}
	}

	return &Session{
		cfg:       cfg,
		exam:      e,
		attempt:   created,
		questions: res.Questions,
		shortfall: res.Shortfall(),
	}, nil
}

// Resume re-enters a persisted attempt: the shuffled order is reconstructed
// from the stored permutations, and for an in-progress attempt the remaining
// time is recomputed from the start timestamp. An attempt whose time already
// ran out while away is finalized as expired before Resume returns.
func Resume(ctx context.Context, cfg SessionConfig, e Exam, a Attempt) (*Session, error) {
	if a.Status.Terminal() {
		return nil, &TransitionError{Op: "resume", From: a.Status}
	}

	pool, err := cfg.Pool.ByTopics(ctx, e.TopicIDs)
	if err != nil {
		return nil, err
	}
	questions, err := Restore(a, pool)
	if err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg, exam: e, attempt: a, questions: questions}
	if a.Status != StatusInProgress {
		return s, nil
	}
	if a.StartTime == nil {
		return nil, &IntegrityError{AttemptID: a.ID, Reason: "in-progress attempt has no start time"}
	}
	if !s.deadline().After(cfg.now()) {
		if err := s.Finalize(ctx, ReasonTimeExpired); err != nil {
			return nil, err
		}
		return s, nil
	}
	s.startTimer()
	return s, nil
}

// Arm moves NotStarted -> InProgress: stamps the start time exactly once,
// persists it, then starts the countdown. On a failed write the in-memory
// state stays NotStarted so the caller may retry.
func (s *Session) Arm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt.Status != StatusNotStarted {
		return &TransitionError{Op: "arm", From: s.attempt.Status}
	}
	now := s.cfg.now()
	a := s.attempt
	a.Status = StatusInProgress
	a.StartTime = &now

	updated, err := s.cfg.Store.Update(ctx, a)
	if err != nil {
		return &PersistenceError{Op: "arm", Err: err}
	}
	s.attempt = updated
	s.startTimerLocked()
	return nil
}

// Answer records the chosen canonical position for the question at index.
// In-memory only: nothing is written until finalize, which keeps the write
// volume at one update per attempt.
func (s *Session) Answer(index int, chosen *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt.Status != StatusInProgress {
		return &TransitionError{Op: "answer", From: s.attempt.Status}
	}
	if index < 0 || index >= len(s.attempt.Answers) {
		return ErrAnswerOutOfRange
	}
	if chosen != nil && (*chosen < 1 || *chosen > 4) {
		return ErrAnswerOutOfRange
	}
	s.attempt.Answers[index].Chosen = chosen
	return nil
}

// Finalize completes the attempt. A manual submit is rejected while any
// question is unanswered; a time-expired finalize never is, and fails the
// attempt regardless of score. The full record, including every chosen
// answer, is persisted in one update. Terminal states reject the call.
func (s *Session) Finalize(ctx context.Context, reason FinalizeReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt.Status != StatusInProgress {
		return &TransitionError{Op: "finalize", From: s.attempt.Status}
	}
	if reason == ReasonManualSubmit {
		if idx := s.attempt.FirstUnanswered(); idx >= 0 {
			return &UnansweredError{Index: idx}
		}
	}

	now := s.cfg.now()
	a := s.attempt
	a.CorrectCount = CorrectCount(s.questions, a.Answers)
	a.Status = Verdict(a.CorrectCount, a.TotalCount, reason)
	a.EndTime = &now

	updated, err := s.cfg.Store.Update(ctx, a)
	if err != nil {
		// Still InProgress in memory; the caller decides whether to retry.
		return &PersistenceError{Op: "finalize", Err: err}
	}
	s.attempt = updated
	s.stopTimerLocked()
	return nil
}

// Attempt returns a snapshot of the attempt record.
func (s *Session) Attempt() Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// Questions returns the drawn questions in display order.
func (s *Session) Questions() []ShuffledQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// Shortfall is how many questions short of the configured count the draw
// was. Nonzero only when the pool was thinner than the exam asked for.
func (s *Session) Shortfall() int { return s.shortfall }

// Remaining is the wall-clock time left, zero when not yet armed or already
// ended.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt.Status != StatusInProgress || s.attempt.StartTime == nil {
		return 0
	}
	rem := s.deadline().Sub(s.cfg.now())
	if rem < 0 {
		return 0
	}
	return rem
}

// Warning reports whether remaining time is inside the warning window.
func (s *Session) Warning() bool {
	rem := s.Remaining()
	return rem > 0 && rem <= WarningThreshold
}

// Close tears the session down without a transition: an in-progress attempt
// stays persisted as InProgress and loses no time on a later Resume, since
// the deadline derives from the stored start timestamp.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Session) deadline() time.Time {
	return s.attempt.StartTime.Add(s.exam.Duration())
}

func (s *Session) startTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTimerLocked()
}

func (s *Session) startTimerLocked() {
	if s.timer != nil {
		return
	}
	s.timer = NewTimerController(s.deadline(), s.cfg.Clock, s.cfg.OnWarning, s.expire)
	s.timer.Start()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire is the timer's zero-crossing callback. It races any user-triggered
// finalize for the transition guard; the loser lands in a terminal state and
// becomes a no-op.
func (s *Session) expire() {
	err := s.Finalize(context.Background(), ReasonTimeExpired)
	var te *TransitionError
	if errors.As(err, &te) {
		return // already finalized through another path
	}
	if err == nil && s.cfg.OnExpired != nil {
		s.cfg.OnExpired()
	}
}
