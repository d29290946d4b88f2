package exam

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestionPool means no question in the pool is tagged with any
	// of the exam's topics, so an attempt cannot be drawn at all.
	ErrEmptyQuestionPool = errors.New("exam: no eligible questions in pool")

	// ErrNotFound is returned by stores for a missing exam or attempt.
	ErrNotFound = errors.New("exam: not found")

	// ErrNotEligible means the actor's role is not on the exam's eligible list.
	ErrNotEligible = errors.New("exam: actor not eligible for exam")

	// ErrExamClosed means the exam definition is not open for attempts.
	ErrExamClosed = errors.New("exam: exam is closed")
)

// TransitionError is a programming-contract violation: an operation was
// invoked in a state that does not allow it.
type TransitionError struct {
	Op   string
	From Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("exam: illegal %s in state %s", e.Op, e.From)
}

// IntegrityError means a persisted attempt references data that no longer
// exists or is malformed (e.g. a deleted question, a broken permutation).
// The attempt cannot be resumed.
type IntegrityError struct {
	AttemptID  string
	QuestionID string
	Reason     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("exam: attempt %s integrity: %s (question %s)", e.AttemptID, e.Reason, e.QuestionID)
}

// UnansweredError blocks a manual submit while questions remain open. Index
// is the first unanswered question so the caller can navigate to it.
type UnansweredError struct {
	Index int
}

func (e *UnansweredError) Error() string {
	return fmt.Sprintf("exam: question %d not answered", e.Index+1)
}

// PersistenceError wraps a failed store call. In-memory state never advances
// past a transition whose write failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("exam: persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
