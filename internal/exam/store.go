package exam

import "context"

// QuestionPool is read-only access to the question universe. Shared across
// sessions without coordination.
type QuestionPool interface {
	ByTopics(ctx context.Context, topicIDs []string) ([]Question, error)
}

// AttemptListOpts filters attempt listings.
type AttemptListOpts struct {
	ExamID     string
	ExamineeID string
	Status     Status
	Limit      int
	Offset     int
	Sort       string // startTime|attemptDate desc (default: attemptDate desc)
}

// AttemptStore persists attempt records. Create assigns the id. The engine
// calls it but never deletes: deletion is an administrative operation.
type AttemptStore interface {
	Create(ctx context.Context, a Attempt) (Attempt, error)
	Update(ctx context.Context, a Attempt) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)
}

// ExamStore persists exam definitions.
type ExamStore interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)
}
