// Package review lets a reviewer attach an evaluation to a completed
// attempt. The session engine never touches the evaluation field; this is
// its sole writer.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/hrviet/daotao/internal/exam"
)

// ErrNotCompleted rejects evaluation of an attempt that has not finished.
var ErrNotCompleted = errors.New("review: attempt not completed")

type Service struct {
	store exam.AttemptStore
	clock func() time.Time
}

func NewService(store exam.AttemptStore) *Service {
	return &Service{store: store, clock: time.Now}
}

// SaveEvaluation sets or replaces the reviewer comment on a completed
// attempt.
func (s *Service) SaveEvaluation(ctx context.Context, attemptID, reviewerID, comment string) (exam.Attempt, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return exam.Attempt{}, err
	}
	if !a.Status.Terminal() {
		return exam.Attempt{}, ErrNotCompleted
	}
	a.Evaluation = &exam.Evaluation{
		ReviewerID: reviewerID,
		Comment:    comment,
		ReviewedAt: s.clock(),
	}
	return s.store.Update(ctx, a)
}

// ClearEvaluation removes the reviewer comment.
func (s *Service) ClearEvaluation(ctx context.Context, attemptID string) (exam.Attempt, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return exam.Attempt{}, err
	}
	if !a.Status.Terminal() {
		return exam.Attempt{}, ErrNotCompleted
	}
	a.Evaluation = nil
	return s.store.Update(ctx, a)
}
