package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hrviet/daotao/internal/exam"
	"github.com/hrviet/daotao/internal/review"
)

// questionView is a drawn question as served to the examinee: answers in
// display order, correct position withheld.
type questionView struct {
	QuestionID string    `json:"questionId"`
	Prompt     string    `json:"prompt"`
	Answers    [4]string `json:"answers"`
}

// sessionView is the full state a test-taking UI needs after any transition.
type sessionView struct {
	Attempt          exam.Attempt   `json:"attempt"`
	Questions        []questionView `json:"questions"`
	RemainingSeconds int            `json:"remainingSeconds"`
	Warning          bool           `json:"warning"`
	Shortfall        int            `json:"shortfall,omitempty"`
}

func newSessionView(s *exam.Session) sessionView {
	qs := s.Questions()
	views := make([]questionView, 0, len(qs))
	for _, q := range qs {
		v := questionView{QuestionID: q.ID, Prompt: q.Prompt}
		for i, a := range q.Shuffled {
			v.Answers[i] = a.Text
		}
		views = append(views, v)
	}
	return sessionView{
		Attempt:          s.Attempt(),
		Questions:        views,
		RemainingSeconds: int(s.Remaining().Seconds()),
		Warning:          s.Warning(),
		Shortfall:        s.Shortfall(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto HTTP statuses. Unanswered-question
// rejections carry the first open index so the UI can navigate to it.
func writeError(w http.ResponseWriter, err error) {
	var unanswered *exam.UnansweredError
	var transition *exam.TransitionError
	var integrity *exam.IntegrityError
	var persistence *exam.PersistenceError

	switch {
	case errors.As(err, &unanswered):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":           unanswered.Error(),
			"firstUnanswered": unanswered.Index,
		})
	case errors.As(err, &transition):
		http.Error(w, transition.Error(), http.StatusConflict)
	case errors.As(err, &integrity):
		http.Error(w, integrity.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, exam.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, exam.ErrNotEligible), errors.Is(err, exam.ErrExamClosed):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, exam.ErrAnswerOutOfRange), errors.Is(err, exam.ErrEmptyQuestionPool):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, review.ErrNotCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &persistence):
		http.Error(w, persistence.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
