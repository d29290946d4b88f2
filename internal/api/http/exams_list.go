package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hrviet/daotao/internal/exam"
	"github.com/hrviet/daotao/internal/rbac"
)

// examView augments the definition with the actor's own standing, the way
// the exam list screen shows a per-employee status column.
type examView struct {
	exam.Exam
	MyStatus string `json:"myStatus"` // NotTaken|NotStarted|InProgress|Passed|Failed
}

// GET /exams
func ListExamsHandler(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := rbac.ActorFromContext(r.Context())
		exams, err := engine.Exams.ListExams(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		mine, err := engine.Attempts.ListAttempts(r.Context(), exam.AttemptListOpts{ExamineeID: actor.EmployeeID})
		if err != nil {
			writeError(w, err)
			return
		}
		latest := map[string]exam.Status{}
		for i := len(mine) - 1; i >= 0; i-- { // list is newest-first; keep newest
			latest[mine[i].ExamID] = mine[i].Status
		}

		out := make([]examView, 0, len(exams))
		for _, e := range exams {
			v := examView{Exam: e, MyStatus: "NotTaken"}
			if st, ok := latest[e.ID]; ok {
				v.MyStatus = string(st)
			}
			out = append(out, v)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /exams/{examID}
func GetExamHandler(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := engine.Exams.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// QuestionPutter is the admin-side write half of the question bank.
type QuestionPutter interface {
	PutQuestion(ctx context.Context, q exam.Question) error
}

// PUT /questions/{questionID} (admin)
func PutQuestionHandler(bank QuestionPutter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q exam.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ID = chi.URLParam(r, "questionID")
		if q.Correct < 1 || q.Correct > 4 {
			http.Error(w, "correct position must be 1..4", http.StatusBadRequest)
			return
		}
		if err := bank.PutQuestion(r.Context(), q); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// PUT /exams/{examID} (admin)
func PutExamHandler(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e exam.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e.ID = chi.URLParam(r, "examID")
		if err := engine.Exams.PutExam(r.Context(), e); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}
