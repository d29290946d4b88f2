package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hrviet/daotao/internal/exam"
	"github.com/hrviet/daotao/internal/rbac"
)

// GET /attempts?exam_id=...&examinee_id=...&status=...&limit=50&offset=0&sort=startTime
// Every row is passed through the injected visibility predicate; an actor
// always sees their own attempts, anything further is the predicate's call.
func ListAttemptsHandler(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := rbac.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		opts := exam.AttemptListOpts{
			ExamID:     strings.TrimSpace(r.URL.Query().Get("exam_id")),
			ExamineeID: strings.TrimSpace(r.URL.Query().Get("examinee_id")),
			Status:     exam.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
			Sort:       strings.TrimSpace(r.URL.Query().Get("sort")),
		}

		list, err := engine.Attempts.ListAttempts(r.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, exam.FilterAttempts(list, actor, engine.Access))
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := rbac.ActorFromContext(r.Context())
		a, err := engine.Attempts.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if a.ExamineeID != actor.EmployeeID && (engine.Access == nil || !engine.Access(a, actor)) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /attempts/{attemptID}/sheet: the reconstructed question/answer order
// as the examinee saw it, for reviewing a completed attempt.
func GetAttemptSheetHandler(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := rbac.ActorFromContext(r.Context())
		a, err := engine.Attempts.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if a.ExamineeID != actor.EmployeeID && (engine.Access == nil || !engine.Access(a, actor)) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		e, err := engine.Exams.GetExam(r.Context(), a.ExamID)
		if err != nil {
			writeError(w, err)
			return
		}
		pool, err := engine.Pool.ByTopics(r.Context(), e.TopicIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		qs, err := exam.Restore(a, pool)
		if err != nil {
			writeError(w, err)
			return
		}

		type sheetRow struct {
			QuestionID string    `json:"questionId"`
			Prompt     string    `json:"prompt"`
			Answers    [4]string `json:"answers"`
			Chosen     *int      `json:"chosen"`
			Correct    int       `json:"correct,omitempty"`
		}
		rows := make([]sheetRow, 0, len(qs))
		for i, q := range qs {
			row := sheetRow{QuestionID: q.ID, Prompt: q.Prompt, Chosen: a.Answers[i].Chosen}
			for j, ans := range q.Shuffled {
				row.Answers[j] = ans.Text
			}
			// Correct positions only once the attempt is over.
			if a.Status.Terminal() {
				row.Correct = q.Correct
			}
			rows = append(rows, row)
		}
		writeJSON(w, http.StatusOK, rows)
	}
}
