package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hrviet/daotao/internal/eventlog"
	"github.com/hrviet/daotao/internal/rbac"
	"github.com/hrviet/daotao/internal/review"
)

// PUT /attempts/{attemptID}/evaluation
func SaveEvaluationHandler(svc *review.Service, engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := rbac.ActorFromContext(r.Context())
		id := chi.URLParam(r, "attemptID")
		var req struct {
			Comment string `json:"comment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		a, err := svc.SaveEvaluation(r.Context(), id, actor.EmployeeID, req.Comment)
		if err != nil {
			writeError(w, err)
			return
		}
		// Audit is best effort; the evaluation itself is already saved.
		_ = engine.Events.Append(r.Context(), eventlog.TypeAttemptReviewed, id,
			map[string]string{"reviewerId": actor.EmployeeID})
		writeJSON(w, http.StatusOK, a)
	}
}

// DELETE /attempts/{attemptID}/evaluation
func ClearEvaluationHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.ClearEvaluation(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}
