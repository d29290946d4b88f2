package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/hrviet/daotao/internal/rbac"
	"github.com/hrviet/daotao/internal/review"
)

// Mount attaches every route under the given (already authenticated) router.
func Mount(r chi.Router, m *SessionManager, engine Engine, reviews *review.Service, bank QuestionPutter) {
	r.Route("/exams", func(er chi.Router) {
		er.With(rbac.Require("exam:view")).Get("/", ListExamsHandler(engine))
		er.With(rbac.Require("exam:view")).Get("/{examID}", GetExamHandler(engine))
		er.With(rbac.Require("exam:admin")).Put("/{examID}", PutExamHandler(engine))
		er.With(rbac.Require("attempt:begin")).Post("/{examID}/attempts", m.BeginHandler())
	})

	r.Route("/attempts", func(ar chi.Router) {
		ar.With(rbac.RequireAny("attempt:view-own", "attempt:view-scoped")).Get("/", ListAttemptsHandler(engine))
		ar.With(rbac.RequireAny("attempt:view-own", "attempt:view-scoped")).Get("/{attemptID}", GetAttemptHandler(engine))
		ar.With(rbac.RequireAny("attempt:view-own", "attempt:view-scoped")).Get("/{attemptID}/sheet", GetAttemptSheetHandler(engine))

		ar.With(rbac.Require("attempt:take")).Post("/{attemptID}/start", m.StartHandler())
		ar.With(rbac.Require("attempt:take")).Post("/{attemptID}/resume", m.ResumeHandler())
		ar.With(rbac.Require("attempt:take")).Put("/{attemptID}/answers/{index}", m.AnswerHandler())
		ar.With(rbac.Require("attempt:take")).Post("/{attemptID}/submit", m.SubmitHandler())

		ar.With(rbac.Require("attempt:review")).Put("/{attemptID}/evaluation", SaveEvaluationHandler(reviews, engine))
		ar.With(rbac.Require("attempt:review")).Delete("/{attemptID}/evaluation", ClearEvaluationHandler(reviews))
	})

	r.With(rbac.Require("question:admin")).Put("/questions/{questionID}", PutQuestionHandler(bank))
}
