package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/hrviet/daotao/internal/api/http"
	"github.com/hrviet/daotao/internal/auth"
	"github.com/hrviet/daotao/internal/config"
	"github.com/hrviet/daotao/internal/db"
	"github.com/hrviet/daotao/internal/eventlog"
	"github.com/hrviet/daotao/internal/exam"
	"github.com/hrviet/daotao/internal/rbac"
	"github.com/hrviet/daotao/internal/review"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := exam.NewSQLStore(dbh, cfg.DBDriver)

	engine := api.Engine{
		Exams:    store,
		Attempts: store,
		Pool:     store,
		Access:   rbac.AttemptAccess(rbac.StaticDirectory{}),
		Events:   eventlog.NewRepo(dbh),
	}
	sessions := api.NewSessionManager(engine)
	reviews := review.NewService(store)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	users := auth.StaticUsers{
		cfg.AdminUser: {
			PassHash: cfg.AdminPassHash,
			Actor:    exam.Actor{EmployeeID: cfg.AdminUser, Role: "admin", Rank: 1},
		},
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, users))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		api.Mount(pr, sessions, engine, reviews, store)
	})

	log.Printf("daotaod listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
