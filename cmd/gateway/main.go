package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/heartwise-th/heartwise-lms/internal/api/http"
	"github.com/heartwise-th/heartwise-lms/internal/article"
	"github.com/heartwise-th/heartwise-lms/internal/audit"
	auth "github.com/heartwise-th/heartwise-lms/internal/auth/middleware"
	"github.com/heartwise-th/heartwise-lms/internal/certificate"
	"github.com/heartwise-th/heartwise-lms/internal/config"
	"github.com/heartwise-th/heartwise-lms/internal/course"
	"github.com/heartwise-th/heartwise-lms/internal/db"
	"github.com/heartwise-th/heartwise-lms/internal/progress"
	"github.com/heartwise-th/heartwise-lms/internal/rbac"
	"github.com/heartwise-th/heartwise-lms/internal/storage"
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

	courses := course.NewSQLStore(dbh)
	articles := article.NewSQLStore(dbh)
	progressStore := progress.NewSQLStore(dbh)
	certStore := certificate.NewSQLStore(dbh)
	events := audit.NewEventLog(dbh)

	tracker := progress.NewTracker(progressStore, nil)
	issuer := certificate.NewIssuer(certStore, progressStore, courses, cfg.CertPrefix, nil)

	authSvc := auth.NewAuthService(cfg.AuthSecret)

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

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	// assets routes (protected)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})
	})

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Course catalog
		pr.With(rbac.Require("course:view")).
			Get("/courses", api.ListCoursesHandler(courses))
		pr.With(rbac.Require("course:view")).
			Get("/courses/{courseID}", api.GetCourseHandler(courses))
		pr.With(rbac.Require("course:view")).
			Get("/courses/{courseID}/tests/{phase}", api.GetTestHandler(courses))

		// Learner flow: pre-test → video → post-test → certificate
		pr.With(rbac.Require("test:submit")).
			Post("/courses/{courseID}/tests/{phase}/submit", api.SubmitTestHandler(courses, tracker, events))
		pr.With(rbac.Require("video:mark")).
			Post("/courses/{courseID}/video", api.MarkVideoWatchedHandler(tracker))
		pr.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
			Get("/progress", api.ListProgressHandler(tracker))
		pr.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
			Get("/progress/{courseID}", api.GetProgressHandler(tracker))
		pr.With(rbac.Require("certificate:issue")).
			Post("/courses/{courseID}/certificate", api.IssueCertificateHandler(issuer, events))
		pr.With(rbac.RequireAny("certificate:view-own", "certificate:view-all")).
			Get("/certificates", api.ListCertificatesHandler(issuer))

		// Article library
		pr.With(rbac.Require("article:view")).
			Get("/articles", api.ListArticlesHandler(articles))
		pr.With(rbac.Require("article:view")).
			Get("/articles/{articleID}", api.GetArticleHandler(articles))

		// Admin: content management
		pr.With(rbac.Require("course:manage")).
			Post("/courses", api.CreateCourseHandler(courses))
		pr.With(rbac.Require("course:manage")).
			Get("/courses/{courseID}/full", api.GetCourseAdminHandler(courses))
		pr.With(rbac.Require("course:manage")).
			Put("/courses/{courseID}", api.UpdateCourseHandler(courses))
		pr.With(rbac.Require("course:manage")).
			Delete("/courses/{courseID}", api.DeleteCourseHandler(courses))
		pr.With(rbac.Require("article:manage")).
			Post("/articles", api.CreateArticleHandler(articles))
		pr.With(rbac.Require("article:manage")).
			Put("/articles/{articleID}", api.UpdateArticleHandler(articles))
		pr.With(rbac.Require("article:manage")).
			Delete("/articles/{articleID}", api.DeleteArticleHandler(articles))

		// Admin: users
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
