package http

import (
	"net/http"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/catalog"
	"github.com/DHEENA0007/notsharing/internal/comments"
	"github.com/DHEENA0007/notsharing/internal/config"
	"github.com/DHEENA0007/notsharing/internal/http/handler"
	mw "github.com/DHEENA0007/notsharing/internal/http/middleware"
	"github.com/DHEENA0007/notsharing/internal/interactions"
	"github.com/DHEENA0007/notsharing/internal/jobs"
	"github.com/DHEENA0007/notsharing/internal/logger"
	"github.com/DHEENA0007/notsharing/internal/notes"
	"github.com/DHEENA0007/notsharing/internal/notifications"
	"github.com/DHEENA0007/notsharing/internal/requests"
	"github.com/DHEENA0007/notsharing/internal/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, files storage.Store, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Log(log))

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	jobsRepo := &jobs.Repo{DB: db}
	dispatcher := &notifications.Dispatcher{DB: db, Jobs: jobsRepo}
	noteSvc := &notes.Service{DB: db}
	interactStore := &interactions.Store{DB: db}
	commentSvc := &comments.Service{DB: db, Notifier: dispatcher}
	workflow := &requests.Workflow{DB: db, Notifier: dispatcher}
	subjectSvc := &catalog.Service{DB: db}

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Post("/auth/change-password", ah.ChangePassword)
		r.Get("/auth/profile", ah.GetProfile)
		r.Put("/auth/profile", ah.UpdateProfile)
	})

	sh := &handler.SubjectHandler{Svc: subjectSvc}
	r.Get("/subjects", sh.List)

	fh := &handler.FileHandler{Store: files}
	r.Get("/files/*", fh.Serve)
	r.With(auth.RequireAuth(jwtSvc)).Post("/files", fh.Upload)

	nh := &handler.NoteHandler{Svc: noteSvc, Interactions: interactStore, Comments: commentSvc, Files: files}
	r.Route("/notes", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", nh.Create)
		r.Get("/", nh.List)
		r.Get("/{id}", nh.Get)
		r.Post("/{id}/download", nh.Download)
		r.Post("/{id}/bookmark", nh.Bookmark)
		r.Get("/{id}/comments", nh.CommentsThread)
	})

	rh := &handler.RequestHandler{Workflow: workflow, Comments: commentSvc, Files: files}
	r.Route("/requests", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", rh.Create)
		r.Get("/", rh.List)
		r.Get("/{id}", rh.Get)
		r.Post("/{id}/fulfill", rh.Fulfill)
		r.Post("/{id}/close", rh.Close)
		r.Get("/{id}/comments", rh.CommentsThread)
	})

	ch := &handler.CommentHandler{Svc: commentSvc, Files: files}
	r.With(auth.RequireAuth(jwtSvc)).Post("/comments", ch.Create)

	noth := &handler.NotificationHandler{Dispatcher: dispatcher}
	r.Route("/notifications", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", noth.List)
		r.Post("/{id}/read", noth.MarkRead)
		r.Post("/read-all", noth.MarkAllRead)
	})

	me := &handler.MeHandler{DB: db, Interactions: interactStore, Files: files}
	r.Route("/me", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", me.Me)
		r.Get("/bookmarks", me.Bookmarks)
		r.Get("/downloads", me.Downloads)
		r.Get("/dashboard", me.Dashboard)
	})

	return r
}
