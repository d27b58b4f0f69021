package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"grievance-portal/internal/app"
	"grievance-portal/internal/config"
	"grievance-portal/internal/handlers"
	"grievance-portal/internal/middleware"
	"grievance-portal/internal/models"
)

func New(log zerolog.Logger, svc *app.Services, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count"},
		AllowCredentials: true,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}
	r.Use(middleware.WithAuth(log, svc.Auth))

	// Health
	r.Get("/healthz", handlers.Health())

	ah := handlers.NewAuthHTTP(svc.Auth, cfg.TokenTTL, cfg.Env != "dev")
	gh := handlers.NewGrievanceHTTP(svc.Grievances)
	uh := handlers.NewUserHTTP(svc.Auth)
	anh := handlers.NewAnalyticsHTTP(svc.Analytics)
	uph := handlers.NewUploadHTTP(svc.Uploads, svc.Files.MaxBytes())

	r.Handle("/uploads/*", handlers.Files(svc.Files.Dir()))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", ah.Login())
			r.Post("/register", ah.Register())
			r.Post("/logout", ah.Logout())
			r.With(middleware.RequireAuth).Get("/me", ah.Me())
		})

		r.Get("/departments", gh.Departments())

		r.Route("/grievances", func(r chi.Router) {
			r.Get("/", gh.List())
			r.With(middleware.RequireAuth).Post("/", gh.Create())
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", gh.Get())
				r.With(middleware.RequireRoles(models.RoleAdmin, models.RoleDepartment)).Put("/status", gh.UpdateStatus())
				r.With(middleware.RequireRoles(models.RoleAdmin, models.RoleDepartment)).Put("/assign", gh.Assign())
				r.With(middleware.RequireAuth).Post("/comments", gh.AddComment())
			})
		})

		r.With(middleware.RequireAuth).Post("/upload", uph.Upload())
		r.With(middleware.RequireRoles(models.RoleAdmin, models.RoleDepartment)).Get("/analytics", anh.Summary())

		r.Route("/users/{id}", func(r chi.Router) {
			r.With(middleware.RequireSelfOrRoles(models.RoleAdmin, models.RoleDepartment)).Get("/", uh.Get())
			r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/role", uh.UpdateRole())
		})
	})

	return r
}
