package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// setupRouter builds the chi router with the full route table. Session
// routes (register, login) are public but rate limited; everything under
// the authenticated group requires a valid, unrevoked token.
func (app *application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(app.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", app.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(app.rateLimiter.Limit)
		r.Post("/users", app.userHandler.Register)
		r.Post("/users/login", app.userHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.Authenticate)

		r.Post("/users/logout", app.userHandler.Logout)
		r.Post("/users/logoutAll", app.userHandler.LogoutAll)
		r.Get("/users/me", app.userHandler.Me)
		r.Patch("/users/me", app.userHandler.UpdateMe)
		r.Delete("/users/me", app.userHandler.DeleteMe)
		r.Post("/users/me/avatar", app.userHandler.UploadAvatar)
		r.Delete("/users/me/avatar", app.userHandler.DeleteAvatar)

		r.Post("/tasks", app.taskHandler.Create)
		r.Get("/tasks", app.taskHandler.List)
		r.Get("/tasks/{id}", app.taskHandler.Get)
		r.Patch("/tasks/{id}", app.taskHandler.Update)
		r.Delete("/tasks/{id}", app.taskHandler.Delete)
	})

	// Avatar reads are public so the image can be embedded directly.
	r.Get("/users/{id}/avatar", app.userHandler.GetAvatar)

	return r
}
