// Package api assembles the HTTP router: middleware stack, public auth
// routes, and the token-gated contact routes.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rohitm/contact-manager/internal/contacts"
	"github.com/rohitm/contact-manager/internal/httpx"
	"github.com/rohitm/contact-manager/internal/middleware"
	"github.com/rohitm/contact-manager/internal/users"
)

// NewRouter wires every route in the API. Registration and login are the
// only routes outside the auth gate.
func NewRouter(userHandler *users.Handler, contactHandler *contacts.Handler, tokens middleware.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(middleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Anything that matches no route, including bad methods on known
	// paths, reports the same not-found body.
	r.NotFound(httpx.NotFoundRoute)
	r.MethodNotAllowed(httpx.NotFoundRoute)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.With(middleware.RequireAuth(tokens)).Get("/current", userHandler.Current)
	})

	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Get("/", contactHandler.List)
		r.Post("/", contactHandler.Create)
		r.Get("/{id}", contactHandler.Get)
		r.Put("/{id}", contactHandler.Update)
		r.Delete("/{id}", contactHandler.Delete)
	})

	return r
}
