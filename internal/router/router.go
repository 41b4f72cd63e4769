// Package router sets up all HTTP routes and middleware chains for the
// ReelPrompt API. It organizes routes into public auth endpoints and the
// authenticated API group with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reelprompt/internal/handlers"
	"reelprompt/internal/middleware"
	"reelprompt/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth     *handlers.Auth
	Account  *handlers.Account
	Wizard   *handlers.Wizard
	Generate *handlers.Generate
	Projects *handlers.Projects
	History  *handlers.History
	Suggest  *handlers.Suggest
	Uploads  *handlers.Uploads
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth endpoints — accessible without a session. Signin and the
		// reset flow get an IP rate limit against credential stuffing
		// and token guessing.
		authLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/auth/signup", h.Auth.Signup)
			r.Post("/auth/signin", h.Auth.Signin)
			r.Post("/auth/reset-password", h.Auth.ResetPassword)
			r.Post("/auth/reset-password/confirm", h.Auth.ResetPasswordConfirm)
		})
		r.Post("/auth/signout", h.Auth.Signout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/auth/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/auth/2fa/verify", h.Auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified API.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Profile
			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/password", h.Auth.UpdatePassword)

			// Subscription and billing
			r.Get("/account/subscription", h.Account.Subscription)
			r.Post("/account/checkout", h.Account.Checkout)
			r.Post("/account/activate", h.Account.Activate)

			// Wizard draft state
			r.Route("/wizard", func(r chi.Router) {
				r.Get("/", h.Wizard.Get)
				r.Put("/", h.Wizard.Update)
				r.Delete("/", h.Wizard.Reset)
				r.Post("/next", h.Wizard.Next)
				r.Post("/prev", h.Wizard.Prev)
				r.Post("/mode", h.Wizard.SetMode)
			})

			// Prompt generation
			r.Post("/generate", h.Generate.Handle)

			// Multi-scene projects
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Projects.List)
				r.Post("/", h.Projects.Start)
				r.Get("/{id}", h.Projects.Get)
				r.Delete("/{id}", h.Projects.Delete)
				r.Post("/{id}/scenes", h.Projects.AddScene)
				r.Put("/{id}/scenes/{index}", h.Projects.UpdateScene)
				r.Post("/{id}/scenes/{index}/switch", h.Projects.SwitchScene)
				r.Get("/{id}/suggestions", h.Suggest.ForProject)
			})

			// Prompt history
			r.Route("/history", func(r chi.Router) {
				r.Get("/", h.History.List)
				r.Delete("/", h.History.DeleteAll)
				r.Delete("/{id}", h.History.Delete)
			})

			// Style reference uploads
			r.Post("/uploads/style-reference", h.Uploads.StyleReference)
			r.Delete("/uploads/style-reference", h.Uploads.DeleteStyleReference)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
