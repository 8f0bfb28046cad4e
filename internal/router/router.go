// Package router wires every HTTP route to its handler and middleware.
package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/talkboard/talkboard/internal/middleware/metrics"
	"github.com/talkboard/talkboard/internal/setup"

	mw "github.com/talkboard/talkboard/internal/middleware"
)

func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	csp := "default-src 'self'; img-src 'self' data:; frame-ancestors 'none'"
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies, csp))
	r.Use(metrics.Middleware)

	// Probes and metrics sit outside sessions and CSRF.
	r.Get("/health", deps.Handler.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	h := deps.Handler
	auth := deps.AuthMiddleware

	r.Group(func(r chi.Router) {
		r.Use(mw.CSRF(deps.Config.Public.SecureCookies))

		// Public pages. OptionalAuth only fills in login state.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth())

			r.Get("/", h.HomeGetHandler)
			r.Get("/boards/{board}/", h.TopicsGetHandler)
			r.Get("/boards/{board}/topics/{topic}/", h.PostsGetHandler)

			r.Get("/signup/", h.SignupGetHandler)
			r.Post("/signup/", h.SignupPostHandler)
			r.Get("/login/", h.LoginGetHandler)
			r.Post("/login/", h.LoginPostHandler)

			r.Get("/reset/", h.ResetRequestGetHandler)
			r.Post("/reset/", h.ResetRequestPostHandler)
			r.Get("/reset/done/", h.ResetDoneGetHandler)
			r.Get("/reset/complete/", h.ResetCompleteGetHandler)
			r.Get("/reset/{token}/", h.ResetConfirmGetHandler)
			r.Post("/reset/{token}/", h.ResetConfirmPostHandler)
		})

		// Pages that require a logged-in user.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth())

			r.Post("/logout/", h.LogoutPostHandler)

			r.Get("/boards/{board}/new/", h.NewTopicGetHandler)
			r.Post("/boards/{board}/new/", h.NewTopicPostHandler)
			r.Get("/boards/{board}/topics/{topic}/reply/", h.ReplyGetHandler)
			r.Post("/boards/{board}/topics/{topic}/reply/", h.ReplyPostHandler)
			r.Get("/boards/{board}/topics/{topic}/posts/{post}/edit/", h.EditPostGetHandler)
			r.Post("/boards/{board}/topics/{topic}/posts/{post}/edit/", h.EditPostPostHandler)

			r.Get("/settings/password/", h.PasswordChangeGetHandler)
			r.Post("/settings/password/", h.PasswordChangePostHandler)
			r.Get("/settings/account/", h.AccountGetHandler)
			r.Post("/settings/account/", h.AccountPostHandler)
		})

		// Admin-only pages. Non-admins get a 404, not a 403.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin())

			r.Get("/boards/new/", h.NewBoardGetHandler)
			r.Post("/boards/new/", h.NewBoardPostHandler)
		})
	})

	return r
}
