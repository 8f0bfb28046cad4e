package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/talkboard/talkboard/internal/domain"
	"github.com/talkboard/talkboard/internal/session"
)

// Key to store the user in the request context
type key int

const UserKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	sessions session.Service
}

func NewAuth(sessions session.Service) *Auth {
	return &Auth{sessions: sessions}
}

// extractUser decodes the session cookie into a user, nil when absent or invalid.
func (a *Auth) extractUser(r *http.Request) *domain.User {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	user, err := a.sessions.DecodeToken(cookie.Value)
	if err != nil {
		return nil
	}
	return user
}

// OptionalAuth populates the user context when a valid session is present,
// but never blocks the request. Public pages use this to show login state.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := a.extractUser(r); user != nil {
				r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects anonymous requests to the login page with a `next`
// parameter pointing back at the original URL.
func (a *Auth) RequireAuth() func(http.Handler) http.Handler {
	return a.require(false)
}

// RequireAdmin additionally requires the admin flag; non-admins get 404 so
// admin surfaces stay invisible.
func (a *Auth) RequireAdmin() func(http.Handler) http.Handler {
	return a.require(true)
}

func (a *Auth) require(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := a.extractUser(r)
			if user == nil {
				RedirectToLogin(w, r)
				return
			}
			if adminOnly && !user.Admin {
				http.NotFound(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectToLogin sends the browser to the login page, preserving the
// requested URL in the `next` query parameter.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, "/login/?next="+url.QueryEscape(next), http.StatusSeeOther)
}

// GetUserFromContext retrieves the authenticated user, nil when anonymous.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
