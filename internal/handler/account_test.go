package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

func TestPasswordChangePostHandler(t *testing.T) {
	h := testHandler()
	router := chi.NewRouter()
	router.Post("/settings/password/", h.PasswordChangePostHandler)
	user := &domain.User{Id: 7, Username: "alice"}

	form := url.Values{
		"current_password": {"oldpass12"},
		"new_password":     {"newpass12"},
		"confirm_password": {"newpass12"},
	}

	t.Run("successful change shows confirmation", func(t *testing.T) {
		h.auth = &MockAuthService{
			MockChangePassword: func(userId domain.UserId, current, newPassword domain.Password) error {
				assert.Equal(t, domain.UserId(7), userId)
				assert.Equal(t, "oldpass12", current)
				assert.Equal(t, "newpass12", newPassword)
				return nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(postForm("/settings/password/", form), user))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "success:Your password was changed.")
	})

	t.Run("wrong current password re-renders", func(t *testing.T) {
		h.auth = &MockAuthService{
			MockChangePassword: func(userId domain.UserId, current, newPassword domain.Password) error {
				return &internal_errors.ErrorWithStatusCode{Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(postForm("/settings/password/", form), user))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "error:Current password is incorrect")
	})
}

func TestAccountHandlers(t *testing.T) {
	h := testHandler()
	router := chi.NewRouter()
	router.Get("/settings/account/", h.AccountGetHandler)
	router.Post("/settings/account/", h.AccountPostHandler)
	user := &domain.User{Id: 7, Username: "alice"}

	t.Run("get shows the current profile", func(t *testing.T) {
		h.auth = &MockAuthService{
			MockProfile: func(userId domain.UserId) (domain.User, error) {
				return domain.User{Id: userId, FirstName: "Alice", Email: "alice@example.com"}, nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(httptest.NewRequest(http.MethodGet, "/settings/account/", nil), user))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "page:account.html")
	})

	t.Run("post updates and confirms", func(t *testing.T) {
		var got domain.ProfileUpdate
		h.auth = &MockAuthService{
			MockUpdateProfile: func(userId domain.UserId, update domain.ProfileUpdate) error {
				got = update
				return nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(postForm("/settings/account/", url.Values{
			"first_name": {"Alice"}, "last_name": {"Doe"}, "email": {"alice@example.com"},
		}), user))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "success:Your account was updated.")
		assert.Equal(t, "Alice", got.FirstName)
		assert.Equal(t, "alice@example.com", got.Email)
	})
}

func TestResetRequestPostHandler(t *testing.T) {
	h := testHandler()
	router := chi.NewRouter()
	router.Post("/reset/", h.ResetRequestPostHandler)

	t.Run("always redirects to the done page", func(t *testing.T) {
		var gotURL string
		h.auth = &MockAuthService{
			MockRequestPasswordReset: func(email domain.Email, resetURL func(token string) string) error {
				gotURL = resetURL("some-token")
				return nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, postForm("/reset/", url.Values{"email": {"alice@example.com"}}))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/reset/done/", rr.Header().Get("Location"))
		assert.Equal(t, "http://example.com/reset/some-token/", gotURL)
	})

	t.Run("invalid email re-renders", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, postForm("/reset/", url.Values{"email": {"bogus"}}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "page:password_reset.html")
	})
}

func TestResetConfirmPostHandler(t *testing.T) {
	h := testHandler()
	router := chi.NewRouter()
	router.Post("/reset/{token}/", h.ResetConfirmPostHandler)

	form := url.Values{
		"new_password":     {"newpass12"},
		"confirm_password": {"newpass12"},
	}

	t.Run("valid token redirects to the complete page", func(t *testing.T) {
		h.auth = &MockAuthService{
			MockConfirmPasswordReset: func(token string, newPassword domain.Password) error {
				assert.Equal(t, "good-token", token)
				return nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, postForm("/reset/good-token/", form))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/reset/complete/", rr.Header().Get("Location"))
	})

	t.Run("stale token shows the invalid link state", func(t *testing.T) {
		h.auth = &MockAuthService{
			MockConfirmPasswordReset: func(token string, newPassword domain.Password) error {
				return internal_errors.NotFound("Reset token not found")
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, postForm("/reset/stale-token/", form))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "page:password_reset_confirm.html")
	})
}
