package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
	mw "github.com/talkboard/talkboard/internal/middleware"
)

// AccountPageData feeds account.html.
type AccountPageData struct {
	Form       accountForm
	FormErrors map[string]string
}

func (h *Handler) AccountGetHandler(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		mw.RedirectToLogin(w, r)
		return
	}

	profile, err := h.auth.Profile(user.Id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "account.html", AccountPageData{
		Form: accountForm{FirstName: profile.FirstName, LastName: profile.LastName, Email: profile.Email},
	})
}

func (h *Handler) AccountPostHandler(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		mw.RedirectToLogin(w, r)
		return
	}

	form := parseAccountForm(r)
	if errs := formErrors(form); errs != nil {
		h.renderTemplate(w, r, "account.html", AccountPageData{Form: form, FormErrors: errs})
		return
	}

	err := h.auth.UpdateProfile(user.Id, domain.ProfileUpdate{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	})
	if err != nil {
		code := internal_errors.StatusCode(err)
		if code == http.StatusBadRequest || code == http.StatusConflict {
			h.renderTemplateWithError(w, r, "account.html", AccountPageData{Form: form}, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	data := AccountPageData{Form: form}
	common := h.commonTemplateData(r)
	common.Success = "Your account was updated."
	h.renderWithCommon(w, "account.html", data, common)
}

// PasswordChangePageData feeds password_change.html.
type PasswordChangePageData struct {
	Form       passwordChangeForm
	FormErrors map[string]string
}

func (h *Handler) PasswordChangeGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "password_change.html", PasswordChangePageData{})
}

func (h *Handler) PasswordChangePostHandler(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		mw.RedirectToLogin(w, r)
		return
	}

	form := parsePasswordChangeForm(r)
	rerender := func(errs map[string]string, errMsg string) {
		h.renderTemplateWithError(w, r, "password_change.html", PasswordChangePageData{FormErrors: errs}, errMsg)
	}

	if errs := formErrors(form); errs != nil {
		rerender(errs, "")
		return
	}

	if err := h.auth.ChangePassword(user.Id, form.CurrentPassword, form.NewPassword); err != nil {
		if internal_errors.StatusCode(err) == http.StatusBadRequest {
			rerender(nil, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	common := h.commonTemplateData(r)
	common.Success = "Your password was changed."
	h.renderWithCommon(w, "password_change.html", PasswordChangePageData{}, common)
}

// ResetRequestPageData feeds password_reset.html.
type ResetRequestPageData struct {
	Form       resetRequestForm
	FormErrors map[string]string
}

func (h *Handler) ResetRequestGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "password_reset.html", ResetRequestPageData{})
}

func (h *Handler) ResetRequestPostHandler(w http.ResponseWriter, r *http.Request) {
	form := resetRequestForm{Email: r.PostFormValue("email")}
	if errs := formErrors(form); errs != nil {
		h.renderTemplate(w, r, "password_reset.html", ResetRequestPageData{Form: form, FormErrors: errs})
		return
	}

	scheme := "http"
	if r.TLS != nil || h.cfg.SecureCookies {
		scheme = "https"
	}
	resetURL := func(token string) string {
		return fmt.Sprintf("%s://%s/reset/%s/", scheme, r.Host, token)
	}

	if err := h.auth.RequestPasswordReset(form.Email, resetURL); err != nil {
		if internal_errors.StatusCode(err) == http.StatusBadRequest {
			h.renderTemplateWithError(w, r, "password_reset.html", ResetRequestPageData{Form: form}, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, "/reset/done/", http.StatusSeeOther)
}

func (h *Handler) ResetDoneGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "password_reset_done.html", nil)
}

// ResetConfirmPageData feeds password_reset_confirm.html.
type ResetConfirmPageData struct {
	Token      string
	TokenValid bool
	Form       resetConfirmForm
	FormErrors map[string]string
}

func (h *Handler) ResetConfirmGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "password_reset_confirm.html", ResetConfirmPageData{
		Token:      chi.URLParam(r, "token"),
		TokenValid: true,
	})
}

func (h *Handler) ResetConfirmPostHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	form := parseResetConfirmForm(r)

	if errs := formErrors(form); errs != nil {
		h.renderTemplate(w, r, "password_reset_confirm.html", ResetConfirmPageData{
			Token: token, TokenValid: true, FormErrors: errs,
		})
		return
	}

	if err := h.auth.ConfirmPasswordReset(token, form.NewPassword); err != nil {
		if internal_errors.IsNotFound(err) {
			// Expired or already used link. Show the invalid-link state
			// instead of a bare 404 so the user can request a new one.
			h.renderTemplate(w, r, "password_reset_confirm.html", ResetConfirmPageData{TokenValid: false})
			return
		}
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, "/reset/complete/", http.StatusSeeOther)
}

func (h *Handler) ResetCompleteGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "password_reset_complete.html", nil)
}
