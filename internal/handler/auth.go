package handler

import (
	"net/http"
	"strings"

	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
	"github.com/talkboard/talkboard/internal/logger"
)

// SignupPageData feeds signup.html.
type SignupPageData struct {
	Form       signupForm
	FormErrors map[string]string
}

func (h *Handler) SignupGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "signup.html", SignupPageData{})
}

func (h *Handler) SignupPostHandler(w http.ResponseWriter, r *http.Request) {
	form := parseSignupForm(r)
	// Never echo passwords back into the form
	rerender := func(errs map[string]string, errMsg string) {
		form.Password, form.ConfirmPassword = "", ""
		h.renderTemplateWithError(w, r, "signup.html", SignupPageData{Form: form, FormErrors: errs}, errMsg)
	}

	if errs := formErrors(form); errs != nil {
		rerender(errs, "")
		return
	}

	user, err := h.auth.Signup(form.Username, form.Email, form.Password)
	if err != nil {
		code := internal_errors.StatusCode(err)
		if code == http.StatusBadRequest || code == http.StatusConflict {
			rerender(nil, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	// New accounts are logged in right away.
	h.startSession(w, r, user, "/")
}

// LoginPageData feeds login.html.
type LoginPageData struct {
	Form       loginForm
	FormErrors map[string]string
	Next       string
}

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "login.html", LoginPageData{Next: r.URL.Query().Get("next")})
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	form := parseLoginForm(r)
	next := r.PostFormValue("next")
	rerender := func(errs map[string]string, errMsg string) {
		form.Password = ""
		h.renderTemplateWithError(w, r, "login.html", LoginPageData{Form: form, FormErrors: errs, Next: next}, errMsg)
	}

	if errs := formErrors(form); errs != nil {
		rerender(errs, "")
		return
	}

	user, err := h.auth.Login(domain.Credentials{Username: form.Username, Password: form.Password})
	if err != nil {
		if internal_errors.StatusCode(err) == http.StatusUnauthorized {
			rerender(nil, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	h.startSession(w, r, user, safeNextURL(next))
}

func (h *Handler) LogoutPostHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user domain.User, redirectTo string) {
	token, err := h.sessions.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create session token", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.sessions.SetCookie(w, token)
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// safeNextURL only allows local paths as post-login redirect targets, so the
// `next` parameter can not be abused to bounce users to another site.
func safeNextURL(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
