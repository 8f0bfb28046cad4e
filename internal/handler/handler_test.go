package handler

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/domain"
	"github.com/talkboard/talkboard/internal/markup"
	mw "github.com/talkboard/talkboard/internal/middleware"
)

// testTemplates builds trivial templates so handlers can render without the
// real template files on disk.
func testTemplates() map[string]*template.Template {
	names := []string{
		"home.html", "topics.html", "new_topic.html", "topic_posts.html",
		"reply_topic.html", "edit_post.html", "signup.html", "login.html",
		"password_change.html", "password_reset.html", "password_reset_done.html",
		"password_reset_confirm.html", "password_reset_complete.html",
		"account.html", "new_board.html",
	}
	templates := make(map[string]*template.Template, len(names))
	for _, name := range names {
		templates[name] = template.Must(template.New(name).Parse(
			"page:" + name + " error:{{.Common.Error}} success:{{.Common.Success}}",
		))
	}
	return templates
}

func testConfig() *config.Public {
	cfg := &config.Public{}
	cfg.ApplyDefaults()
	return cfg
}

func testHandler() *Handler {
	return &Handler{
		Templates: testTemplates(),
		markup:    markup.New(),
		cfg:       testConfig(),
	}
}

// asUser attaches an authenticated user to the request context, the way the
// auth middleware would.
func asUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), mw.UserKey, user))
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// MockSessionService mocks the session.Service interface.
type MockSessionService struct {
	MockNewToken    func(user domain.User) (string, error)
	MockDecodeToken func(tokenStr string) (*domain.User, error)
	SetCookieCalled bool
	ClearCalled     bool
}

func (m *MockSessionService) NewToken(user domain.User) (string, error) {
	if m.MockNewToken != nil {
		return m.MockNewToken(user)
	}
	return "token", nil
}

func (m *MockSessionService) DecodeToken(tokenStr string) (*domain.User, error) {
	if m.MockDecodeToken != nil {
		return m.MockDecodeToken(tokenStr)
	}
	return nil, nil
}

func (m *MockSessionService) SetCookie(w http.ResponseWriter, token string) {
	m.SetCookieCalled = true
	http.SetCookie(w, &http.Cookie{Name: "session", Value: token, Path: "/"})
}

func (m *MockSessionService) ClearCookie(w http.ResponseWriter) {
	m.ClearCalled = true
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
}
