package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/domain"
	"github.com/talkboard/talkboard/internal/markup"
	"github.com/talkboard/talkboard/internal/service"
	"github.com/talkboard/talkboard/internal/session"
)

type Handler struct {
	Templates map[string]*template.Template

	boards   service.BoardService
	topics   service.TopicService
	posts    service.PostService
	auth     service.AuthService
	sessions session.Service
	markup   *markup.Renderer
	cfg      *config.Public
	health   Pinger
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping() error
}

func New(
	templates map[string]*template.Template,
	boards service.BoardService,
	topics service.TopicService,
	posts service.PostService,
	auth service.AuthService,
	sessions session.Service,
	renderer *markup.Renderer,
	cfg *config.Public,
	health Pinger,
) *Handler {
	return &Handler{
		Templates: templates,
		boards:    boards,
		topics:    topics,
		posts:     posts,
		auth:      auth,
		sessions:  sessions,
		markup:    renderer,
		cfg:       cfg,
		health:    health,
	}
}

// idParam parses a numeric chi URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	val, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", name)
	}
	if val < 1 {
		return 0, fmt.Errorf("invalid %s: out of range", name)
	}
	return val, nil
}

// pageQuery parses the ?page= query parameter, 1 when absent. A non-numeric
// value is reported as ok=false so the handler can answer 400.
func pageQuery(r *http.Request) (page int, ok bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return max(1, page), true
}

// postView pairs a post with its rendered message for the templates.
type postView struct {
	domain.Post
	HTML template.HTML
}

func (h *Handler) renderPosts(posts []domain.Post) []postView {
	views := make([]postView, len(posts))
	for i, p := range posts {
		views[i] = postView{Post: p, HTML: h.markup.Render(p.Message)}
	}
	return views
}
