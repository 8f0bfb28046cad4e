package handler

import (
	"fmt"
	"net/http"

	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
	mw "github.com/talkboard/talkboard/internal/middleware"
)

// TopicsPageData feeds topics.html.
type TopicsPageData struct {
	Board      domain.Board
	Topics     []domain.Topic
	Page       int
	TotalPages int
}

// TopicsGetHandler lists a board's topics, most recently updated first.
func (h *Handler) TopicsGetHandler(w http.ResponseWriter, r *http.Request) {
	boardId, err := idParam(r, "board")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page, ok := pageQuery(r)
	if !ok {
		http.Error(w, "invalid page: must be an integer", http.StatusBadRequest)
		return
	}

	listing, err := h.topics.ListPage(boardId, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "topics.html", TopicsPageData{
		Board:      listing.Board,
		Topics:     listing.Topics,
		Page:       listing.Page,
		TotalPages: listing.TotalPages,
	})
}

// NewTopicPageData feeds new_topic.html.
type NewTopicPageData struct {
	Board      domain.Board
	Form       newTopicForm
	FormErrors map[string]string
}

func (h *Handler) NewTopicGetHandler(w http.ResponseWriter, r *http.Request) {
	boardId, err := idParam(r, "board")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	board, err := h.boards.Get(boardId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "new_topic.html", NewTopicPageData{Board: board})
}

func (h *Handler) NewTopicPostHandler(w http.ResponseWriter, r *http.Request) {
	boardId, err := idParam(r, "board")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	user := mw.GetUserFromContext(r)
	if user == nil {
		mw.RedirectToLogin(w, r)
		return
	}

	form := newTopicForm{
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}
	rerender := func(errs map[string]string, errMsg string) {
		board, berr := h.boards.Get(boardId)
		if berr != nil {
			writeError(w, r, berr)
			return
		}
		h.renderTemplateWithError(w, r, "new_topic.html", NewTopicPageData{
			Board: board, Form: form, FormErrors: errs,
		}, errMsg)
	}

	if errs := formErrors(form); errs != nil {
		rerender(errs, "")
		return
	}

	topicId, err := h.topics.Create(domain.TopicCreationData{
		Board:   boardId,
		Subject: form.Subject,
		Author:  *user,
		Message: form.Message,
	})
	if err != nil {
		if internal_errors.StatusCode(err) == http.StatusBadRequest {
			rerender(nil, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/boards/%d/topics/%d/", boardId, topicId), http.StatusSeeOther)
}
