package handler

import (
	"fmt"
	"net/http"

	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
	mw "github.com/talkboard/talkboard/internal/middleware"
)

// PostsPageData feeds topic_posts.html.
type PostsPageData struct {
	Topic      domain.Topic
	Posts      []postView
	Page       int
	TotalPages int
}

// PostsGetHandler shows one page of a topic's posts. Every render of this
// page counts as a topic view.
func (h *Handler) PostsGetHandler(w http.ResponseWriter, r *http.Request) {
	boardId, err := idParam(r, "board")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	topicId, err := idParam(r, "topic")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page, ok := pageQuery(r)
	if !ok {
		http.Error(w, "invalid page: must be an integer", http.StatusBadRequest)
		return
	}

	listing, err := h.posts.ListPage(boardId, topicId, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "topic_posts.html", PostsPageData{
		Topic:      listing.Topic,
		Posts:      h.renderPosts(listing.Posts),
		Page:       listing.Page,
		TotalPages: listing.TotalPages,
	})
}

// ReplyPageData feeds reply_topic.html.
type ReplyPageData struct {
	Topic      domain.Topic
	Form       messageForm
	FormErrors map[string]string
}

// ReplyGetHandler shows the reply form. Unlike the post listing it does not
// count a view.
func (h *Handler) ReplyGetHandler(w http.ResponseWriter, r *http.Request) {
	boardId, err := idParam(r, "board")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	topicId, err := idParam(r, "topic")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	topic, err := h.posts.Topic(boardId, topicId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "reply_topic.html", ReplyPageData{Topic: topic})
}

func (h *Handler) ReplyPostHandler(w http.ResponseWriter, r *http.Request) {
	boardId, err := idParam(r, "board")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	topicId, err := idParam(r, "topic")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	user := mw.GetUserFromContext(r)
	if user == nil {
		mw.RedirectToLogin(w, r)
		return
	}

	form := messageForm{Message: r.PostFormValue("message")}
	rerender := func(errs map[string]string, errMsg string) {
		topic, terr := h.posts.Topic(boardId, topicId)
		if terr != nil {
			writeError(w, r, terr)
			return
		}
		h.renderTemplateWithError(w, r, "reply_topic.html", ReplyPageData{
			Topic: topic, Form: form, FormErrors: errs,
		}, errMsg)
	}

	if errs := formErrors(form); errs != nil {
		rerender(errs, "")
		return
	}

	_, err = h.posts.CreateReply(domain.PostCreationData{
		Board:   boardId,
		Topic:   topicId,
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

	// Posts are listed newest first, so the fresh reply lands on page 1.
	http.Redirect(w, r, fmt.Sprintf("/boards/%d/topics/%d/", boardId, topicId), http.StatusSeeOther)
}

// EditPostPageData feeds edit_post.html.
type EditPostPageData struct {
	Topic      domain.Topic
	Post       domain.Post
	Form       messageForm
	FormErrors map[string]string
}

// EditPostGetHandler shows the edit form for the user's own post. A post
// belonging to someone else is indistinguishable from a missing one: 404.
func (h *Handler) EditPostGetHandler(w http.ResponseWriter, r *http.Request) {
	boardId, topicId, postId, ok := h.postParams(w, r)
	if !ok {
		return
	}
	user := mw.GetUserFromContext(r)
	if user == nil {
		mw.RedirectToLogin(w, r)
		return
	}

	post, err := h.posts.GetOwn(boardId, topicId, postId, user.Id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	topic, err := h.posts.Topic(boardId, topicId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "edit_post.html", EditPostPageData{
		Topic: topic,
		Post:  post,
		Form:  messageForm{Message: post.Message},
	})
}

func (h *Handler) EditPostPostHandler(w http.ResponseWriter, r *http.Request) {
	boardId, topicId, postId, ok := h.postParams(w, r)
	if !ok {
		return
	}
	user := mw.GetUserFromContext(r)
	if user == nil {
		mw.RedirectToLogin(w, r)
		return
	}

	form := messageForm{Message: r.PostFormValue("message")}
	rerender := func(errs map[string]string, errMsg string) {
		post, perr := h.posts.GetOwn(boardId, topicId, postId, user.Id)
		if perr != nil {
			writeError(w, r, perr)
			return
		}
		topic, terr := h.posts.Topic(boardId, topicId)
		if terr != nil {
			writeError(w, r, terr)
			return
		}
		h.renderTemplateWithError(w, r, "edit_post.html", EditPostPageData{
			Topic: topic, Post: post, Form: form, FormErrors: errs,
		}, errMsg)
	}

	if errs := formErrors(form); errs != nil {
		rerender(errs, "")
		return
	}

	err := h.posts.UpdateOwn(domain.PostUpdateData{
		Board:   boardId,
		Topic:   topicId,
		Post:    postId,
		Editor:  *user,
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

func (h *Handler) postParams(w http.ResponseWriter, r *http.Request) (boardId domain.BoardId, topicId domain.TopicId, postId domain.PostId, ok bool) {
	var err error
	if boardId, err = idParam(r, "board"); err != nil {
		http.NotFound(w, r)
		return 0, 0, 0, false
	}
	if topicId, err = idParam(r, "topic"); err != nil {
		http.NotFound(w, r)
		return 0, 0, 0, false
	}
	if postId, err = idParam(r, "post"); err != nil {
		http.NotFound(w, r)
		return 0, 0, 0, false
	}
	return boardId, topicId, postId, true
}
