package handler

import (
	"fmt"
	"net/http"

	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// HomePageData feeds home.html.
type HomePageData struct {
	Boards []domain.Board
}

// HomeGetHandler lists every board, alphabetically.
func (h *Handler) HomeGetHandler(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.List()
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "home.html", HomePageData{Boards: boards})
}

// NewBoardPageData feeds new_board.html.
type NewBoardPageData struct {
	Form       newBoardForm
	FormErrors map[string]string
}

func (h *Handler) NewBoardGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "new_board.html", NewBoardPageData{})
}

func (h *Handler) NewBoardPostHandler(w http.ResponseWriter, r *http.Request) {
	form := newBoardForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	if errs := formErrors(form); errs != nil {
		h.renderTemplate(w, r, "new_board.html", NewBoardPageData{Form: form, FormErrors: errs})
		return
	}

	id, err := h.boards.Create(domain.BoardCreationData{Name: form.Name, Description: form.Description})
	if err != nil {
		code := internal_errors.StatusCode(err)
		if code == http.StatusBadRequest || code == http.StatusConflict {
			h.renderTemplateWithError(w, r, "new_board.html", NewBoardPageData{Form: form}, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/boards/%d/", id), http.StatusSeeOther)
}
