package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
	"github.com/talkboard/talkboard/internal/logger"
	mw "github.com/talkboard/talkboard/internal/middleware"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

// CommonTemplateData holds fields available to every page template as .Common.
type CommonTemplateData struct {
	User       *domain.User
	CSRFToken  string
	Error      string
	Success    string
	Validation ValidationData
}

// ValidationData exposes form limits so templates can set maxlength attributes.
type ValidationData struct {
	BoardNameMaxLen    int
	BoardDescMaxLen    int
	TopicSubjectMaxLen int
	PostMessageMaxLen  int
}

func (h *Handler) commonTemplateData(r *http.Request) CommonTemplateData {
	return CommonTemplateData{
		User:      mw.GetUserFromContext(r),
		CSRFToken: mw.GetCSRFTokenFromContext(r),
		Validation: ValidationData{
			BoardNameMaxLen:    h.cfg.BoardNameMaxLen,
			BoardDescMaxLen:    h.cfg.BoardDescMaxLen,
			TopicSubjectMaxLen: h.cfg.TopicSubjectMaxLen,
			PostMessageMaxLen:  h.cfg.PostMessageMaxLen,
		},
	}
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	common := h.commonTemplateData(r)
	common.Error = errMsg

	h.renderWithCommon(w, name, data, common)
}

// renderWithCommon executes a page template with fully prepared common data.
// Used directly when a handler needs to set a success message.
func (h *Handler) renderWithCommon(w http.ResponseWriter, name string, data any, common CommonTemplateData) {
	tmpl, ok := h.Templates[name]
	if !ok {
		logger.Log.Error("template not found", "template", name)
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	wrapped := TemplateData{Data: data, Common: common}

	// Render into a buffer first so a template error never produces a
	// half-written page.
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	_, _ = buf.WriteTo(w)
}

// writeError maps a service error onto an HTTP response. Plain errors become
// an opaque 500, ErrorWithStatusCode carries its own code and message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := internal_errors.StatusCode(err)
	if code == http.StatusNotFound {
		http.NotFound(w, r)
		return
	}
	if code == http.StatusInternalServerError {
		logger.Log.Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", code)
		return
	}
	http.Error(w, err.Error(), code)
}
