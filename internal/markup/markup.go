// Package markup turns raw post messages into safe HTML for the templates.
package markup

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &Renderer{md: md, policy: bluemonday.UGCPolicy()}
}

// Render converts a message to sanitized HTML. Raw HTML in the source is
// stripped by the sanitizer, never passed through.
func (r *Renderer) Render(message string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(message), &buf); err != nil {
		// fall back to escaped plain text
		return template.HTML(template.HTMLEscapeString(message))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}
