package templates

import (
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with the value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

// urlAttr writes a URL-valued attribute. Values with a scheme other than
// http, https, mailto or tel are replaced by templ's failed-sanitization URL.
func (h *htmlWriter) urlAttr(name, value string) {
	h.attr(name, string(templ.URL(value)))
}

func (h *htmlWriter) component(c templ.Component, render func(templ.Component) error) {
	if h.err != nil || c == nil {
		return
	}
	h.err = render(c)
}
