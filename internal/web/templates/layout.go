package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// AppName is shown in the page title and header.
const AppName = "Social"

// PageOptions configures the outer page chrome.
type PageOptions struct {
	Title  string
	Lang   string
	Navbar templ.Component
	Body   templ.Component
}

// Page renders a full HTML document around the navbar and body.
func Page(opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		render := func(c templ.Component) error { return c.Render(ctx, w) }

		h.raw("<!doctype html><html")
		h.attr("lang", opts.Lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if opts.Title != "" {
			h.text(opts.Title + " · " + AppName)
		} else {
			h.text(AppName)
		}
		h.raw(`</title></head><body><header class="flex items-center justify-between p-4 border-b"><a class="text-xl font-bold" href="/">`)
		h.text(AppName)
		h.raw(`</a>`)
		h.component(opts.Navbar, render)
		h.raw(`</header><main class="max-w-2xl mx-auto p-4">`)
		if opts.Title != "" {
			h.raw("<h1>")
			h.text(opts.Title)
			h.raw("</h1>")
		}
		h.component(opts.Body, render)
		h.raw("</main></body></html>")
		return h.err
	})
}
