package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/isdelr/social-be/internal/i18n"
	"github.com/isdelr/social-be/internal/nav"
	"golang.org/x/text/message"
)

// NavbarView provides data for the mobile navigation shell.
type NavbarView struct {
	Menu    nav.Menu
	Open    bool
	Printer *message.Printer
}

// MobileNavbar renders the menu trigger and the slide-over panel.
func MobileNavbar(v NavbarView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		p := v.Printer

		state, toggle := "closed", "?menu=open"
		if v.Open {
			state, toggle = "open", "?"
		}

		h.raw(`<div class="flex md:hidden items-center space-x-2">`)
		h.raw(`<a class="btn btn-ghost btn-icon" data-nav-trigger`)
		h.urlAttr("href", toggle)
		h.attr("aria-expanded", strconv.FormatBool(v.Open))
		h.attr("aria-label", p.Sprintf(i18n.NavMenu))
		h.raw(`>&#9776;</a>`)

		h.raw(`<aside class="sheet w-[300px]" data-side="right"`)
		h.attr("data-state", state)
		if !v.Open {
			h.raw(" hidden")
		}
		h.raw(`><h2 class="sheet-title">`)
		h.text(p.Sprintf(i18n.NavMenu))
		h.raw(`</h2><nav class="flex flex-col space-y-4 mt-6">`)
		for _, item := range v.Menu.Items {
			navItem(h, item, p)
		}
		h.raw(`</nav></aside></div>`)
		return h.err
	})
}

func navItem(h *htmlWriter, item nav.Item, p *message.Printer) {
	label := p.Sprintf(item.Label)
	if item.Method == "POST" {
		h.raw(`<form method="post"`)
		h.urlAttr("action", item.Href)
		h.raw(`><button type="submit" class="btn btn-ghost w-full justify-start"`)
		h.attr("data-kind", string(item.Kind))
		h.raw(">")
		h.text(label)
		h.raw("</button></form>")
		return
	}

	class := "btn btn-ghost flex items-center gap-3 justify-start"
	if item.Kind == nav.KindSignIn {
		class = "btn btn-default w-full"
	}
	h.raw("<a")
	h.attr("class", class)
	h.urlAttr("href", item.Href)
	h.attr("data-kind", string(item.Kind))
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}
