package templates

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/isdelr/social-be/internal/i18n"
	"github.com/isdelr/social-be/internal/models"
	"github.com/isdelr/social-be/internal/nav"
	"golang.org/x/text/message"
)

const timeLayout = "2006-01-02 15:04"

// PostList renders posts newest-first, or an empty state.
func PostList(posts []models.Post, p *message.Printer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(posts) == 0 {
			h.raw(`<p class="empty-state">`)
			h.text(p.Sprintf(i18n.PageEmptyFeed))
			h.raw("</p>")
			return h.err
		}

		h.raw(`<ul class="posts space-y-4">`)
		for _, post := range posts {
			h.raw(`<li class="card"`)
			h.attr("data-post-id", post.ID)
			h.raw(`><a class="font-semibold"`)
			h.urlAttr("href", nav.ProfilePath(post.AuthorUsername))
			h.raw(">@")
			h.text(post.AuthorUsername)
			h.raw("</a> <time")
			h.attr("datetime", post.CreatedAt.Format(time.RFC3339))
			h.raw(">")
			h.text(post.CreatedAt.Format(timeLayout))
			h.raw("</time>")
			if post.Content != "" {
				h.raw(`<p class="whitespace-pre-wrap">`)
				h.text(post.Content)
				h.raw("</p>")
			}
			if post.ImageURL != "" {
				h.raw(`<img class="rounded-lg" alt=""`)
				h.urlAttr("src", post.ImageURL)
				h.raw(">")
			}
			h.raw("</li>")
		}
		h.raw("</ul>")
		return h.err
	})
}

// NotificationList renders a user's notifications.
func NotificationList(notifications []models.Notification, p *message.Printer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(notifications) == 0 {
			h.raw(`<p class="empty-state">`)
			h.text(p.Sprintf(i18n.PageNoActivity))
			h.raw("</p>")
			return h.err
		}

		h.raw(`<ul class="notifications">`)
		for _, n := range notifications {
			h.raw("<li")
			h.attr("data-type", n.Type)
			h.raw(">")
			h.text(n.Message)
			h.raw(" <time")
			h.attr("datetime", n.CreatedAt.Format(time.RFC3339))
			h.raw(">")
			h.text(n.CreatedAt.Format(timeLayout))
			h.raw("</time></li>")
		}
		h.raw("</ul>")
		return h.err
	})
}

// ProfileHeader renders the public part of a profile.
func ProfileHeader(profile models.PublicProfile) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="profile flex items-center gap-4">`)
		avatar := profile.ImageURL
		if avatar == "" {
			avatar = "/avatar.png"
		}
		h.raw(`<img class="avatar w-16 h-16 rounded-full" alt=""`)
		h.urlAttr("src", avatar)
		h.raw(`><p class="text-lg">@`)
		h.text(profile.Username)
		h.raw("</p></section>")
		return h.err
	})
}

// SignInForm renders the credentials form posting to the sign-in endpoint.
func SignInForm(failed bool, p *message.Printer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form method="post" action="/api/auth/sign-in" class="space-y-4">`)
		if failed {
			h.raw(`<p class="alert alert-error" role="alert">`)
			h.text(p.Sprintf(i18n.PageInvalidCredentials))
			h.raw("</p>")
		}
		h.raw(`<label>`)
		h.text(p.Sprintf(i18n.PageUsername))
		h.raw(` <input name="username" autocomplete="username" required></label><label>`)
		h.text(p.Sprintf(i18n.PagePassword))
		h.raw(` <input name="password" type="password" autocomplete="current-password" required></label><button type="submit" class="btn btn-default">`)
		h.text(p.Sprintf(i18n.NavSignIn))
		h.raw("</button></form>")
		return h.err
	})
}

// Stack renders components one after another.
func Stack(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range components {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
