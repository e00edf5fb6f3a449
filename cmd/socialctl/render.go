package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/isdelr/social-be/internal/composer"
	"github.com/isdelr/social-be/internal/i18n"
	"github.com/isdelr/social-be/internal/nav"
	"golang.org/x/text/message"
)

var (
	successColor = lipgloss.Color("#8BC34A")
	errorColor   = lipgloss.Color("#e53935")
	infoColor    = lipgloss.Color("#2196F3")

	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	toastStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// renderMenu lays the menu out as one entry per line.
func renderMenu(menu nav.Menu, p *message.Printer) string {
	var b strings.Builder
	title := p.Sprintf(i18n.NavMenu)
	if menu.Username != "" {
		title += " " + mutedStyle.Render("@"+menu.Username)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')

	for _, item := range menu.Items {
		target := item.Href
		if item.Method != "" {
			target = item.Method + " " + target
		}
		fmt.Fprintf(&b, "  %-16s %s\n", p.Sprintf(item.Label), mutedStyle.Render(target))
	}
	return b.String()
}

// toaster prints composer notices as coloured one-line toasts.
type toaster struct {
	w io.Writer
	p *message.Printer
}

func newToaster(w io.Writer, p *message.Printer) *toaster {
	return &toaster{w: w, p: p}
}

func (t *toaster) Notify(n composer.Notice) {
	color := infoColor
	switch n.Level {
	case composer.LevelSuccess:
		color = successColor
	case composer.LevelError:
		color = errorColor
	}
	fmt.Fprintln(t.w, toastStyle.Foreground(color).Render(t.p.Sprintf(n.Key)))
}
