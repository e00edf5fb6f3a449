// Package composer implements the post composer: the draft being written, the
// picker panels around it, and the guarded submit that hands the draft to a
// CreateAction.
package composer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/isdelr/social-be/internal/i18n"
)

var (
	// ErrEmptyDraft is returned by Submit when there is nothing to post.
	ErrEmptyDraft = errors.New("draft has no content, image or gif")
	// ErrSubmitInFlight is returned by Submit while a previous submit is pending.
	ErrSubmitInFlight = errors.New("a post is already being submitted")
	// ErrNotCreated is returned by Submit when the action answered without success.
	ErrNotCreated = errors.New("post was not created")
)

// Draft is the unsaved post being composed.
type Draft struct {
	Content  string
	ImageURL string
	GifURL   string
}

// Submittable reports whether the draft has trimmed text, an image or a gif.
func (d Draft) Submittable() bool {
	return strings.TrimSpace(d.Content) != "" || d.ImageURL != "" || d.GifURL != ""
}

// Result is what a CreateAction reports back.
type Result struct {
	Success bool
	PostID  string
	Error   string
}

// CreateAction persists a post. Only content and imageURL are sent; a draft's
// GIF is not part of the contract.
type CreateAction interface {
	CreatePost(ctx context.Context, content, imageURL string) (Result, error)
}

// CreateActionFunc adapts a function to CreateAction.
type CreateActionFunc func(ctx context.Context, content, imageURL string) (Result, error)

// CreatePost calls f.
func (f CreateActionFunc) CreatePost(ctx context.Context, content, imageURL string) (Result, error) {
	return f(ctx, content, imageURL)
}

// Level classifies a transient notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a transient, user-visible notification. Key is an i18n message key.
type Notice struct {
	Level Level
	Key   string
}

// Notifier displays notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// State is a snapshot of the composer.
type State struct {
	Draft           Draft
	IsPosting       bool
	ShowImageUpload bool
	ShowEmojiPicker bool
}

// Composer holds the draft and panel state. It is safe for concurrent use;
// while a submit is pending every control is disabled and mutations are ignored.
type Composer struct {
	action CreateAction
	notify Notifier

	mu              sync.Mutex
	draft           Draft
	isPosting       bool
	showImageUpload bool
	showEmojiPicker bool
}

// New creates an empty composer. notify may be nil.
func New(action CreateAction, notify Notifier) *Composer {
	if notify == nil {
		notify = NotifierFunc(func(Notice) {})
	}
	return &Composer{action: action, notify: notify}
}

// State returns a snapshot of the composer.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Draft:           c.draft,
		IsPosting:       c.isPosting,
		ShowImageUpload: c.showImageUpload,
		ShowEmojiPicker: c.showEmojiPicker,
	}
}

// SetContent replaces the draft text. No validation happens until submit.
func (c *Composer) SetContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isPosting {
		return
	}
	c.draft.Content = content
}

// ToggleImageUpload opens or closes the image panel.
func (c *Composer) ToggleImageUpload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isPosting {
		return
	}
	c.showImageUpload = !c.showImageUpload
}

// SetImageURL receives the uploaded image URL. Clearing it also closes the panel.
func (c *Composer) SetImageURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isPosting {
		return
	}
	c.draft.ImageURL = url
	if url == "" {
		c.showImageUpload = false
	}
}

// ToggleEmojiPicker opens or closes the emoji panel.
func (c *Composer) ToggleEmojiPicker() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isPosting {
		return
	}
	c.showEmojiPicker = !c.showEmojiPicker
}

// SelectEmoji appends the glyph to the text and closes the emoji panel.
func (c *Composer) SelectEmoji(glyph string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isPosting {
		return
	}
	c.draft.Content += glyph
	c.showEmojiPicker = false
}

// SelectGIF is a placeholder control: it only tells the user GIFs are not
// available yet. GifURL is never set by any control.
func (c *Composer) SelectGIF() {
	c.mu.Lock()
	posting := c.isPosting
	c.mu.Unlock()
	if posting {
		return
	}
	c.notify.Notify(Notice{Level: LevelInfo, Key: i18n.ToastGIFSoon})
}

// CanSubmit reports whether the submit control is enabled.
func (c *Composer) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Submittable() && !c.isPosting
}

// Reset clears the draft and closes the image panel.
func (c *Composer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Composer) reset() {
	c.draft = Draft{}
	c.showImageUpload = false
}

// Submit hands the draft to the create action. An empty draft is a no-op and a
// second call while one is pending is refused. On success the draft is reset
// and a success notice raised; an action error raises an error notice. The
// posting flag is cleared on every path.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.isPosting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !c.draft.Submittable() {
		c.mu.Unlock()
		return ErrEmptyDraft
	}
	c.isPosting = true
	content, imageURL := c.draft.Content, c.draft.ImageURL
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isPosting = false
		c.mu.Unlock()
	}()

	result, err := c.action.CreatePost(ctx, content, imageURL)
	if err != nil {
		c.notify.Notify(Notice{Level: LevelError, Key: i18n.ToastPostFailed})
		return err
	}
	if !result.Success {
		return ErrNotCreated
	}

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	c.notify.Notify(Notice{Level: LevelSuccess, Key: i18n.ToastPostCreated})
	return nil
}
