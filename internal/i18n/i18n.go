// Package i18n holds the UI strings shown by the navigation shell, the web
// pages and the composer notifications.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	NavMenu          = "nav.menu"
	NavHome          = "nav.home"
	NavNotifications = "nav.notifications"
	NavProfile       = "nav.profile"
	NavSignIn        = "nav.sign_in"
	NavSignOut       = "nav.sign_out"

	ToastPostCreated = "toast.post_created"
	ToastPostFailed  = "toast.post_failed"
	ToastGIFSoon     = "toast.gif_soon"

	PageFeed          = "page.feed"
	PageEmptyFeed     = "page.empty_feed"
	PageNotifications = "page.notifications"
	PageNoActivity    = "page.no_activity"
	PageUsername      = "page.username"
	PagePassword      = "page.password"
	PageNotFound      = "page.not_found"

	PageInvalidCredentials = "page.invalid_credentials"
)

var supported = []language.Tag{language.English, language.Vietnamese}

var matcher = language.NewMatcher(supported)

var translations = map[language.Tag]map[string]string{
	language.English: {
		NavMenu:           "Menu",
		NavHome:           "Home",
		NavNotifications:  "Notifications",
		NavProfile:        "Profile",
		NavSignIn:         "Sign in",
		NavSignOut:        "Sign out",
		ToastPostCreated:  "Post created successfully",
		ToastPostFailed:   "Failed to create post",
		ToastGIFSoon:      "GIF picker is coming soon!",
		PageFeed:          "Latest posts",
		PageEmptyFeed:     "Nothing here yet.",
		PageNotifications: "Notifications",
		PageNoActivity:    "No activity yet.",
		PageUsername:      "Username",
		PagePassword:      "Password",
		PageNotFound:      "Not found",

		PageInvalidCredentials: "Invalid credentials",
	},
	language.Vietnamese: {
		NavMenu:           "Menu",
		NavHome:           "Trang Chủ",
		NavNotifications:  "Thông Báo",
		NavProfile:        "Trang Cá Nhân",
		NavSignIn:         "Đăng Nhập",
		NavSignOut:        "Đăng Xuất",
		ToastPostCreated:  "Đăng bài thành công",
		ToastPostFailed:   "Đăng bài thất bại",
		ToastGIFSoon:      "Chức năng chọn GIF sẽ được bổ sung trong tương lai!",
		PageFeed:          "Bài viết mới",
		PageEmptyFeed:     "Chưa có gì ở đây.",
		PageNotifications: "Thông Báo",
		PageNoActivity:    "Chưa có hoạt động nào.",
		PageUsername:      "Tên người dùng",
		PagePassword:      "Mật khẩu",
		PageNotFound:      "Không tìm thấy",

		PageInvalidCredentials: "Tên đăng nhập hoặc mật khẩu không đúng",
	},
}

var cat = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			// Keys never contain formatting verbs, so SetString cannot fail here.
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// Match picks the best supported language for an Accept-Language header value.
// Unknown or empty input falls back to English.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// NewPrinter returns a printer that translates message keys into tag's language.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// PrinterFor is shorthand for NewPrinter(Match(acceptLanguage)).
func PrinterFor(acceptLanguage string) *message.Printer {
	return NewPrinter(Match(acceptLanguage))
}
