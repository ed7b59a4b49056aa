package router

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	pageProducts = "products"
	pageProfile  = "profile"
	pageAuth     = "auth"

	flashCookieName = "flash"
	flashDuration   = time.Minute
)

type banner struct {
	Icon    string
	Message string
}

type viewBase struct {
	Error            string
	Banner           banner
	CurrentPage      string
	LoggedIn         bool
	Username         string
	UsernameInitials string
	SearchTerm       string
}

// newViewBase creates a new viewBase with user information from the request
// context and consumes any pending flash message.
func (router *router) newViewBase(w http.ResponseWriter, r *http.Request, currentPage string) viewBase {
	ctx := r.Context()
	base := viewBase{
		CurrentPage: currentPage,
		Error:       consumeFlash(w, r),
	}

	userID := userIDFromContext(ctx)
	if userID == 0 {
		return base
	}

	base.LoggedIn = true
	user, err := router.storage.GetUserByID(ctx, userID)
	if err != nil {
		router.logger.Error("Failed to get user for view data", "error", err, "user_id", userID)
		return base
	}

	base.Username = user.Username()
	base.UsernameInitials = getInitials(user.Username())

	return base
}

// getInitials returns the first two characters of a username in uppercase.
func getInitials(username string) string {
	runes := []rune(username)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// setFlash stores a message shown by the next rendered page.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		MaxAge:   int(flashDuration.Seconds()),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

func consumeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}

	return message
}
