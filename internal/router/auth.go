package router

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
	"github.com/GustavoCaso/bookcatalog/internal/util"
)

const (
	sessionCookieName = "session_id"
	sessionDuration   = 7 * 24 * time.Hour // 7 days
	minPasswordLength = 8
	sessionIDLength   = 32
)

type authHandler struct {
	router *router
}

func (a *authHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /signup", a.signupPage)
	mux.HandleFunc("POST /signup", a.signup)
	mux.HandleFunc("GET /signin", a.signinPage)
	mux.HandleFunc("POST /signin", a.signin)
	mux.HandleFunc("POST /signout", a.signout)
}

func (a *authHandler) signupPage(w http.ResponseWriter, r *http.Request) {
	if userIDFromContext(r.Context()) != 0 {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	a.router.render(w, "pages/auth/signup.html", a.router.newViewBase(w, r, pageAuth))
}

func (a *authHandler) signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirmPassword := r.FormValue("confirm_password")

	if username == "" || password == "" {
		a.renderAuthError(w, "pages/auth/signup.html", "Username and password are required")
		return
	}

	if password != confirmPassword {
		a.renderAuthError(w, "pages/auth/signup.html", "Passwords do not match")
		return
	}

	if len(password) < minPasswordLength {
		a.renderAuthError(w, "pages/auth/signup.html", "Password must be at least 8 characters long")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		a.router.logger.Error("Failed to hash password", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The profile row is created together with the user.
	user, err := a.router.storage.CreateUser(r.Context(), username, string(hashedPassword))
	if err != nil {
		a.router.logger.Error("Failed to create user", "error", err, "username", username)
		a.renderAuthError(w, "pages/auth/signup.html", "Username already exists or database error occurred")
		return
	}

	if err = a.startSession(w, r, user); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.router.logger.Info("User signed up", "user_id", user.ID())
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (a *authHandler) signinPage(w http.ResponseWriter, r *http.Request) {
	if userIDFromContext(r.Context()) != 0 {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	a.router.render(w, "pages/auth/signin.html", a.router.newViewBase(w, r, pageAuth))
}

func (a *authHandler) signin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		a.renderAuthError(w, "pages/auth/signin.html", "Username and password are required")
		return
	}

	user, err := a.router.storage.GetUserByUsername(r.Context(), username)
	if err != nil {
		var notFoundErr *storage.NotFoundError
		if errors.As(err, &notFoundErr) {
			a.renderAuthError(w, "pages/auth/signin.html", "Invalid username or password")
			return
		}
		a.router.logger.Error("Failed to get user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(password)); err != nil {
		a.renderAuthError(w, "pages/auth/signin.html", "Invalid username or password")
		return
	}

	if err = a.startSession(w, r, user); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (a *authHandler) signout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		if err = a.router.storage.DeleteSession(r.Context(), cookie.Value); err != nil {
			a.router.logger.Error("Failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (a *authHandler) startSession(w http.ResponseWriter, r *http.Request, user storage.User) error {
	sessionID := util.GenerateRandomID(sessionIDLength)
	expiresAt := time.Now().Add(sessionDuration)

	if _, err := a.router.storage.CreateSession(r.Context(), user.ID(), sessionID, expiresAt); err != nil {
		a.router.logger.Error("Failed to create session", "error", err, "user_id", user.ID())
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Expires:  expiresAt,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})

	return nil
}

func (a *authHandler) renderAuthError(w http.ResponseWriter, page, errorMsg string) {
	a.router.render(w, page, viewBase{
		Error:       errorMsg,
		CurrentPage: pageAuth,
	})
}
