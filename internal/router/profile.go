package router

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/GustavoCaso/bookcatalog/internal/profile"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

const profileUpdateFailed = "Update failed. Please ensure the form is valid."

type profileViewData struct {
	viewBase
	Form        profile.Form
	FieldErrors profile.ValidationError
}

type profileHandler struct {
	router *router
}

func (p *profileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /profile", requireUser(func(w http.ResponseWriter, r *http.Request) {
		p.profilePage(w, r, nil, nil)
	}))
	mux.HandleFunc("POST /profile", requireUser(p.updateProfile))
	mux.HandleFunc("POST /profile/username", requireUser(p.updateUsername))
	mux.HandleFunc("POST /profile/password", requireUser(p.updatePassword))
}

func (p *profileHandler) profilePage(w http.ResponseWriter, r *http.Request, banner *banner, err error) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	stored, getErr := p.router.storage.GetProfile(ctx, userID)
	if getErr != nil {
		p.router.logger.Error("Failed to get profile", "error", getErr, "user_id", userID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderProfile(w, r, profile.FormFromProfile(stored), nil, banner, err)
}

func (p *profileHandler) renderProfile(
	w http.ResponseWriter,
	r *http.Request,
	form profile.Form,
	fieldErrors profile.ValidationError,
	banner *banner,
	err error,
) {
	data := profileViewData{
		viewBase:    p.router.newViewBase(w, r, pageProfile),
		Form:        form,
		FieldErrors: fieldErrors,
	}

	if banner != nil {
		data.Banner = *banner
	}

	if err != nil {
		data.Error = err.Error()
	}

	p.router.render(w, "pages/profile/index.html", data)
}

func (p *profileHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, errors.New("invalid form data"))
		return
	}

	form := profile.Form{
		PhoneNumber:    r.PostFormValue("default_phone_number"),
		Country:        r.PostFormValue("default_country"),
		Postcode:       r.PostFormValue("default_postcode"),
		TownOrCity:     r.PostFormValue("default_town_or_city"),
		StreetAddress1: r.PostFormValue("default_street_address1"),
		StreetAddress2: r.PostFormValue("default_street_address2"),
		County:         r.PostFormValue("default_county"),
	}

	updated, err := form.Validate(userID)
	if err != nil {
		var validationErr profile.ValidationError
		if errors.As(err, &validationErr) {
			p.renderProfile(w, r, form, validationErr, nil, errors.New(profileUpdateFailed))
			return
		}
		p.renderError(w, r, err)
		return
	}

	if err = p.router.storage.UpdateProfile(ctx, updated); err != nil {
		p.router.logger.Error("Failed to update profile", "error", err, "user_id", userID)
		p.renderError(w, r, errors.New("failed to update profile"))
		return
	}

	p.router.logger.Info("Profile updated", "user_id", userID)
	p.renderSuccess(w, r, "Profile updated successfully")
}

func (p *profileHandler) updateUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, err)
		return
	}

	newUsername := strings.TrimSpace(r.FormValue("username"))

	if newUsername == "" {
		p.renderError(w, r, errors.New("username is required"))
		return
	}

	_, err := p.router.storage.GetUserByUsername(ctx, newUsername)
	if err == nil {
		p.renderError(w, r, errors.New("username already exists"))
		return
	}

	var notFoundErr *storage.NotFoundError
	if !errors.As(err, &notFoundErr) {
		p.router.logger.Error("Failed to check username", "error", err)
		p.renderError(w, r, errors.New("internal Server Error"))
		return
	}

	if err = p.router.storage.UpdateUsername(ctx, userID, newUsername); err != nil {
		p.router.logger.Error("Failed to update username", "error", err, "user_id", userID)
		p.renderError(w, r, errors.New("failed to update username"))
		return
	}

	p.router.logger.Info("Username updated", "user_id", userID, "new_username", newUsername)
	p.renderSuccess(w, r, "Username updated successfully")
}

func (p *profileHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, errors.New("invalid form data"))
		return
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		p.renderError(w, r, errors.New("all fields are required"))
		return
	}

	if newPassword != confirmPassword {
		p.renderError(w, r, errors.New("new passwords do not match"))
		return
	}

	if len(newPassword) < minPasswordLength {
		p.renderError(w, r, errors.New("password must be at least 8 characters long"))
		return
	}

	user, err := p.router.storage.GetUserByID(ctx, userID)
	if err != nil {
		p.router.logger.Error("Failed to get user", "error", err, "user_id", userID)
		p.renderError(w, r, errors.New("internal Server Error"))
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(currentPassword)); err != nil {
		p.renderError(w, r, errors.New("current password is incorrect"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		p.router.logger.Error("Failed to hash password", "error", err)
		p.renderError(w, r, errors.New("internal Server Error"))
		return
	}

	if err = p.router.storage.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		p.router.logger.Error("Failed to update password", "error", err, "user_id", userID)
		p.renderError(w, r, errors.New("failed to update password"))
		return
	}

	p.router.logger.Info("Password updated", "user_id", userID)
	p.renderSuccess(w, r, "Password changed successfully")
}

func (p *profileHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	p.profilePage(w, r, nil, err)
}

func (p *profileHandler) renderSuccess(w http.ResponseWriter, r *http.Request, message string) {
	p.profilePage(w, r, &banner{
		Icon:    "✓",
		Message: message,
	}, nil)
}
