package main

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/repositories"
)

const minPasswordLength = 8

type authTemplateData struct {
	BaseTemplateData

	Email string
	Name  string
}

func (app *application) registerPage(w http.ResponseWriter, r *http.Request) {
	data := authTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
	}
	app.render(w, r, http.StatusOK, "register", data)
}

func (app *application) registerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	name := strings.TrimSpace(r.PostForm.Get("name"))
	password := r.PostForm.Get("password")

	if message := validateCredentials(email, name, password); message != "" {
		app.flash(r, message)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	userID, err := app.users.Register(r.Context(), email, name, password)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			app.flash(r, "An account with that email already exists.")
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "register user"))
		return
	}

	app.signIn(w, r, userID)
}

func (app *application) loginPage(w http.ResponseWriter, r *http.Request) {
	data := authTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
	}
	app.render(w, r, http.StatusOK, "login", data)
}

func (app *application) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	userID, err := app.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidCredentials) {
			app.flash(r, "Email or password is incorrect.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "authenticate user"))
		return
	}

	app.signIn(w, r, userID)
}

// signIn rotates the session token to prevent fixation and binds the session
// to the user.
func (app *application) signIn(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Put(r.Context(), string(userIDSessionKey), userID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Remove(r.Context(), string(userIDSessionKey))
	app.flash(r, "You have been signed out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func validateCredentials(email, name, password string) string {
	if email == "" || name == "" || password == "" {
		return "All fields are required."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "That email address doesn't look right."
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "Password must be at least 8 characters long."
	}
	return ""
}
