package app

import (
	"accessgate/internal/router"
	"accessgate/internal/views"
	"accessgate/pkg/logger"
	"accessgate/pkg/serrors"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Login form actions.
const (
	actionSignIn  = "sign-in"
	actionSignOut = "sign-out"
)

func (a *App) serveLoginPost(w http.ResponseWriter, r *http.Request, c views.Context) {
	if err := r.ParseForm(); err != nil {
		a.deps.Views.Login(w, r, c, http.StatusBadRequest, views.LoginForm{Error: "The form could not be read."})

		return
	}

	switch r.PostForm.Get("action") {
	case actionSignIn:
		email := r.PostForm.Get("email")
		user, err := a.deps.Auth.SignIn(r.Context(), email, r.PostForm.Get("password"))
		if err != nil {
			status := serrors.HTTPStatus(err)
			if status >= http.StatusInternalServerError {
				logger.Error(r.Context(), "could not sign in", zap.Error(err))
			}
			a.deps.Views.Login(w, r, c, status, views.LoginForm{Email: email, Error: signInMessage(err)})

			return
		}

		target, err := a.router.URL(router.DashboardFor(user.Role), nil)
		if err != nil {
			target = a.router.Href("/")
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	case actionSignOut:
		if err := a.deps.Auth.SignOut(r.Context()); err != nil {
			logger.Error(r.Context(), "could not sign out", zap.Error(err))
		}
		http.Redirect(w, r, a.router.Href("/"), http.StatusSeeOther)
	default:
		a.deps.Views.Login(w, r, c, http.StatusBadRequest, views.LoginForm{Error: "Unknown action."})
	}
}

func signInMessage(err error) string {
	switch {
	case errors.Is(err, serrors.ErrUnauthorized):
		return "Wrong email or password."
	case errors.Is(err, serrors.ErrBadRequest):
		return "Enter your email and password."
	case errors.Is(err, serrors.ErrRateLimited):
		return "Too many attempts. Try again later."
	default:
		return "Signing in is not possible right now."
	}
}
