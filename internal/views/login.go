package views

import (
	"accessgate/internal/router"
	"net/http"
)

// LoginForm is the state of the sign-in page.
type LoginForm struct {
	// Action is the form target.
	Action string
	// Email is echoed back after a failed attempt.
	Email string
	// DashboardHref links a signed-in operator to their dashboard.
	DashboardHref string
	// Error is shown above the form.
	Error string
}

// Login renders the sign-in page: the form without a session, the signed-in
// card otherwise.
func (s *Set) Login(w http.ResponseWriter, r *http.Request, c Context, status int, form LoginForm) {
	if form.Action == "" && c.Router != nil {
		form.Action = c.Router.Href("/")
	}
	if c.User != nil && form.DashboardHref == "" && c.Router != nil {
		form.DashboardHref, _ = c.Router.URL(router.DashboardFor(c.User.Role), nil)
	}

	page := s.page(c, titleOf(router.ViewLogin), form)
	page.Error = form.Error
	s.render(r.Context(), w, status, "login", page)
}

func (s *Set) loginGet(w http.ResponseWriter, r *http.Request, c Context) {
	s.Login(w, r, c, http.StatusOK, LoginForm{})
}
