// Package views renders the console pages, one handler per view component
// named in the route table.
package views

import (
	"accessgate/internal/router"
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/storage"
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Context is what a view needs to render one request.
type Context struct {
	Router *router.Router
	Match  router.Match
	// User is the signed-in operator, or nil.
	User *domain.User
}

// Handler renders a view.
type Handler func(w http.ResponseWriter, r *http.Request, c Context)

// Deps are the collaborators of data-backed views.
type Deps struct {
	Storage storage.AllStorage
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NavLink is one navigation entry.
type NavLink struct {
	Title  string
	Href   string
	Active bool
}

// Page is the data every template receives.
type Page struct {
	Title string
	User  *domain.User
	Nav   []NavLink
	Error string
	Body  any
}

// Set holds the parsed templates and the view handlers.
type Set struct {
	deps      Deps
	templates *template.Template
	handlers  map[string]Handler
}

// New parses the embedded templates and registers a handler for every view
// component of the route table except the login view, which the application
// shell drives through Login.
func New(deps Deps) (*Set, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	templates, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	s := &Set{
		deps:      deps,
		templates: templates,
		handlers:  make(map[string]Handler, len(pages)+2),
	}
	for view, p := range pages {
		s.handlers[view] = s.static(p)
	}
	s.handlers[router.ViewViewQRCode] = s.viewQRCode
	s.handlers[router.ViewSecurityLogs] = s.securityLogs

	return s, nil
}

// Lookup returns the handler of view.
func (s *Set) Lookup(view string) (Handler, bool) {
	if view == router.ViewLogin {
		return s.loginGet, true
	}
	h, ok := s.handlers[view]

	return h, ok
}

// render executes name into a buffer first so a failing template never
// produces a partial page.
func (s *Set) render(ctx context.Context, w http.ResponseWriter, status int, name string, page Page) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, page); err != nil {
		logger.Error(ctx, "could not render view", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Set) page(c Context, title string, body any) Page {
	return Page{
		Title: title,
		User:  c.User,
		Nav:   navigation(c),
		Body:  body,
	}
}

// navigation lists the parameterless routes the operator may open.
func navigation(c Context) []NavLink {
	if c.User == nil || c.Router == nil {
		return nil
	}

	var links []NavLink
	for _, rt := range c.Router.Routes() {
		if rt.View == "" || rt.Public || !rt.Allows(c.User.Role) {
			continue
		}
		href, err := c.Router.URL(rt.Name, nil)
		if err != nil {
			continue
		}
		links = append(links, NavLink{
			Title:  titleOf(rt.View),
			Href:   href,
			Active: rt.Name == c.Match.Route.Name,
		})
	}

	return links
}

type errorBody struct {
	Message  string
	HomeHref string
}

// Error renders an error page with status.
func (s *Set) Error(w http.ResponseWriter, r *http.Request, c Context, status int, msg string) {
	home := "/"
	if c.Router != nil {
		home = c.Router.Href("/")
	}
	s.render(r.Context(), w, status, "error", s.page(c, http.StatusText(status), errorBody{
		Message:  msg,
		HomeHref: home,
	}))
}

// NotFound renders the 404 page.
func (s *Set) NotFound(w http.ResponseWriter, r *http.Request, c Context) {
	s.Error(w, r, c, http.StatusNotFound, "The page you are looking for does not exist.")
}

// Forbidden renders the 403 page.
func (s *Set) Forbidden(w http.ResponseWriter, r *http.Request, c Context) {
	s.Error(w, r, c, http.StatusForbidden, "Your role does not allow opening this page.")
}
