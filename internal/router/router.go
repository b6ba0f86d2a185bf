// Package router holds the console route table and resolves request paths
// against it in history mode under a configurable base path.
package router

import (
	"accessgate/pkg/domain"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/mux"
)

// Route is one entry of the route table. Exactly one of View and Redirect is
// set. Path segments starting with ':' are parameters.
type Route struct {
	Path     string
	Name     string
	View     string
	Redirect string
	// Public routes are reachable without a session.
	Public bool
	// Roles restricts the route to the listed roles; empty allows any
	// signed-in operator.
	Roles []domain.Role
}

// Allows reports whether role may open the route.
func (r Route) Allows(role domain.Role) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// Match is a resolved route with its unescaped path parameters.
type Match struct {
	Route  Route
	Params map[string]string
}

// Options configures a Router.
type Options struct {
	// BasePath prefixes every route path. Defaults to "/".
	BasePath string
}

// Router resolves paths against a validated route table.
type Router struct {
	mux    *mux.Router
	base   string
	routes []Route
	byPath map[string]Route
}

// New validates routes and builds a Router.
func New(routes []Route, opts Options) (*Router, error) {
	if err := Validate(routes); err != nil {
		return nil, err
	}

	base := "/" + strings.Trim(opts.BasePath, "/")
	r := &Router{
		mux:    mux.NewRouter().UseEncodedPath(),
		base:   base,
		routes: slices.Clone(routes),
		byPath: make(map[string]Route, len(routes)),
	}
	for _, rt := range r.routes {
		r.byPath[rt.Path] = rt
		mr := r.mux.Path(r.join(template(rt.Path))).Name(key(rt))
		if mr.GetError() != nil {
			return nil, fmt.Errorf("could not register route %q: %w", rt.Path, mr.GetError())
		}
	}

	return r, nil
}

// Validate checks the route table: paths start with '/' and are unique,
// names of view routes are present and unique, every entry has exactly one
// of View and Redirect, and redirects point to a path in the table.
func Validate(routes []Route) error {
	paths := make(map[string]bool, len(routes))
	names := make(map[string]bool, len(routes))
	for _, rt := range routes {
		if !strings.HasPrefix(rt.Path, "/") {
			return fmt.Errorf("route path %q must start with '/'", rt.Path)
		}
		if paths[rt.Path] {
			return fmt.Errorf("duplicate route path %q", rt.Path)
		}
		paths[rt.Path] = true

		if (rt.View == "") == (rt.Redirect == "") {
			return fmt.Errorf("route %q must have exactly one of view or redirect", rt.Path)
		}
		if rt.View != "" && rt.Name == "" {
			return fmt.Errorf("route %q has no name", rt.Path)
		}
		if rt.Name != "" {
			if names[rt.Name] {
				return fmt.Errorf("duplicate route name %q", rt.Name)
			}
			names[rt.Name] = true
		}
	}
	for _, rt := range routes {
		if rt.Redirect != "" && !paths[rt.Redirect] {
			return fmt.Errorf("route %q redirects to unknown path %q", rt.Path, rt.Redirect)
		}
	}

	return nil
}

// Routes returns a copy of the route table.
func (r *Router) Routes() []Route {
	return slices.Clone(r.routes)
}

// BasePath returns the normalized base path.
func (r *Router) BasePath() string {
	return r.base
}

// Match resolves the request path. A path that differs from a table path
// only in the letter case of static segments or in a trailing slash resolves
// to that route; parameter values are kept as sent.
func (r *Router) Match(req *http.Request) (Match, bool) {
	if r.base != "/" && req.URL.Path == r.base {
		req = withPath(req, r.base+"/")
	}

	m, ok := r.match(req)
	if ok {
		return m, true
	}
	if c, changed := r.canonical(req.URL.EscapedPath()); changed {
		return r.match(withPath(req, c))
	}

	return Match{}, false
}

func (r *Router) match(req *http.Request) (Match, bool) {
	var rm mux.RouteMatch
	if !r.mux.Match(req, &rm) || rm.MatchErr != nil || rm.Route == nil {
		return Match{}, false
	}

	for _, rt := range r.routes {
		if key(rt) != rm.Route.GetName() {
			continue
		}
		params := make(map[string]string, len(rm.Vars))
		for k, v := range rm.Vars {
			unescaped, err := url.PathUnescape(v)
			if err != nil {
				return Match{}, false
			}
			params[k] = unescaped
		}

		return Match{Route: rt, Params: params}, true
	}

	return Match{}, false
}

// canonical spells the escaped path escPath the way the table does. It
// reports false when no table path matches or the spelling is unchanged.
func (r *Router) canonical(escPath string) (string, bool) {
	p := escPath
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if r.base != "/" && strings.EqualFold(p, r.base) {
		return r.base + "/", true
	}

	segs := strings.Split(p, "/")
	for _, rt := range r.routes {
		tmpl := strings.Split(r.join(rt.Path), "/")
		if len(tmpl) != len(segs) {
			continue
		}
		if out, ok := foldSegments(tmpl, segs); ok {
			c := strings.Join(out, "/")

			return c, c != escPath
		}
	}

	return "", false
}

func foldSegments(tmpl, segs []string) ([]string, bool) {
	out := make([]string, len(segs))
	for i, t := range tmpl {
		switch {
		case len(t) > 1 && t[0] == ':':
			if segs[i] == "" {
				return nil, false
			}
			out[i] = segs[i]
		case strings.EqualFold(t, segs[i]):
			out[i] = t
		default:
			return nil, false
		}
	}

	return out, true
}

// withPath returns a shallow request copy for the escaped path escPath.
func withPath(req *http.Request, escPath string) *http.Request {
	u := *req.URL
	u.RawPath = escPath
	if p, err := url.PathUnescape(escPath); err == nil {
		u.Path = p
	} else {
		u.Path = escPath
	}

	return &http.Request{Method: req.Method, URL: &u, Header: req.Header}
}

// Resolve resolves an absolute path, including the base path.
func (r *Router) Resolve(path string) (Match, bool) {
	u, err := url.Parse(path)
	if err != nil {
		return Match{}, false
	}

	return r.Match(&http.Request{Method: http.MethodGet, URL: u})
}

// Href prefixes a table path with the base path.
func (r *Router) Href(path string) string {
	return r.join(path)
}

// URL builds the path of the route called name with params substituted.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	var rt *Route
	for i := range r.routes {
		if r.routes[i].Name == name {
			rt = &r.routes[i]

			break
		}
	}
	if rt == nil {
		return "", fmt.Errorf("unknown route %q", name)
	}

	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		if v == "" {
			return "", fmt.Errorf("route %q: empty parameter %q", name, k)
		}
		pairs = append(pairs, k, url.PathEscape(v))
	}
	u, err := r.mux.Get(key(*rt)).URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("could not build url for route %q: %w", name, err)
	}

	// values are escaped above; mux keeps them verbatim
	return u.Path, nil
}

func (r *Router) join(path string) string {
	if r.base == "/" {
		return path
	}

	return r.base + path
}

// key is the mux route name; redirect entries have no table name.
func key(rt Route) string {
	if rt.Name != "" {
		return rt.Name
	}

	return "redirect:" + rt.Path
}

// template converts ":param" segments into mux "{param}" variables.
func template(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if name, ok := strings.CutPrefix(s, ":"); ok && name != "" {
			segs[i] = "{" + name + "}"
		}
	}

	return strings.Join(segs, "/")
}
