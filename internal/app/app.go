// Package app is the console application shell. It is constructed once per
// process from the initial auth state, gets the router attached and is then
// mounted into the host, where it dispatches requests to the views.
package app

import (
	"accessgate/internal/authsession"
	"accessgate/internal/router"
	"accessgate/internal/views"
	"accessgate/internal/worker"
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/serrors"
	"accessgate/pkg/storage"
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// sessionPath is the JSON session API path below the base path.
const sessionPath = "/api/session"

// enqueueTimeout bounds one access event enqueue.
const enqueueTimeout = 10 * time.Second

// Host is the mount point the application is attached to.
type Host interface {
	Mount(h http.Handler) error
}

// Deps are the application collaborators.
type Deps struct {
	Auth    authsession.Provider
	Storage storage.AllStorage
	Views   *views.Set
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// App is the application shell. It is an http.Handler once a router is attached.
type App struct {
	deps    Deps
	router  *router.Router
	session atomic.Pointer[domain.User]
	mounted atomic.Bool

	mu     sync.Mutex
	closed bool
	jobs   sync.WaitGroup
}

// New constructs the application with the initial auth state.
func New(deps Deps, initial *domain.User) *App {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	a := &App{deps: deps}
	a.session.Store(cloneUser(initial))

	return a
}

// Use attaches r. Every view named by the route table must be known to the
// view set.
func (a *App) Use(r *router.Router) error {
	if a.mounted.Load() {
		return serrors.With(serrors.ErrConflict, "router cannot change after mount")
	}
	for _, rt := range r.Routes() {
		if rt.View == "" {
			continue
		}
		if _, ok := a.deps.Views.Lookup(rt.View); !ok {
			return fmt.Errorf("route %q references unknown view %q", rt.Path, rt.View)
		}
	}
	a.router = r

	return nil
}

// Mount attaches the application to host.
func (a *App) Mount(host Host) error {
	if a.router == nil {
		return fmt.Errorf("no router attached")
	}
	if err := host.Mount(a); err != nil {
		return fmt.Errorf("could not mount application: %w", err)
	}
	a.mounted.Store(true)

	return nil
}

// CurrentUser returns the in-app session state.
func (a *App) CurrentUser() *domain.User {
	return cloneUser(a.session.Load())
}

// SessionChanged updates the in-app session state and records the transition
// as an access event job. The enqueue runs in the background; Close waits for it.
// After Close the state is still updated but no job is enqueued.
func (a *App) SessionChanged(ctx context.Context, user *domain.User) {
	next := cloneUser(user)
	prev := a.session.Swap(next)
	if domain.SameSession(prev, next) {
		return
	}

	at := a.deps.Now().UTC()
	var events []worker.AccessEventArgs
	if prev != nil {
		events = append(events, worker.AccessEventArgs{
			ActorUID:   prev.UID,
			ActorEmail: prev.Email,
			EventKind:  domain.AccessEventSignOut,
			OccurredAt: at,
		})
	}
	if next != nil {
		events = append(events, worker.AccessEventArgs{
			ActorUID:   next.UID,
			ActorEmail: next.Email,
			EventKind:  domain.AccessEventSignIn,
			OccurredAt: at,
		})
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		logger.Warn(ctx, "application is closed, access event dropped", zap.Int("events", len(events)))

		return
	}
	a.jobs.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.jobs.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
		defer cancel()
		for _, args := range events {
			if _, err := a.deps.Storage.AddJob(ctx, args, nil); err != nil {
				logger.Error(ctx, "could not enqueue access event",
					zap.String("uid", args.ActorUID),
					zap.String("kind", string(args.EventKind)),
					zap.Error(err))
			}
		}
	}()
}

// Close stops enqueueing access events and waits for pending enqueues.
func (a *App) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.jobs.Wait()
}

// ServeHTTP dispatches the request to the session API or a view.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.router == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)

		return
	}
	if r.URL.Path == a.router.Href(sessionPath) {
		a.serveSession(w, r)

		return
	}

	user := a.CurrentUser()
	c := views.Context{Router: a.router, User: user}

	m, ok := a.router.Match(r)
	if !ok {
		a.deps.Views.NotFound(w, r, c)

		return
	}
	c.Match = m

	switch {
	case m.Route.Redirect != "":
		http.Redirect(w, r, a.router.Href(m.Route.Redirect), http.StatusFound)

		return
	case !m.Route.Public && user == nil:
		http.Redirect(w, r, a.router.Href("/"), http.StatusFound)

		return
	case !m.Route.Public && !m.Route.Allows(user.Role):
		a.deps.Views.Forbidden(w, r, c)

		return
	}

	if m.Route.View == router.ViewLogin && r.Method == http.MethodPost {
		a.serveLoginPost(w, r, c)

		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		a.deps.Views.Error(w, r, c, http.StatusMethodNotAllowed, "This page cannot be submitted.")

		return
	}

	h, _ := a.deps.Views.Lookup(m.Route.View)
	h(w, r, c)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u

	return &c
}
