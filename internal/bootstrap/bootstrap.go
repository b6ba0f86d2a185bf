// Package bootstrap sequences the start of the console: it requests durable
// session persistence, subscribes to the auth state and mounts the
// application exactly once, when the first auth notification arrives.
// Later notifications are handed to the mounted application.
package bootstrap

import (
	"accessgate/internal/app"
	"accessgate/internal/authsession"
	"accessgate/internal/router"
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/metrics"
	"accessgate/pkg/serrors"
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// State is the bootstrap lifecycle state.
type State int32

// Lifecycle states. Mounted and Failed are terminal.
const (
	AwaitingFirstAuthNotification State = iota
	Mounted
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingFirstAuthNotification:
		return "AwaitingFirstAuthNotification"
	case Mounted:
		return "Mounted"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// App is the application the bootstrap constructs and mounts.
type App interface {
	Use(r *router.Router) error
	Mount(host app.Host) error
	SessionChanged(ctx context.Context, user *domain.User)
}

// Options are the bootstrap collaborators.
type Options struct {
	Provider authsession.Provider
	// Persistence is requested once at start. Defaults to authsession.ModeLocal.
	Persistence authsession.Mode
	Router      *router.Router
	Host        app.Host
	// NewApp constructs the application from the first notified auth state.
	NewApp func(initial *domain.User) (App, error)
}

// Bootstrap mounts the application once the initial auth state is known.
type Bootstrap struct {
	opts Options

	started atomic.Bool
	state   atomic.Int32
	app     App
	ctx     context.Context //nolint:containedctx // notifications arrive without one

	done    chan struct{}
	doneErr error
	once    sync.Once
}

// New validates opts and returns a Bootstrap in state AwaitingFirstAuthNotification.
func New(opts Options) (*Bootstrap, error) {
	if opts.Provider == nil || opts.Router == nil || opts.Host == nil || opts.NewApp == nil {
		return nil, serrors.With(serrors.ErrBadRequest, "provider, router, host and app constructor are required")
	}
	if opts.Persistence == "" {
		opts.Persistence = authsession.ModeLocal
	}

	return &Bootstrap{
		opts: opts,
		done: make(chan struct{}),
	}, nil
}

// Start requests session persistence in the background and subscribes to the
// auth state. It returns immediately; use Wait to learn the mount outcome.
// The subscription is kept for the process lifetime.
func (b *Bootstrap) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return serrors.With(serrors.ErrConflict, "bootstrap already started")
	}
	b.ctx = ctx

	go b.setPersistence(ctx)

	b.opts.Provider.Subscribe(b.notify)

	return nil
}

// Wait blocks until the application is mounted, the mount failed or ctx is done.
func (b *Bootstrap) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return b.doneErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (b *Bootstrap) State() State {
	return State(b.state.Load())
}

func (b *Bootstrap) setPersistence(ctx context.Context) {
	if err := b.opts.Provider.SetPersistence(ctx, b.opts.Persistence); err != nil {
		metrics.PersistenceFailures.Inc()
		logger.Error(ctx, "could not set auth persistence",
			zap.String("mode", string(b.opts.Persistence)), zap.Error(err))
	}
}

// notify runs on the provider's event loop, one notification at a time.
func (b *Bootstrap) notify(user *domain.User) {
	ctx := b.ctx
	if user != nil {
		logger.Info(ctx, "user is logged in", zap.String("uid", user.UID))
	} else {
		logger.Info(ctx, "no user is logged in")
	}
	metrics.AuthNotifications.WithLabelValues(metrics.StateLabel(user != nil)).Inc()

	switch b.State() {
	case AwaitingFirstAuthNotification:
		if err := b.mount(user); err != nil {
			logger.Error(ctx, "could not mount application", zap.Error(err))
			b.finish(Failed, err)

			return
		}
		metrics.AppMounts.Inc()
		logger.Info(ctx, "application mounted")
		b.finish(Mounted, nil)
	case Mounted:
		b.app.SessionChanged(ctx, user)
	case Failed:
	}
}

func (b *Bootstrap) mount(user *domain.User) error {
	a, err := b.opts.NewApp(user)
	if err != nil {
		return fmt.Errorf("could not create application: %w", err)
	}
	if err = a.Use(b.opts.Router); err != nil {
		return fmt.Errorf("could not attach router: %w", err)
	}
	if err = a.Mount(b.opts.Host); err != nil {
		return err
	}
	b.app = a

	return nil
}

func (b *Bootstrap) finish(state State, err error) {
	b.once.Do(func() {
		b.doneErr = err
		b.state.Store(int32(state))
		close(b.done)
	})
}
