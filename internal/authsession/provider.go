package authsession

import (
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/serrors"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// refreshSkew is how long before expiry a stored ID token is refreshed instead
// of being reused.
const refreshSkew = time.Minute

// Options configures a Manager.
type Options struct {
	Identity IdentityClient
	Verifier Verifier
	// Local keeps the credential across restarts; the initial state is
	// restored from it.
	Local CredentialStore
	// Memory keeps the credential in process memory. Defaults to a new MemoryStore.
	Memory CredentialStore
	// Mode is the persistence mode in effect before SetPersistence is called.
	// Defaults to ModeMemory.
	Mode Mode
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type session struct {
	user *domain.User
	cred *Credential
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// Manager implements Provider on top of an IdentityClient, a Verifier and a
// pair of credential stores.
//
// Fields below the loop marker are owned by the event loop goroutine.
type Manager struct {
	identity IdentityClient
	verifier Verifier
	stores   map[Mode]CredentialStore
	local    CredentialStore
	now      func() time.Time

	queue   *queue
	current atomic.Pointer[domain.User]
	nextID  atomic.Uint64
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// loop
	mode      Mode
	sess      *session
	listeners []listenerEntry
}

var _ Provider = (*Manager)(nil)

// New validates opts and starts the event loop. The loop first restores the
// session persisted in opts.Local and only then serves subscriptions and
// requests. It stops when ctx is done or Close is called.
func New(ctx context.Context, opts Options) (*Manager, error) {
	if opts.Identity == nil {
		return nil, errors.New("identity client is required")
	}
	if opts.Verifier == nil {
		return nil, errors.New("token verifier is required")
	}
	if opts.Local == nil {
		return nil, errors.New("local credential store is required")
	}
	if opts.Memory == nil {
		opts.Memory = NewMemoryStore()
	}
	if opts.Mode == "" {
		opts.Mode = ModeMemory
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	stores := map[Mode]CredentialStore{
		ModeLocal:  opts.Local,
		ModeMemory: opts.Memory,
	}
	if _, ok := stores[opts.Mode]; !ok {
		return nil, serrors.With(serrors.ErrBadRequest, "unknown persistence mode %q", opts.Mode)
	}

	m := &Manager{
		identity: opts.Identity,
		verifier: opts.Verifier,
		stores:   stores,
		local:    opts.Local,
		now:      opts.Now,
		queue:    newQueue(),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		mode:     opts.Mode,
	}
	go m.run(ctx)

	return m, nil
}

// Close stops the event loop and waits for it to exit.
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.quit)
	})
	<-m.stopped
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.stopped)

	m.restore(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.quit:
			return
		case <-m.queue.ready:
			for _, ev := range m.queue.drain() {
				ev()
			}
		}
	}
}

// restore loads the persisted credential and resumes its session. Rejected
// credentials are removed; other failures leave the file for the next start.
func (m *Manager) restore(ctx context.Context) {
	cred, err := m.local.Load()
	if err != nil {
		logger.Warn(ctx, "could not load persisted session", zap.Error(err))

		return
	}
	if cred == nil {
		return
	}

	sess, err := m.resume(ctx, cred)
	if err != nil {
		if errors.Is(err, serrors.ErrUnauthorized) {
			logger.Info(ctx, "persisted session was rejected", zap.Error(err))
			if err := m.local.Clear(); err != nil {
				logger.Warn(ctx, "could not clear rejected session", zap.Error(err))
			}

			return
		}
		logger.Warn(ctx, "could not restore persisted session", zap.Error(err))

		return
	}

	if err := m.stores[m.mode].Save(sess.cred); err != nil {
		logger.Warn(ctx, "could not persist restored session", zap.Error(err))
	}
	m.sess = sess
	m.current.Store(sess.user)
	logger.Info(ctx, "restored persisted session", zap.String("uid", sess.user.UID))
}

func (m *Manager) resume(ctx context.Context, cred *Credential) (*session, error) {
	if cred.IDToken != "" && m.now().Add(refreshSkew).Before(cred.ExpiresAt) {
		user, exp, err := m.verifier.Verify(ctx, cred.IDToken)
		if err == nil {
			c := *cred
			c.UID, c.Email, c.ExpiresAt = user.UID, user.Email, exp

			return &session{user: user, cred: &c}, nil
		}
	}
	if cred.RefreshToken == "" {
		return nil, serrors.With(serrors.ErrUnauthorized, "persisted session has no refresh token")
	}

	tokens, err := m.identity.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("could not refresh persisted session: %w", err)
	}

	return m.establish(ctx, tokens)
}

func (m *Manager) establish(ctx context.Context, tokens Tokens) (*session, error) {
	user, exp, err := m.verifier.Verify(ctx, tokens.IDToken)
	if err != nil {
		return nil, fmt.Errorf("could not verify id token: %w", err)
	}

	return &session{
		user: user,
		cred: &Credential{
			UID:          user.UID,
			Email:        user.Email,
			IDToken:      tokens.IDToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresAt:    exp,
		},
	}, nil
}

// do runs fn on the loop and waits for its result. When ctx ends first, fn
// still runs but its result is dropped.
func (m *Manager) do(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	m.queue.push(func() {
		res <- fn()
	})

	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return serrors.Wrap(serrors.ErrTimeout, ctx.Err(), "auth session request was not applied in time")
	case <-m.stopped:
		return serrors.With(serrors.ErrUnavailable, "auth session provider is stopped")
	}
}

// setSession replaces the session and notifies listeners when presence or
// the user changed. Loop only.
func (m *Manager) setSession(sess *session) {
	var prev, next *domain.User
	if m.sess != nil {
		prev = m.sess.user
	}
	if sess != nil {
		next = sess.user
	}

	m.sess = sess
	m.current.Store(next)
	if domain.SameSession(prev, next) {
		return
	}
	for _, l := range m.listeners {
		l.fn(copyUser(next))
	}
}

// SetPersistence implements Provider.
func (m *Manager) SetPersistence(ctx context.Context, mode Mode) error {
	target, ok := m.stores[mode]
	if !ok {
		return serrors.With(serrors.ErrBadRequest, "unknown persistence mode %q", mode)
	}

	return m.do(ctx, func() error {
		if err := target.Prepare(); err != nil {
			return fmt.Errorf("could not prepare %s persistence: %w", mode, err)
		}
		if m.sess != nil {
			if err := target.Save(m.sess.cred); err != nil {
				return fmt.Errorf("could not move session to %s persistence: %w", mode, err)
			}
		}
		switch {
		case m.mode != mode:
			if err := m.stores[m.mode].Clear(); err != nil {
				logger.Warn(ctx, "could not clear previous session store",
					zap.String("mode", string(m.mode)), zap.Error(err))
			}
		case mode == ModeMemory:
			// a credential restored at start is still in the local store
			if err := m.local.Clear(); err != nil {
				logger.Warn(ctx, "could not clear local session store", zap.Error(err))
			}
		}
		m.mode = mode

		return nil
	})
}

// Subscribe implements Provider.
func (m *Manager) Subscribe(listener Listener) func() {
	id := m.nextID.Add(1)
	m.queue.push(func() {
		m.listeners = append(m.listeners, listenerEntry{id: id, fn: listener})
		var user *domain.User
		if m.sess != nil {
			user = m.sess.user
		}
		listener(copyUser(user))
	})

	return func() {
		m.queue.push(func() {
			for i, l := range m.listeners {
				if l.id == id {
					m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)

					return
				}
			}
		})
	}
}

// SignIn implements Provider.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "email and password are required")
	}

	tokens, err := m.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("could not sign in: %w", err)
	}
	sess, err := m.establish(ctx, tokens)
	if err != nil {
		return nil, err
	}

	err = m.do(ctx, func() error {
		if err := m.stores[m.mode].Save(sess.cred); err != nil {
			logger.Warn(ctx, "could not persist session", zap.String("mode", string(m.mode)), zap.Error(err))
		}
		m.setSession(sess)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return copyUser(sess.user), nil
}

// SignOut implements Provider.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.do(ctx, func() error {
		var errs []error
		for _, mode := range []Mode{ModeLocal, ModeMemory} {
			if err := m.stores[mode].Clear(); err != nil {
				errs = append(errs, err)
			}
		}
		m.setSession(nil)
		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("could not remove persisted session: %w", err)
		}

		return nil
	})
}

// CurrentUser implements Provider.
func (m *Manager) CurrentUser() *domain.User {
	return copyUser(m.current.Load())
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u

	return &c
}
