package authsession_test

import (
	"accessgate/internal/authsession"
	"accessgate/pkg/domain"
	"accessgate/pkg/serrors"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeIdentity issues tokens of the form "id:<uid>" and "rt:<uid>".
type fakeIdentity struct {
	mu         sync.Mutex
	passwords  map[string]string // email -> password
	uids       map[string]string // email -> uid
	refreshErr error
	refreshes  int
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (authsession.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[email] != password {
		return authsession.Tokens{}, serrors.With(serrors.ErrUnauthorized, "INVALID_PASSWORD")
	}
	uid := f.uids[email]

	return authsession.Tokens{IDToken: "id:" + uid, RefreshToken: "rt:" + uid}, nil
}

func (f *fakeIdentity) Refresh(_ context.Context, refreshToken string) (authsession.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.refreshErr != nil {
		return authsession.Tokens{}, f.refreshErr
	}
	uid := strings.TrimPrefix(refreshToken, "rt:")

	return authsession.Tokens{IDToken: "id:" + uid, RefreshToken: "rt:" + uid}, nil
}

type fakeVerifier struct {
	exp time.Time
}

func (f fakeVerifier) Verify(_ context.Context, idToken string) (*domain.User, time.Time, error) {
	uid, ok := strings.CutPrefix(idToken, "id:")
	if !ok || uid == "" {
		return nil, time.Time{}, serrors.With(serrors.ErrUnauthorized, "invalid id token")
	}

	return &domain.User{UID: uid, Email: uid + "@example.com", Role: domain.RoleSecurity}, f.exp, nil
}

// recorder collects listener deliveries.
type recorder struct {
	mu    sync.Mutex
	calls []*domain.User
}

func (r *recorder) listen(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, u)
}

func (r *recorder) snapshot() []*domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*domain.User(nil), r.calls...)
}

func (r *recorder) waitFor(t *testing.T, n int) []*domain.User {
	t.Helper()
	require.Eventually(t, func() bool { return len(r.snapshot()) >= n }, 2*time.Second, 5*time.Millisecond)

	return r.snapshot()
}

type harness struct {
	identity *fakeIdentity
	local    *authsession.FileStore
	path     string
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")

	return &harness{
		identity: &fakeIdentity{
			passwords: map[string]string{"guard@example.com": "secret", "admin@example.com": "admin"},
			uids:      map[string]string{"guard@example.com": "u1", "admin@example.com": "u2"},
		},
		local: authsession.NewFileStore(path),
		path:  path,
		now:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (h *harness) start(t *testing.T, mode authsession.Mode) *authsession.Manager {
	t.Helper()
	m, err := authsession.New(context.Background(), authsession.Options{
		Identity: h.identity,
		Verifier: fakeVerifier{exp: h.now.Add(time.Hour)},
		Local:    h.local,
		Mode:     mode,
		Now:      func() time.Time { return h.now },
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	return m
}

func TestNew_validation(t *testing.T) {
	_, err := authsession.New(context.Background(), authsession.Options{})
	require.Error(t, err)

	h := newHarness(t)
	_, err = authsession.New(context.Background(), authsession.Options{
		Identity: h.identity,
		Verifier: fakeVerifier{},
		Local:    h.local,
		Mode:     "cookie",
	})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestManager_Subscribe_deliversInitialAbsentState(t *testing.T) {
	m := newHarness(t).start(t, authsession.ModeLocal)

	var r recorder
	m.Subscribe(r.listen)
	calls := r.waitFor(t, 1)
	require.Len(t, calls, 1)
	require.Nil(t, calls[0])
	require.Nil(t, m.CurrentUser())
}

func TestManager_restoresValidCredential(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.local.Save(&authsession.Credential{
		UID: "u1", IDToken: "id:u1", RefreshToken: "rt:u1", ExpiresAt: h.now.Add(30 * time.Minute),
	}))
	m := h.start(t, authsession.ModeLocal)

	var r recorder
	m.Subscribe(r.listen)
	calls := r.waitFor(t, 1)
	require.NotNil(t, calls[0])
	require.Equal(t, "u1", calls[0].UID)
	require.Equal(t, "u1", m.CurrentUser().UID)
	require.Zero(t, h.identity.refreshes)
}

func TestManager_restoreRefreshesExpiredToken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.local.Save(&authsession.Credential{
		UID: "u1", IDToken: "id:u1", RefreshToken: "rt:u1", ExpiresAt: h.now.Add(-time.Minute),
	}))
	m := h.start(t, authsession.ModeLocal)

	var r recorder
	m.Subscribe(r.listen)
	calls := r.waitFor(t, 1)
	require.Equal(t, "u1", calls[0].UID)
	require.Equal(t, 1, h.identity.refreshes)

	cred, err := h.local.Load()
	require.NoError(t, err)
	require.True(t, cred.ExpiresAt.Equal(h.now.Add(time.Hour)))
}

func TestManager_restoreRejectedCredentialIsCleared(t *testing.T) {
	h := newHarness(t)
	h.identity.refreshErr = serrors.With(serrors.ErrUnauthorized, "INVALID_REFRESH_TOKEN")
	require.NoError(t, h.local.Save(&authsession.Credential{
		UID: "u1", IDToken: "id:u1", RefreshToken: "rt:u1", ExpiresAt: h.now.Add(-time.Minute),
	}))
	m := h.start(t, authsession.ModeLocal)

	var r recorder
	m.Subscribe(r.listen)
	calls := r.waitFor(t, 1)
	require.Nil(t, calls[0])

	_, err := os.Stat(h.path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestManager_restoreUnavailableKeepsCredential(t *testing.T) {
	h := newHarness(t)
	h.identity.refreshErr = serrors.With(serrors.ErrUnavailable, "connection refused")
	require.NoError(t, h.local.Save(&authsession.Credential{
		UID: "u1", IDToken: "id:u1", RefreshToken: "rt:u1", ExpiresAt: h.now.Add(-time.Minute),
	}))
	m := h.start(t, authsession.ModeLocal)

	var r recorder
	m.Subscribe(r.listen)
	calls := r.waitFor(t, 1)
	require.Nil(t, calls[0])

	_, err := os.Stat(h.path)
	require.NoError(t, err)
}

func TestManager_SignInSignOut_notifies(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, authsession.ModeLocal)
	ctx := context.Background()

	var r recorder
	m.Subscribe(r.listen)
	r.waitFor(t, 1)

	user, err := m.SignIn(ctx, "guard@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", user.UID)
	// SignIn returns after listeners ran.
	calls := r.snapshot()
	require.Len(t, calls, 2)
	require.Equal(t, "u1", calls[1].UID)

	cred, err := h.local.Load()
	require.NoError(t, err)
	require.Equal(t, "rt:u1", cred.RefreshToken)

	// same user again is not a transition
	_, err = m.SignIn(ctx, "guard@example.com", "secret")
	require.NoError(t, err)
	require.Len(t, r.snapshot(), 2)

	require.NoError(t, m.SignOut(ctx))
	calls = r.snapshot()
	require.Len(t, calls, 3)
	require.Nil(t, calls[2])
	require.Nil(t, m.CurrentUser())

	cred, err = h.local.Load()
	require.NoError(t, err)
	require.Nil(t, cred)

	// signing out twice is not a transition
	require.NoError(t, m.SignOut(ctx))
	require.Len(t, r.snapshot(), 3)
}

func TestManager_SignIn_userSwitchNotifies(t *testing.T) {
	m := newHarness(t).start(t, authsession.ModeMemory)
	ctx := context.Background()

	var r recorder
	m.Subscribe(r.listen)
	r.waitFor(t, 1)

	_, err := m.SignIn(ctx, "guard@example.com", "secret")
	require.NoError(t, err)
	_, err = m.SignIn(ctx, "admin@example.com", "admin")
	require.NoError(t, err)

	calls := r.snapshot()
	require.Len(t, calls, 3)
	require.Equal(t, "u2", calls[2].UID)
}

func TestManager_SignIn_errors(t *testing.T) {
	m := newHarness(t).start(t, authsession.ModeMemory)
	ctx := context.Background()

	_, err := m.SignIn(ctx, "", "")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = m.SignIn(ctx, "guard@example.com", "wrong")
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
	require.Nil(t, m.CurrentUser())
}

func TestManager_SetPersistence(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, authsession.ModeMemory)
	ctx := context.Background()

	_, err := m.SignIn(ctx, "guard@example.com", "secret")
	require.NoError(t, err)
	_, err = os.Stat(h.path)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, m.SetPersistence(ctx, authsession.ModeLocal))
	cred, err := h.local.Load()
	require.NoError(t, err)
	require.Equal(t, "u1", cred.UID)

	require.NoError(t, m.SetPersistence(ctx, authsession.ModeMemory))
	cred, err = h.local.Load()
	require.NoError(t, err)
	require.Nil(t, cred)
	require.Equal(t, "u1", m.CurrentUser().UID)

	require.ErrorIs(t, m.SetPersistence(ctx, "session"), serrors.ErrBadRequest)
}

func TestManager_SetPersistence_memoryClearsRestoredCredential(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.local.Save(&authsession.Credential{
		UID: "u1", IDToken: "id:u1", RefreshToken: "rt:u1", ExpiresAt: h.now.Add(30 * time.Minute),
	}))
	m := h.start(t, authsession.ModeMemory)
	ctx := context.Background()

	var r recorder
	m.Subscribe(r.listen)
	calls := r.waitFor(t, 1)
	require.NotNil(t, calls[0])

	require.NoError(t, m.SetPersistence(ctx, authsession.ModeMemory))
	_, err := os.Stat(h.path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, "u1", m.CurrentUser().UID)

	// the next start has nothing to restore
	m.Close()
	next := h.start(t, authsession.ModeMemory)
	var r2 recorder
	next.Subscribe(r2.listen)
	require.Nil(t, r2.waitFor(t, 1)[0])
}

func TestManager_SetPersistence_failureKeepsMode(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	h := newHarness(t)
	h.local = authsession.NewFileStore(filepath.Join(blocker, "session.json"))
	m := h.start(t, authsession.ModeMemory)
	ctx := context.Background()

	_, err := m.SignIn(ctx, "guard@example.com", "secret")
	require.NoError(t, err)
	require.Error(t, m.SetPersistence(ctx, authsession.ModeLocal))

	// still in memory mode: the session survives and sign-out works
	require.Equal(t, "u1", m.CurrentUser().UID)
	require.Error(t, m.SignOut(ctx))
	require.Nil(t, m.CurrentUser())
}

func TestManager_listenersRunSeriallyInOrder(t *testing.T) {
	m := newHarness(t).start(t, authsession.ModeMemory)
	ctx := context.Background()

	var (
		mu        sync.Mutex
		active    int
		maxActive int
		order     []string
	)
	listener := func(name string) authsession.Listener {
		return func(u *domain.User) {
			mu.Lock()
			active++
			maxActive = max(maxActive, active)
			state := "absent"
			if u != nil {
				state = u.UID
			}
			order = append(order, name+":"+state)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}
	}
	m.Subscribe(listener("a"))
	m.Subscribe(listener("b"))

	_, err := m.SignIn(ctx, "guard@example.com", "secret")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, maxActive)
	require.Equal(t, []string{"a:absent", "b:absent", "a:u1", "b:u1"}, order)
}

func TestManager_listenerMaySubscribe(t *testing.T) {
	m := newHarness(t).start(t, authsession.ModeMemory)
	ctx := context.Background()

	var (
		inner recorder
		once  sync.Once
	)
	m.Subscribe(func(*domain.User) {
		once.Do(func() {
			m.Subscribe(inner.listen)
		})
	})
	inner.waitFor(t, 1)

	var r recorder
	stop := m.Subscribe(r.listen)
	r.waitFor(t, 1)
	stop()

	_, err := m.SignIn(ctx, "guard@example.com", "secret")
	require.NoError(t, err)
	require.Len(t, r.snapshot(), 1)
	require.Len(t, inner.snapshot(), 2)
}

func TestManager_closed(t *testing.T) {
	m := newHarness(t).start(t, authsession.ModeMemory)
	m.Close()

	err := m.SignOut(context.Background())
	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.False(t, errors.Is(err, serrors.ErrUnauthorized))
}
