package authsession

import (
	"accessgate/pkg/domain"
	"context"
)

// Listener receives the auth state: a user record when a session is active,
// nil otherwise.
type Listener func(user *domain.User)

// Provider is the auth session surface consumed by the bootstrap and the
// application shell.
//
//go:generate mockgen -package mockauthsession -source=interface.go -destination=mock/mockauthsession.go *
type Provider interface {
	// SetPersistence selects where the session credential is kept. It blocks
	// until the switch is applied or failed; on failure the previous mode
	// stays active.
	SetPersistence(ctx context.Context, mode Mode) error
	// Subscribe registers listener. It is invoked with the current state once
	// the initial state is known and then on every transition. The returned
	// function removes the listener.
	Subscribe(listener Listener) (unsubscribe func())
	// SignIn starts a session with email and password and returns after
	// listeners have been notified.
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	// SignOut ends the session and removes every persisted credential.
	SignOut(ctx context.Context) error
	// CurrentUser returns a copy of the current user record, or nil.
	CurrentUser() *domain.User
}
