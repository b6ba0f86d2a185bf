package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessEventID uniquely identifies a recorded access event.
type AccessEventID uuid.UUID

// AccessEventKind is the type of session transition being recorded.
type AccessEventKind string

const (
	// AccessEventSignIn is recorded when an operator session starts.
	AccessEventSignIn AccessEventKind = "SIGN_IN"
	// AccessEventSignOut is recorded when an operator session ends.
	AccessEventSignOut AccessEventKind = "SIGN_OUT"
)

// AccessEvent is an audit record of a console session transition.
type AccessEvent struct {
	ID         AccessEventID   `json:"id"`
	ActorUID   string          `json:"actorUid"`
	ActorEmail string          `json:"actorEmail,omitempty"`
	Kind       AccessEventKind `json:"kind"`
	CreatedAt  time.Time       `json:"createdAt"`
}
