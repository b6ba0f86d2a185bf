package storage

import (
	"accessgate/pkg/domain"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccessEventCursor is a keyset position in the newest-first event listing.
// Events sharing CreatedAt are ordered by ID, so both parts are needed to
// resume after the last event of a page.
type AccessEventCursor struct {
	CreatedAt time.Time
	ID        domain.AccessEventID
}

// IsZero reports whether c points before the first page.
func (c AccessEventCursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID == domain.AccessEventID(uuid.Nil)
}

// String encodes c as "<RFC3339Nano>_<uuid>".
func (c AccessEventCursor) String() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "_" + uuid.UUID(c.ID).String()
}

// ParseAccessEventCursor decodes a cursor produced by AccessEventCursor.String.
func ParseAccessEventCursor(s string) (AccessEventCursor, error) {
	ts, id, ok := strings.Cut(s, "_")
	if !ok {
		return AccessEventCursor{}, fmt.Errorf("malformed cursor %q", s)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return AccessEventCursor{}, fmt.Errorf("could not parse cursor time: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return AccessEventCursor{}, fmt.Errorf("could not parse cursor id: %w", err)
	}

	return AccessEventCursor{CreatedAt: createdAt, ID: domain.AccessEventID(parsed)}, nil
}

// AccessEvents groups a page of access events with an optional cursor for the
// next page.
type AccessEvents struct {
	// Events contains the current page, newest first.
	Events []domain.AccessEvent
	// NextCursor is the cursor for the next page. It is nil on the last page.
	NextCursor *AccessEventCursor
}

// AccessEventStorage records and lists console session transitions.
type AccessEventStorage interface {
	// StoreAccessEvents inserts events and returns them with generated fields.
	StoreAccessEvents(ctx context.Context, events ...domain.AccessEvent) ([]domain.AccessEvent, error)
	// AccessEvents returns events positioned after cursor (a zero cursor
	// starts at the newest), newest first, limited by limit.
	AccessEvents(ctx context.Context, cursor AccessEventCursor, limit uint) (AccessEvents, error)
}
