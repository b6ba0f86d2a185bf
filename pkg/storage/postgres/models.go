package postgres

import (
	"accessgate/pkg/domain"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PgQRCode struct {
	ID        string         `db:"id"`
	OwnerUID  string         `db:"owner_uid"`
	GuestName string         `db:"guest_name"`
	Purpose   sql.NullString `db:"purpose"`

	ValidFrom  time.Time    `db:"valid_from"`
	ValidUntil sql.NullTime `db:"valid_until"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	RevokedAt sql.NullTime `db:"revoked_at"`
}

func (p *PgQRCode) ToDomain() *domain.QRCode {
	return &domain.QRCode{
		ID:         p.ID,
		OwnerUID:   p.OwnerUID,
		GuestName:  p.GuestName,
		Purpose:    p.Purpose.String,
		ValidFrom:  p.ValidFrom,
		ValidUntil: p.ValidUntil.Time,
		CreatedAt:  p.CreatedAt,
		RevokedAt:  p.RevokedAt.Time,
	}
}

func (p *PgQRCode) FromDomain(code domain.QRCode) {
	*p = PgQRCode{
		ID:        code.ID,
		OwnerUID:  code.OwnerUID,
		GuestName: code.GuestName,
		Purpose: sql.NullString{
			String: code.Purpose,
			Valid:  code.Purpose != "",
		},
		ValidFrom: code.ValidFrom,
		ValidUntil: sql.NullTime{
			Time:  code.ValidUntil,
			Valid: !code.ValidUntil.IsZero(),
		},
		CreatedAt: code.CreatedAt,
		RevokedAt: sql.NullTime{
			Time:  code.RevokedAt,
			Valid: !code.RevokedAt.IsZero(),
		},
	}
}

type PgAccessEvent struct {
	ID         uuid.UUID      `db:"id"          goqu:"skipinsert"`
	ActorUID   string         `db:"actor_uid"`
	ActorEmail sql.NullString `db:"actor_email"`
	Kind       string         `db:"kind"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (p *PgAccessEvent) ToDomain() *domain.AccessEvent {
	return &domain.AccessEvent{
		ID:         domain.AccessEventID(p.ID),
		ActorUID:   p.ActorUID,
		ActorEmail: p.ActorEmail.String,
		Kind:       domain.AccessEventKind(p.Kind),
		CreatedAt:  p.CreatedAt,
	}
}

func (p *PgAccessEvent) FromDomain(event domain.AccessEvent) {
	*p = PgAccessEvent{
		ID:       uuid.UUID(event.ID),
		ActorUID: event.ActorUID,
		ActorEmail: sql.NullString{
			String: event.ActorEmail,
			Valid:  event.ActorEmail != "",
		},
		Kind:      string(event.Kind),
		CreatedAt: event.CreatedAt,
	}
}
