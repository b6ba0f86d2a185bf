package domain

import "time"

// QRCodeStatus is the derived validity state of a QR code document.
type QRCodeStatus string

const (
	// QRCodeStatusPending means the code is not valid yet.
	QRCodeStatusPending QRCodeStatus = "PENDING"
	// QRCodeStatusActive means the code currently grants entry.
	QRCodeStatusActive QRCodeStatus = "ACTIVE"
	// QRCodeStatusExpired means the validity window has passed.
	QRCodeStatusExpired QRCodeStatus = "EXPIRED"
	// QRCodeStatusRevoked means the owner or an admin revoked the code.
	QRCodeStatusRevoked QRCodeStatus = "REVOKED"
)

// QRCode is a guest pass document. Its ID is the document id embedded in the
// QR payload and used by the view-qr route.
type QRCode struct {
	ID        string `json:"id"`
	OwnerUID  string `json:"ownerUid"`
	GuestName string `json:"guestName"`
	Purpose   string `json:"purpose,omitempty"`

	ValidFrom  time.Time `json:"validFrom"`
	ValidUntil time.Time `json:"validUntil"`

	CreatedAt time.Time `json:"createdAt"`
	// RevokedAt is zero while the code has not been revoked.
	RevokedAt time.Time `json:"revokedAt,omitempty"`
}

// Status derives the validity state of the code at now. Revocation wins over
// the validity window. A zero ValidUntil never expires.
func (q *QRCode) Status(now time.Time) QRCodeStatus {
	switch {
	case !q.RevokedAt.IsZero() && !now.Before(q.RevokedAt):
		return QRCodeStatusRevoked
	case now.Before(q.ValidFrom):
		return QRCodeStatusPending
	case !q.ValidUntil.IsZero() && now.After(q.ValidUntil):
		return QRCodeStatusExpired
	default:
		return QRCodeStatusActive
	}
}
