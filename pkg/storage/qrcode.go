package storage

import (
	"accessgate/pkg/domain"
	"context"
)

// QRCodeStorage reads and writes guest pass documents.
type QRCodeStorage interface {
	// StoreQRCodes inserts one or more documents and returns the stored rows,
	// including generated fields.
	StoreQRCodes(ctx context.Context, codes ...domain.QRCode) ([]domain.QRCode, error)
	// QRCodeByID returns the document with the given id, or nil when not found.
	QRCodeByID(ctx context.Context, id string) (*domain.QRCode, error)
}
