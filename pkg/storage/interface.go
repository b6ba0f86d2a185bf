// Package storage defines the storage interfaces the console relies on so
// that backends (e.g. PostgreSQL) can provide concrete implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

// AllStorage is a composite interface that includes all domain-specific storage
// capabilities required by the console.
type AllStorage interface {
	QRCodeStorage
	AccessEventStorage
	JobStorage
}

// Storage is a storage handle with lifecycle management.
type Storage interface {
	AllStorage

	// Close releases any resources held by the storage implementation (e.g. the
	// underlying connection pool). After Close, the instance should not be used.
	Close() error
}
