// Package domain contains the core domain entities shared by the console:
// the signed-in operator, QR code documents and recorded access events.
// These types carry no infrastructure concerns so they can be passed between
// the auth session provider, the application shell and storage.
package domain
