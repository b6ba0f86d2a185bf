// Package accessgate embeds the database migrations shipped with the console.
package accessgate

import "embed"

// Migrations holds the goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
