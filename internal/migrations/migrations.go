// Package migrations embeds the goose SQL migrations for the messagely schema.
package migrations

import "embed"

// Migrations holds the SQL migration files applied at startup.
//
//go:embed *.sql
var Migrations embed.FS
