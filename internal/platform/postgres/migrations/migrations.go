// Package migrations embeds the goose SQL migrations for the PostgreSQL
// schema.
package migrations

import "embed"

// Migrations holds the embedded goose migration files.
//
//go:embed *.sql
var Migrations embed.FS
