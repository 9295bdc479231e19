// Package migrations embeds the schema migration files for the durable
// client store so the binary is self-contained.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
