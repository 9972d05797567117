// Package migrations embeds the goose-managed schema migrations for the
// primary store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
