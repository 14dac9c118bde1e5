// Package migrations embeds the goose migrations of the document server database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
