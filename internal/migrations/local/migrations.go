// Package local embeds the goose migrations of the on-device SQLite store.
package local

import "embed"

//go:embed *.sql
var Migrations embed.FS
