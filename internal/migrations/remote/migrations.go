// Package remote embeds the goose migrations of the hosted Postgres schema.
package remote

import "embed"

//go:embed *.sql
var Migrations embed.FS
