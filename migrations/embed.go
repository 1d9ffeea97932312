// Package migrations embeds the versioned SQL schema for each supported backend.
package migrations

import "embed"

// FS holds one directory per backend (sqlite, postgres) of NNN_name.sql files.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
