// Package migrations embeds the SQL schema migrations applied at startup.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var files embed.FS

// GetFS returns the embedded migrations filesystem
func GetFS() fs.FS {
	return files
}
