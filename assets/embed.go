// Package assets embeds the default level catalog and the SQL migrations
// so the server and shell run without any files on disk.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed levels.yaml migrations/*.sql
var FS embed.FS

// Levels returns the raw YAML of the built-in level catalog.
func Levels() ([]byte, error) {
	return FS.ReadFile("levels.yaml")
}

// Migrations returns the migrations directory rooted at its *.sql files.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "migrations")
}
