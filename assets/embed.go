// assets/embed.go
//
// Embedded data: the default challenge catalog and the SQL migrations.

// Package assets bundles the data files the server needs at runtime: the
// default challenge catalog and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed challenges.yaml migrations/*.sql
var FS embed.FS

// Challenges returns the raw embedded catalog.
func Challenges() ([]byte, error) {
	return FS.ReadFile("challenges.yaml")
}

// Migrations returns the migrations directory as its own file system, so
// file names are recorded without a directory prefix.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "migrations")
	if err != nil {
		// the pattern above guarantees the directory exists
		panic(err)
	}
	return sub
}
