// Package web embeds the built browser bundle served by the relay.
//
// The dist tree mirrors the layout the HTTP surface expects: top-level
// pages at index.html, upload/index.html and download/index.html, and
// fingerprint-free static files under assets/.
package web

import (
	"embed"
	"io/fs"
)

//go:embed dist
var dist embed.FS

// Dist returns the bundle root as a filesystem.
func Dist() fs.FS {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		// The subtree is embedded at compile time; absence is a build
		// defect, not a runtime condition.
		panic(err)
	}
	return sub
}

// Page reads one file from the bundle.
func Page(path string) ([]byte, error) {
	return fs.ReadFile(Dist(), path)
}
