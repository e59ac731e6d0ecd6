// Package appfs embeds the static assets shipped with the binaries.
package appfs

import (
	"embed"
	"io/fs"
)

//go:embed templates/email/*.txt templates/email/*.gohtml seed.yaml
var assets embed.FS

// EmailTemplates is rooted at the email templates directory.
func EmailTemplates() fs.FS {
	sub, err := fs.Sub(assets, "templates/email")
	if err != nil {
		panic(err) // the path is fixed at compile time
	}
	return sub
}

// SeedData returns the sample school loaded in DEV.
func SeedData() []byte {
	data, _ := assets.ReadFile("seed.yaml")
	return data
}
