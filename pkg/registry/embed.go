package registry

import (
	"embed"
	"io/fs"
)

//go:embed definitions/*.yaml
var definitionsFS embed.FS

// DefinitionsFS exposes the embedded form definition documents rooted at the
// definitions directory.
func DefinitionsFS() fs.FS {
	sub, err := fs.Sub(definitionsFS, "definitions")
	if err != nil {
		return definitionsFS
	}
	return sub
}
