package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// TemplatesFS returns the embedded default template bundle.
func TemplatesFS() fs.FS {
	return templateFiles
}

var _ fs.FS = templateFiles
