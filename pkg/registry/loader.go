package registry

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// LoadFS parses every YAML document under the file system into a registry.
// Files are visited in path order so registries build deterministically.
func LoadFS(fsys fs.FS, decorators ...model.Decorator) (*Registry, error) {
	if fsys == nil {
		return New()
	}

	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registry: walk definitions: %w", err)
	}
	sort.Strings(files)

	var defs []model.FormDefinition
	for _, file := range files {
		payload, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("registry: read %s: %w", file, err)
		}
		def, err := Parse(payload)
		if err != nil {
			return nil, fmt.Errorf("registry: parse %s: %w", file, err)
		}
		for _, decorator := range decorators {
			if decorator == nil {
				continue
			}
			if err := decorator.Decorate(&def); err != nil {
				return nil, fmt.Errorf("registry: decorate %s: %w", file, err)
			}
		}
		defs = append(defs, def)
	}

	return New(defs...)
}

// Parse decodes a single form definition document.
func Parse(payload []byte) (model.FormDefinition, error) {
	var def model.FormDefinition
	if err := yaml.Unmarshal(payload, &def); err != nil {
		return model.FormDefinition{}, err
	}
	return def, nil
}

// Default loads the embedded lead-capture definitions.
func Default() (*Registry, error) {
	return LoadFS(DefinitionsFS())
}
