// Package components holds the per-kind HTML control renderers backing the
// vanilla renderer. The default registry covers every field kind the model
// enumerates; the contract test fails when a kind has no component.
package components

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// ComponentData carries the live form context a component needs: current
// values and errors keyed by dotted path, plus a child renderer for wrapper
// kinds.
type ComponentData struct {
	Values      map[string]any
	Errors      map[string][]string
	RenderChild func(field model.FieldConfig) (string, error)
}

// Renderer writes the HTML control for one field into buf.
type Renderer func(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error

// Registry tracks component renderers keyed by field kind. Callers can
// register overrides; existing entries are replaced.
type Registry struct {
	mu         sync.RWMutex
	components map[model.FieldKind]Renderer
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[model.FieldKind]Renderer),
	}
}

// Register associates a renderer with a field kind.
func (r *Registry) Register(kind model.FieldKind, renderer Renderer) error {
	if !kind.Valid() {
		return fmt.Errorf("components: unknown field kind %q", kind)
	}
	if renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[kind] = renderer
	return nil
}

// MustRegister mirrors Register but panics on error, simplifying init-time
// wiring.
func (r *Registry) MustRegister(kind model.FieldKind, renderer Renderer) {
	if err := r.Register(kind, renderer); err != nil {
		panic(err)
	}
}

// Resolve returns the renderer for a kind.
func (r *Registry) Resolve(kind model.FieldKind) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.components[kind]
	return renderer, ok
}

// Kinds lists the kinds with registered renderers.
func (r *Registry) Kinds() []model.FieldKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]model.FieldKind, 0, len(r.components))
	for _, kind := range model.Kinds() {
		if _, ok := r.components[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
