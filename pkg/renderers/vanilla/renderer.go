// Package vanilla renders form definitions into dependency-free HTML. The
// outer chrome goes through the template engine so hosts can reskin it; the
// controls are string-built per field kind.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/render"
	rendertemplate "github.com/doron007/realtechee-forms/pkg/render/template"
	"github.com/doron007/realtechee-forms/pkg/render/template/gotemplate"
	"github.com/doron007/realtechee-forms/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry overrides the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, registry: cfg.registry}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full form HTML: header, sections in declared order,
// hidden fields, and submit action.
func (r *Renderer) Render(ctx context.Context, def model.FormDefinition, options render.RenderOptions) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	fields := newFieldRenderer(r.registry, options.Values, options.Errors)

	var sections strings.Builder
	for _, section := range def.Sections {
		markup, err := renderSection(def, section, fields, options)
		if err != nil {
			return nil, err
		}
		sections.WriteString(markup)
	}

	var hidden strings.Builder
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		hidden.WriteString(`<input type="hidden" name="` + escapeAttr(field.Name) + `" value="` + escapeAttr(field.Value) + `">` + "\n")
	}

	submitLabel := options.SubmitLabel
	if submitLabel == "" {
		submitLabel = "Submit"
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":        def,
		"sections":    sections.String(),
		"hidden":      hidden.String(),
		"formErrors":  options.Errors[""],
		"submitLabel": submitLabel,
		"chrome": map[string]any{
			"form":    classOr(options.Chrome.Form, "lf-form"),
			"errors":  classOr(options.Chrome.Errors, "lf-form-errors"),
			"actions": classOr(options.Chrome.Actions, "lf-actions"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func classOr(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
