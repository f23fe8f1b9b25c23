// Package tui fills form definitions through interactive terminal prompts.
// It walks sections in declared order, skips fields whose gate is closed,
// and serializes the collected answers.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/render"
	"github.com/doron007/realtechee-forms/pkg/validation"
	"github.com/doron007/realtechee-forms/pkg/visibility"
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	schema            *validation.Schema
	submitTransformer SubmitTransformer
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts through every visible field and returns the serialized
// answers. Prefilled values from opts become prompt defaults.
func (r *Renderer) Render(ctx context.Context, def model.FormDefinition, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	values := make(map[string]any)
	for path, value := range formstate.Flatten(opts.Values) {
		formstate.Set(values, path, value)
	}

	for _, section := range def.Sections {
		if strings.TrimSpace(section.Title) != "" {
			if err := r.driver.Info(ctx, "== "+section.Title+" =="); err != nil {
				return nil, err
			}
		}
		for _, id := range section.FieldIDs {
			field, ok := def.Field(id)
			if !ok {
				return nil, fmt.Errorf("tui: section %q references unknown field %q", section.ID, id)
			}
			if err := r.promptField(ctx, field, values); err != nil {
				return nil, err
			}
		}
	}

	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		values = transformed
	}

	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, field model.FieldConfig, values map[string]any) error {
	switch field.Kind {
	case model.KindConditional:
		if field.Inner == nil {
			return fmt.Errorf("tui: conditional field %q has no inner field", field.ID)
		}
		if !visibility.Visible(field, values) {
			return nil
		}
		return r.promptField(ctx, *field.Inner, values)
	case model.KindDropdown, model.KindRadioGroup, model.KindRadioButtons:
		return r.promptChoice(ctx, field, values)
	case model.KindTextarea:
		return r.promptTextArea(ctx, field, values)
	case model.KindAddressGroup:
		return r.promptAddress(ctx, field, values)
	case model.KindContactGroup:
		return r.promptContact(ctx, field, values)
	case model.KindFileUpload:
		return r.driver.Info(ctx, fmt.Sprintf("Skipping %s: file uploads are not available in terminal sessions", displayLabel(field)))
	default:
		return r.promptText(ctx, field.ID, displayLabel(field), field.Placeholder, values)
	}
}

func (r *Renderer) promptText(ctx context.Context, path, label, help string, values map[string]any) error {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: formstate.StringAt(values, path),
			Help:    help,
		})
		if err != nil {
			return err
		}
		if retry, err := r.applyAnswer(ctx, path, response, values); err != nil || !retry {
			return err
		}
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, field model.FieldConfig, values map[string]any) error {
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: displayLabel(field),
			Default: formstate.StringAt(values, field.ID),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		if retry, err := r.applyAnswer(ctx, field.ID, response, values); err != nil || !retry {
			return err
		}
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field model.FieldConfig, values map[string]any) error {
	labels := make([]string, len(field.Options))
	for i, option := range field.Options {
		labels[i] = option.Title()
	}

	current := formstate.StringAt(values, field.ID)
	if current == "" {
		current = field.Default
	}
	defaultIdx := -1
	for i, option := range field.Options {
		if option.Value == current {
			defaultIdx = i
			break
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         field.Placeholder,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", field.ID)); err != nil {
				return err
			}
			continue
		}
		if retry, err := r.applyAnswer(ctx, field.ID, field.Options[idx].Value, values); err != nil || !retry {
			return err
		}
	}
}

func (r *Renderer) promptAddress(ctx context.Context, field model.FieldConfig, values map[string]any) error {
	root := field.ID
	members := []struct {
		path  string
		label string
	}{
		{root + ".streetAddress", "Street Address"},
		{root + ".state", "State"},
		{root + ".city", "City"},
		{root + ".zip", "Zip"},
	}
	for _, member := range members {
		if err := r.promptText(ctx, member.path, member.label, "", values); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptContact(ctx context.Context, field model.FieldConfig, values map[string]any) error {
	root := field.ID
	members := []struct {
		path  string
		label string
	}{
		{root + ".fullName", "Full Name"},
		{root + ".email", "Email"},
		{root + ".phone", "Phone"},
	}
	for _, member := range members {
		if err := r.promptText(ctx, member.path, member.label, "", values); err != nil {
			return err
		}
	}
	return nil
}

// applyAnswer stores the answer and reports whether the caller should
// re-prompt because the schema rejected it.
func (r *Renderer) applyAnswer(ctx context.Context, path string, answer any, values map[string]any) (bool, error) {
	formstate.Set(values, path, answer)
	if r.schema == nil {
		return false, nil
	}
	messages := r.schema.ValidateField(path, values)
	if len(messages) == 0 {
		return false, nil
	}
	if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", path, messages[0])); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(field model.FieldConfig) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

func encodeForm(values map[string]any) string {
	flat := formstate.Flatten(values)
	encoded := url.Values{}
	for path, value := range flat {
		encoded.Set(path, fmt.Sprint(value))
	}
	return encoded.Encode()
}

func prettyPrint(values map[string]any) string {
	flat := formstate.Flatten(values)
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		fmt.Fprintf(&b, "%s=%v\n", path, flat[path])
	}
	return b.String()
}
