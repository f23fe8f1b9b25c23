// Package forms hosts the per-form controllers. A controller owns one form
// instance's state: values, errors, uploaded files, and the editing to
// submitting transition.
package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/upload"
	"github.com/doron007/realtechee-forms/pkg/validation"
)

// Status is the controller's lifecycle state.
type Status string

const (
	// StatusEditing accepts value changes and re-validates reactively.
	StatusEditing Status = "editing"
	// StatusSubmitting runs while the submit handler is in flight; inputs
	// are disabled and a second submit is refused.
	StatusSubmitting Status = "submitting"
)

// ErrSubmitInProgress is returned when Submit is called while a previous
// submit has not finished.
var ErrSubmitInProgress = errors.New("forms: submit already in progress")

// SubmitFunc receives the normalized submission when validation passes.
type SubmitFunc func(ctx context.Context, submission model.Submission) error

// BlurHook adjusts a field's value when focus leaves it. Hooks must be
// idempotent: re-running one on its own output changes nothing.
type BlurHook func(value string) string

// Option configures a Controller.
type Option func(*Controller)

// WithDefaults seeds initial values by dotted path.
func WithDefaults(values map[string]any) Option {
	return func(c *Controller) {
		for path, value := range formstate.Flatten(values) {
			c.defaults[path] = value
		}
	}
}

// WithFocusPriority sets the field order used to pick the focus target
// after a failed submit. Paths not listed fall back to definition order.
func WithFocusPriority(paths ...string) Option {
	return func(c *Controller) {
		c.focusPriority = append([]string(nil), paths...)
	}
}

// WithBlurHook installs a value transform that runs when the path blurs.
func WithBlurHook(path string, hook BlurHook) Option {
	return func(c *Controller) {
		if path != "" && hook != nil {
			c.blurHooks[path] = hook
		}
	}
}

// WithValidateOnChange re-validates every touched field on each change
// instead of only the changed one.
func WithValidateOnChange() Option {
	return func(c *Controller) {
		c.validateOnChange = true
	}
}

// WithSessionID overrides the generated upload session id.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.sessionID = id
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger overrides the controller logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.log = logger
		}
	}
}

// Controller drives one mounted form instance. It is exclusively owned by
// that instance; the mutex only guards against submit racing a late value
// change.
type Controller struct {
	mu sync.Mutex

	def    model.FormDefinition
	schema *validation.Schema
	state  *formstate.State

	defaults      map[string]any
	blurHooks     map[string]BlurHook
	focusPriority []string

	validateOnChange bool
	status           Status
	focusTarget      string
	formError        string

	files     []model.UploadedFile
	sessionID string

	onSubmit SubmitFunc
	now      func() time.Time
	log      *logrus.Logger
}

// NewController builds a controller for a definition and schema.
func NewController(def model.FormDefinition, schema *validation.Schema, onSubmit SubmitFunc, options ...Option) (*Controller, error) {
	if schema == nil {
		return nil, errors.New("forms: schema is required")
	}
	if onSubmit == nil {
		return nil, errors.New("forms: submit handler is required")
	}

	c := &Controller{
		def:       def,
		schema:    schema,
		defaults:  make(map[string]any),
		blurHooks: make(map[string]BlurHook),
		status:    StatusEditing,
		sessionID: upload.NewSessionID(),
		onSubmit:  onSubmit,
		now:       time.Now,
		log:       logrus.StandardLogger(),
	}

	for _, field := range def.Fields {
		if field.Default != "" {
			c.defaults[field.ID] = field.Default
		}
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	prefill := make(map[string]any)
	for path, value := range c.defaults {
		formstate.Set(prefill, path, value)
	}
	c.state = formstate.New(prefill, schema.Validator())
	return c, nil
}

// FormID reports the bound definition id.
func (c *Controller) FormID() string {
	return c.def.ID
}

// SessionID reports the upload session id for this form instance.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Status reports the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetValue updates one field. Changes are refused while submitting.
func (c *Controller) SetValue(path string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusSubmitting {
		return
	}
	c.state.SetValue(path, value, formstate.SetOptions{Dirty: true})
	if c.validateOnChange {
		c.state.ValidateTouched()
	} else if c.state.Touched(path) {
		c.state.ValidateField(path)
	}
}

// Blur marks a field touched, applies its blur hook, and re-validates it.
func (c *Controller) Blur(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusSubmitting {
		return
	}
	if hook, ok := c.blurHooks[path]; ok {
		if current := formstate.StringAt(c.state.Values(), path); current != "" {
			if next := hook(current); next != current {
				c.state.SetValue(path, next, formstate.SetOptions{Dirty: true})
			}
		}
	}
	c.state.Touch(path)
	c.state.ValidateField(path)
}

// Watch returns the live value at a path.
func (c *Controller) Watch(path string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, _ := formstate.Get(c.state.Values(), path)
	return value
}

// Values returns the live value tree.
func (c *Controller) Values() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Values()
}

// Errors returns the current error map keyed by dotted path.
func (c *Controller) Errors() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Errors()
}

// FormError returns the last submit failure message, if any.
func (c *Controller) FormError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formError
}

// FocusTarget reports the field that should receive focus after the last
// failed submit, or "" when there is none.
func (c *Controller) FocusTarget() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusTarget
}

// Files returns the uploaded files attached so far.
func (c *Controller) Files() []model.UploadedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.UploadedFile(nil), c.files...)
}

// AttachFiles appends completed uploads to the pending submission.
func (c *Controller) AttachFiles(files ...model.UploadedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusSubmitting {
		return
	}
	c.files = append(c.files, files...)
}

// RemoveFile drops an uploaded file from the pending list by id. Removal
// only affects local state; the stored object stays put.
func (c *Controller) RemoveFile(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusSubmitting {
		return
	}
	kept := c.files[:0]
	for _, file := range c.files {
		if file.ID != id {
			kept = append(kept, file)
		}
	}
	c.files = kept
}

// Submit validates and, on success, hands the normalized submission to the
// submit handler. A failed validation keeps the controller editing, records
// the focus target, and makes no call. A failed handler returns the
// controller to editing with all values preserved.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.status == StatusSubmitting {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}

	values := c.state.Values()
	fieldErrors := c.schema.Validate(values)
	if len(fieldErrors) > 0 {
		c.state.ReplaceErrors(fieldErrors)
		c.focusTarget = c.firstInvalidLocked(fieldErrors)
		c.mu.Unlock()
		return &ValidationError{Fields: fieldErrors}
	}

	c.state.ReplaceErrors(nil)
	c.focusTarget = ""
	c.formError = ""
	c.status = StatusSubmitting
	submission := Normalize(c.def, values, c.files, c.now())
	c.mu.Unlock()

	err := c.onSubmit(ctx, submission)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusEditing
	if err != nil {
		c.formError = "Something went wrong. Please try again."
		c.log.WithError(err).WithField("form", c.def.ID).Error("submit failed")
		return fmt.Errorf("forms: submit %s: %w", c.def.ID, err)
	}
	return nil
}

// firstInvalidLocked picks the focus target: priority order first, then
// definition order.
func (c *Controller) firstInvalidLocked(fieldErrors map[string][]string) string {
	for _, path := range c.focusPriority {
		if len(fieldErrors[path]) > 0 {
			return path
		}
	}
	for _, path := range c.def.FieldPaths() {
		if len(fieldErrors[path]) > 0 {
			return path
		}
	}
	return ""
}

// ValidationError reports the paths that blocked a submit.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("forms: validation failed for %d field(s)", len(e.Fields))
}
