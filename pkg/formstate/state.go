// Package formstate holds the live, per-form-instance store of values,
// errors, and touched flags keyed by dotted field paths. A State belongs to
// exactly one mounted form and is never shared across instances.
package formstate

// Validator revalidates a single path against the full candidate object and
// returns its current messages, or nil when the path is valid.
type Validator func(path string, values map[string]any) []string

// SetOptions mirror the form-store contract: Validate re-runs the path's
// rules after the write, Dirty marks the path as user-modified.
type SetOptions struct {
	Validate bool
	Dirty    bool
}

// State is the mutable form store backing every renderer and controller.
type State struct {
	values    map[string]any
	errors    map[string][]string
	touched   map[string]bool
	dirty     map[string]bool
	validator Validator
}

// New seeds a state with prefilled values. The validator hook may be nil;
// SetOptions.Validate is then a no-op.
func New(prefill map[string]any, validator Validator) *State {
	values := make(map[string]any, len(prefill))
	for path, value := range prefill {
		Set(values, path, value)
	}
	return &State{
		values:    values,
		errors:    make(map[string][]string),
		touched:   make(map[string]bool),
		dirty:     make(map[string]bool),
		validator: validator,
	}
}

// Values returns the nested value map. The map is owned by the state;
// callers treat it as read-only.
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// Watch resolves the current value at a dotted path.
func (s *State) Watch(path string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return Get(s.values, path)
}

// WatchString resolves the current value at a path as a trimmed string.
func (s *State) WatchString(path string) string {
	if s == nil {
		return ""
	}
	return StringAt(s.values, path)
}

// SetValue writes a value immediately (no debounce) and applies the
// requested side effects.
func (s *State) SetValue(path string, value any, opts SetOptions) {
	if s == nil || path == "" {
		return
	}
	Set(s.values, path, value)
	if opts.Dirty {
		s.dirty[path] = true
	}
	if opts.Validate {
		s.ValidateField(path)
	}
}

// Touch marks a path as visited (blur).
func (s *State) Touch(path string) {
	if s == nil || path == "" {
		return
	}
	s.touched[path] = true
}

// Touched reports whether a path has been visited.
func (s *State) Touched(path string) bool {
	return s != nil && s.touched[path]
}

// Dirty reports whether a path has been user-modified.
func (s *State) Dirty(path string) bool {
	return s != nil && s.dirty[path]
}

// ValidateField re-evaluates only the given path's rules, replacing its
// error entry. Without a validator hook this is a no-op.
func (s *State) ValidateField(path string) []string {
	if s == nil || s.validator == nil {
		return nil
	}
	messages := s.validator(path, s.values)
	if len(messages) == 0 {
		delete(s.errors, path)
		return nil
	}
	s.errors[path] = messages
	return messages
}

// ValidateTouched re-evaluates every touched path; used by the
// validate-on-every-change mode.
func (s *State) ValidateTouched() {
	if s == nil || s.validator == nil {
		return
	}
	for path := range s.touched {
		s.ValidateField(path)
	}
}

// Errors returns the live error map keyed by dotted paths.
func (s *State) Errors() map[string][]string {
	if s == nil {
		return nil
	}
	return s.errors
}

// ErrorsFor returns the messages attached to a path.
func (s *State) ErrorsFor(path string) []string {
	if s == nil {
		return nil
	}
	return s.errors[path]
}

// ReplaceErrors swaps the whole error map, as after a full-form validation
// pass or a mapped server payload.
func (s *State) ReplaceErrors(errs map[string][]string) {
	if s == nil {
		return
	}
	if errs == nil {
		errs = make(map[string][]string)
	}
	s.errors = errs
}

// ClearValue removes a path's value and error, as when a conditional field
// disappears.
func (s *State) ClearValue(path string) {
	if s == nil || path == "" {
		return
	}
	Delete(s.values, path)
	delete(s.errors, path)
	delete(s.touched, path)
	delete(s.dirty, path)
}
