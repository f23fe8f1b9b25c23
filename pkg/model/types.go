package model

import "time"

// FieldKind enumerates the input kinds the engine can render. Adding a kind
// requires a matching component in every renderer; the contract tests fail
// otherwise.
type FieldKind string

const (
	KindDropdown     FieldKind = "dropdown"
	KindInput        FieldKind = "input"
	KindTextarea     FieldKind = "textarea"
	KindRadioGroup   FieldKind = "radio-group"
	KindRadioButtons FieldKind = "radio-buttons"
	KindAddressGroup FieldKind = "address-group"
	KindContactGroup FieldKind = "contact-group"
	KindFileUpload   FieldKind = "file-upload"
	KindConditional  FieldKind = "conditional"
)

// Kinds returns every field kind the engine understands, in a stable order.
func Kinds() []FieldKind {
	return []FieldKind{
		KindDropdown,
		KindInput,
		KindTextarea,
		KindRadioGroup,
		KindRadioButtons,
		KindAddressGroup,
		KindContactGroup,
		KindFileUpload,
		KindConditional,
	}
}

// Valid reports whether the kind is one of the enumerated values.
func (k FieldKind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Operator compares a watched field's live value against a literal.
type Operator string

const (
	OperatorEq  Operator = "eq"
	OperatorNeq Operator = "neq"
)

// ConditionalRule gates a field's visibility on a sibling field's current
// value. The wrapped field is excluded from validation and from the submit
// payload whenever the rule evaluates false.
type ConditionalRule struct {
	WatchField string   `json:"watchField" yaml:"watchField"`
	Operator   Operator `json:"operator" yaml:"operator"`
	Value      string   `json:"value" yaml:"value"`
}

// Option is a single choice for dropdown/radio style fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Title returns the display label, falling back to the raw value.
func (o Option) Title() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// ButtonLayout directs how radio-buttons arrange themselves.
type ButtonLayout string

const (
	ButtonLayoutResponsive ButtonLayout = "responsive"
	ButtonLayoutHorizontal ButtonLayout = "horizontal"
	ButtonLayoutVertical   ButtonLayout = "vertical"
)

// FieldConfig is the declarative description of one form input. Configs are
// authored once, loaded at startup, and never mutated afterwards.
type FieldConfig struct {
	ID          string           `json:"id" yaml:"id"`
	Kind        FieldKind        `json:"kind" yaml:"kind"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Default     string           `json:"default,omitempty" yaml:"default,omitempty"`
	CSSClass    string           `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	Rows        int              `json:"rows,omitempty" yaml:"rows,omitempty"`
	MaxLength   int              `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Layout      ButtonLayout     `json:"layout,omitempty" yaml:"layout,omitempty"`
	Condition   *ConditionalRule `json:"condition,omitempty" yaml:"condition,omitempty"`

	// Inner carries the wrapped field when Kind is KindConditional.
	Inner *FieldConfig `json:"inner,omitempty" yaml:"inner,omitempty"`
}

// SectionLayout selects how a section arranges its fields.
type SectionLayout string

const (
	SectionLayoutDefault    SectionLayout = "default"
	SectionLayoutSideBySide SectionLayout = "side-by-side"
	SectionLayoutTwoColumn  SectionLayout = "two-column"
)

// SectionConfig groups field configs under a titled section.
type SectionConfig struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Layout      SectionLayout `json:"layout,omitempty" yaml:"layout,omitempty"`
	FieldIDs    []string      `json:"fields" yaml:"fields"`
}

// FormDefinition is the top-level document a renderer consumes: an ordered
// list of sections plus the field configs they reference.
type FormDefinition struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title,omitempty" yaml:"title,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Endpoint    string          `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method      string          `json:"method,omitempty" yaml:"method,omitempty"`
	Sections    []SectionConfig `json:"sections" yaml:"sections"`
	Fields      []FieldConfig   `json:"fieldConfigs" yaml:"fieldConfigs"`
}

// UploadedFile describes one object-storage upload attached to a submission.
// Records live in the owning form's state and travel with the payload; they
// are never persisted on their own.
type UploadedFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Key      string `json:"key"`
	Category string `json:"category"`
}

// Address is the composite value produced by an address-group block.
type Address struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
}

// Contact is the composite value produced by a contact-group block.
type Contact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Submission is the normalised payload handed to a controller's onSubmit
// delegate once validation passes.
type Submission struct {
	FormID         string         `json:"formId"`
	SubmissionTime time.Time      `json:"submissionTime"`
	Values         map[string]any `json:"values"`
	Files          []UploadedFile `json:"files,omitempty"`
}
