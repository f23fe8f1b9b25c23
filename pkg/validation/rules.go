// Package validation implements the declarative rule sets form controllers
// own. Every rule receives both the candidate value and the whole object so
// cross-field conditions stay explicit instead of hiding in per-field
// predicates.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/doron007/realtechee-forms/pkg/formstate"
)

// Rule checks one field against the full candidate object. It returns a
// user-facing message, or "" when the value passes.
type Rule func(value any, values map[string]any) string

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

	// formats backs the syntactic format checks (email) so the messages stay
	// ours while the parsing stays the library's.
	formats = validator.New()
)

func stringValue(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

// Required rejects empty values.
func Required(message string) Rule {
	return func(value any, _ map[string]any) string {
		if stringValue(value) == "" {
			return message
		}
		return ""
	}
}

// Pattern rejects non-empty values not matching the expression. Empty values
// pass; combine with Required when emptiness matters.
func Pattern(re *regexp.Regexp, message string) Rule {
	return func(value any, _ map[string]any) string {
		s := stringValue(value)
		if s == "" {
			return ""
		}
		if !re.MatchString(s) {
			return message
		}
		return ""
	}
}

// Email rejects syntactically invalid addresses.
func Email(message string) Rule {
	return func(value any, _ map[string]any) string {
		s := stringValue(value)
		if s == "" {
			return ""
		}
		if err := formats.Var(s, "email"); err != nil {
			return message
		}
		return ""
	}
}

// Phone rejects anything but a bare ten-digit number.
func Phone(message string) Rule {
	return Pattern(phonePattern, message)
}

// Zip rejects anything but a five-digit or ZIP+4 code.
func Zip(message string) Rule {
	return Pattern(zipPattern, message)
}

// MinLength rejects non-empty values shorter than n runes.
func MinLength(n int, message string) Rule {
	return func(value any, _ map[string]any) string {
		s := stringValue(value)
		if s == "" {
			return ""
		}
		if len([]rune(s)) < n {
			return message
		}
		return ""
	}
}

// MaxLength rejects values longer than n runes.
func MaxLength(n int, message string) Rule {
	return func(value any, _ map[string]any) string {
		if len([]rune(stringValue(value))) > n {
			return message
		}
		return ""
	}
}

// OneOf rejects non-empty values outside the allowed set.
func OneOf(allowed []string, message string) Rule {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return func(value any, _ map[string]any) string {
		s := stringValue(value)
		if s == "" {
			return ""
		}
		if _, ok := set[s]; !ok {
			return message
		}
		return ""
	}
}

// When applies then-rules while the watched field equals is, and
// otherwise-rules when it does not. Either branch may be empty.
func When(watchField, is string, then []Rule, otherwise []Rule) Rule {
	return func(value any, values map[string]any) string {
		branch := otherwise
		if formstate.StringAt(values, watchField) == is {
			branch = then
		}
		for _, rule := range branch {
			if rule == nil {
				continue
			}
			if message := rule(value, values); message != "" {
				return message
			}
		}
		return ""
	}
}

// Custom wraps an arbitrary predicate into a rule.
func Custom(check func(value any, values map[string]any) bool, message string) Rule {
	return func(value any, values map[string]any) string {
		if !check(value, values) {
			return message
		}
		return ""
	}
}

// RequiredMessage builds the stock "X is required" message.
func RequiredMessage(label string) string {
	return fmt.Sprintf("%s is required", label)
}
