// Package visibility decides whether conditionally gated fields render. A
// hidden field contributes no validation error and is stripped from the
// submission payload.
package visibility

import (
	"fmt"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/model"
)

// Evaluator determines whether a field gated by a rule should be visible
// given the current form values.
type Evaluator interface {
	Eval(rule model.ConditionalRule, values map[string]any) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule model.ConditionalRule, values map[string]any) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule model.ConditionalRule, values map[string]any) (bool, error) {
	return fn(rule, values)
}

// Default returns the built-in evaluator implementing the eq/neq contract.
func Default() Evaluator {
	return EvaluatorFunc(eval)
}

// Visible is the convenience form of Default().Eval for a field config. Non
// conditional fields are always visible; evaluation errors hide the field so
// a misconfigured rule can never leak an unintended input into the form.
func Visible(field model.FieldConfig, values map[string]any) bool {
	if field.Kind != model.KindConditional || field.Condition == nil {
		return true
	}
	visible, err := eval(*field.Condition, values)
	if err != nil {
		return false
	}
	return visible
}

func eval(rule model.ConditionalRule, values map[string]any) (bool, error) {
	watch := strings.TrimSpace(rule.WatchField)
	if watch == "" {
		return false, fmt.Errorf("visibility: rule requires a watch field")
	}

	current := formstate.StringAt(values, watch)
	switch rule.Operator {
	case model.OperatorEq:
		return current == rule.Value, nil
	case model.OperatorNeq:
		return current != rule.Value, nil
	default:
		return false, fmt.Errorf("visibility: unknown operator %q", rule.Operator)
	}
}
