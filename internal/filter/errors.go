// Package filter builds and validates betting filters against the field
// catalog before they are persisted.
package filter

import (
	"fmt"
	"strings"
)

// ValidationCode classifies a single validation failure
type ValidationCode string

const (
	CodeUnknownField      ValidationCode = "unknown_field"
	CodeIllegalOperator   ValidationCode = "illegal_operator"
	CodeInvalidValueShape ValidationCode = "invalid_value_shape"
	CodeOutOfRange        ValidationCode = "out_of_range"
	CodeNameLength        ValidationCode = "name_length_violation"
	CodeDescriptionLength ValidationCode = "description_length_violation"
	CodeRuleCount         ValidationCode = "rule_count_violation"
)

// ValidationError describes one violation found while building a rule or
// validating a filter draft. RuleIndex is -1 for filter-level violations.
type ValidationError struct {
	Code      ValidationCode `json:"code"`
	Field     string         `json:"field,omitempty"`
	RuleIndex int            `json:"rule_index"`
	Message   string         `json:"message"`
}

func (e ValidationError) Error() string {
	if e.RuleIndex >= 0 {
		return fmt.Sprintf("rule %d: %s: %s", e.RuleIndex, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationErrors collects every violation found in one pass. Callers can
// surface all of them at once instead of fixing one at a time.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasCode reports whether any collected error carries the given code
func (e ValidationErrors) HasCode(code ValidationCode) bool {
	for _, v := range e {
		if v.Code == code {
			return true
		}
	}
	return false
}

func ruleError(code ValidationCode, field string, index int, format string, args ...interface{}) ValidationError {
	return ValidationError{
		Code:      code,
		Field:     field,
		RuleIndex: index,
		Message:   fmt.Sprintf(format, args...),
	}
}

func filterError(code ValidationCode, format string, args ...interface{}) ValidationError {
	return ValidationError{
		Code:      code,
		RuleIndex: -1,
		Message:   fmt.Sprintf(format, args...),
	}
}
