// Package engine evaluates filters against fixture and live match
// snapshots. Evaluation is pure: inputs are never mutated and no error
// aborts a full filter pass.
package engine

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/models"
)

// DiagnosticCode classifies a non-fatal per-rule evaluation problem
type DiagnosticCode string

const (
	DiagFieldMissing       DiagnosticCode = "field_missing_on_snapshot"
	DiagTargetUnresolvable DiagnosticCode = "target_unresolvable"
)

// Diagnostic records why a rule evaluated false without matching. It never
// aborts the surrounding filter evaluation.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Message string         `json:"message"`
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// RuleResult is the verbose per-rule evaluation trace
type RuleResult struct {
	Rule     models.Rule `json:"rule"`
	Matched  bool        `json:"matched"`
	Actual   string      `json:"actual"`
	Expected string      `json:"expected"`
	Err      *Diagnostic `json:"error,omitempty"`
}

// Evaluator evaluates filters against snapshots using the field catalog's
// comparison semantics
type Evaluator struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
}

// NewEvaluator creates an evaluator bound to a catalog version
func NewEvaluator(cat *catalog.Catalog, logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{catalog: cat, logger: logger}
}

// Evaluate reports whether the snapshot satisfies every rule of the filter
func (e *Evaluator) Evaluate(f *models.Filter, s *models.Snapshot) bool {
	for _, rule := range f.Rules {
		if !e.evaluateRule(rule, s).Matched {
			return false
		}
	}
	return true
}

// EvaluateVerbose evaluates every rule and returns the full per-rule
// trace, including rules past the first failure
func (e *Evaluator) EvaluateVerbose(f *models.Filter, s *models.Snapshot) []RuleResult {
	results := make([]RuleResult, 0, len(f.Rules))
	for _, rule := range f.Rules {
		results = append(results, e.evaluateRule(rule, s))
	}
	return results
}

func (e *Evaluator) evaluateRule(rule models.Rule, s *models.Snapshot) RuleResult {
	result := RuleResult{Rule: rule, Expected: describeExpected(rule)}

	def, known := e.catalog.Lookup(rule.Field)
	actual, present := s.Field(rule.Field)
	if !known || !present {
		result.Err = &Diagnostic{
			Code:    DiagFieldMissing,
			Message: fmt.Sprintf("field %q not present on snapshot", rule.Field),
		}
		e.logger.WithFields(logrus.Fields{
			"field":   rule.Field,
			"fixture": s.FixtureID,
		}).Debug("Rule field missing on snapshot")
		return result
	}

	result.Actual = describeActual(actual)

	switch def.Type {
	case catalog.ValueTypeNumber:
		if actual.Number == nil {
			result.Err = &Diagnostic{
				Code:    DiagFieldMissing,
				Message: fmt.Sprintf("field %q has no numeric value on snapshot", rule.Field),
			}
			return result
		}
		result.Matched = matchNumber(rule, *actual.Number)
	default:
		if actual.Text == nil {
			result.Err = &Diagnostic{
				Code:    DiagFieldMissing,
				Message: fmt.Sprintf("field %q has no text value on snapshot", rule.Field),
			}
			return result
		}
		result.Matched = matchText(rule, *actual.Text)
	}

	return result
}

// matchNumber applies an operator in floating point with no implicit
// rounding. between is inclusive on both bounds.
func matchNumber(rule models.Rule, actual float64) bool {
	switch rule.Operator {
	case catalog.OpBetween:
		if rule.Value.Low == nil || rule.Value.High == nil {
			return false
		}
		return actual >= *rule.Value.Low && actual <= *rule.Value.High
	case catalog.OpIn:
		// in is defined over enum fields; an empty candidate set never matches
		return false
	default:
		if rule.Value.Number == nil {
			return false
		}
		return compareNumbers(rule.Operator, actual, *rule.Value.Number)
	}
}

func matchText(rule models.Rule, actual string) bool {
	switch rule.Operator {
	case catalog.OpEq:
		return rule.Value.Text != nil && actual == *rule.Value.Text
	case catalog.OpNeq:
		return rule.Value.Text != nil && actual != *rule.Value.Text
	case catalog.OpIn:
		for _, member := range rule.Value.Set {
			if actual == member {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func compareNumbers(op catalog.Operator, actual, expected float64) bool {
	switch op {
	case catalog.OpEq:
		return actual == expected
	case catalog.OpNeq:
		return actual != expected
	case catalog.OpGt:
		return actual > expected
	case catalog.OpLt:
		return actual < expected
	case catalog.OpGte:
		return actual >= expected
	case catalog.OpLte:
		return actual <= expected
	default:
		return false
	}
}

func describeExpected(rule models.Rule) string {
	switch rule.Value.Kind() {
	case models.ValueKindNumber:
		return fmt.Sprintf("%s %g", rule.Operator, *rule.Value.Number)
	case models.ValueKindText:
		return fmt.Sprintf("%s %q", rule.Operator, *rule.Value.Text)
	case models.ValueKindRange:
		return fmt.Sprintf("between %g and %g", *rule.Value.Low, *rule.Value.High)
	case models.ValueKindSet:
		return fmt.Sprintf("in [%s]", strings.Join(rule.Value.Set, ", "))
	default:
		return string(rule.Operator)
	}
}

func describeActual(v models.FieldValue) string {
	if v.Number != nil {
		return fmt.Sprintf("%g", *v.Number)
	}
	if v.Text != nil {
		return *v.Text
	}
	return ""
}
