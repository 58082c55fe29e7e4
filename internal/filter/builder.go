package filter

import (
	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/models"
)

// BuildRule validates a field/operator/value combination against the
// catalog and returns the rule, or the violations found. All checks run;
// nothing short-circuits after the first failure unless a later check
// depends on an earlier one.
func BuildRule(cat *catalog.Catalog, field string, op catalog.Operator, value models.RuleValue) (models.Rule, ValidationErrors) {
	errs := validateRule(cat, models.Rule{Field: field, Operator: op, Value: value}, -1)
	if len(errs) > 0 {
		return models.Rule{}, errs
	}
	return models.Rule{Field: field, Operator: op, Value: value}, nil
}

func validateRule(cat *catalog.Catalog, rule models.Rule, index int) ValidationErrors {
	var errs ValidationErrors

	def, ok := cat.Lookup(rule.Field)
	if !ok {
		errs = append(errs, ruleError(CodeUnknownField, rule.Field, index, "field %q is not in the catalog", rule.Field))
		return errs
	}

	if !def.AllowsOperator(rule.Operator) {
		errs = append(errs, ruleError(CodeIllegalOperator, rule.Field, index, "operator %q is not legal for field %q", rule.Operator, rule.Field))
	}

	switch rule.Operator {
	case catalog.OpBetween:
		errs = append(errs, validateRangeValue(def, rule, index)...)
	case catalog.OpIn:
		errs = append(errs, validateSetValue(def, rule, index)...)
	default:
		errs = append(errs, validateScalarValue(def, rule, index)...)
	}

	return errs
}

func validateScalarValue(def catalog.FieldDefinition, rule models.Rule, index int) ValidationErrors {
	var errs ValidationErrors

	switch def.Type {
	case catalog.ValueTypeNumber:
		if rule.Value.Kind() != models.ValueKindNumber {
			errs = append(errs, ruleError(CodeInvalidValueShape, rule.Field, index, "operator %q requires a single numeric value", rule.Operator))
			return errs
		}
		errs = append(errs, checkBounds(def, *rule.Value.Number, rule.Field, index)...)
	case catalog.ValueTypeString, catalog.ValueTypeEnum:
		if rule.Value.Kind() != models.ValueKindText {
			errs = append(errs, ruleError(CodeInvalidValueShape, rule.Field, index, "operator %q requires a single text value", rule.Operator))
			return errs
		}
		if def.Type == catalog.ValueTypeEnum && !def.HasOption(*rule.Value.Text) {
			errs = append(errs, ruleError(CodeOutOfRange, rule.Field, index, "%q is not an option of field %q", *rule.Value.Text, rule.Field))
		}
	}

	return errs
}

// validateRangeValue checks a between pair. Inverted bounds are rejected,
// never silently swapped.
func validateRangeValue(def catalog.FieldDefinition, rule models.Rule, index int) ValidationErrors {
	var errs ValidationErrors

	if rule.Value.Kind() != models.ValueKindRange {
		errs = append(errs, ruleError(CodeInvalidValueShape, rule.Field, index, "operator \"between\" requires a (low, high) pair"))
		return errs
	}

	low, high := *rule.Value.Low, *rule.Value.High
	if low > high {
		errs = append(errs, ruleError(CodeInvalidValueShape, rule.Field, index, "between bounds are inverted: low %g exceeds high %g", low, high))
	}
	errs = append(errs, checkBounds(def, low, rule.Field, index)...)
	errs = append(errs, checkBounds(def, high, rule.Field, index)...)

	return errs
}

func validateSetValue(def catalog.FieldDefinition, rule models.Rule, index int) ValidationErrors {
	var errs ValidationErrors

	if rule.Value.Kind() != models.ValueKindSet || len(rule.Value.Set) == 0 {
		errs = append(errs, ruleError(CodeInvalidValueShape, rule.Field, index, "operator \"in\" requires a non-empty set of values"))
		return errs
	}

	for _, member := range rule.Value.Set {
		if len(def.Options) > 0 && !def.HasOption(member) {
			errs = append(errs, ruleError(CodeOutOfRange, rule.Field, index, "%q is not an option of field %q", member, rule.Field))
		}
	}

	return errs
}

func checkBounds(def catalog.FieldDefinition, v float64, field string, index int) ValidationErrors {
	var errs ValidationErrors
	if def.Min != nil && v < *def.Min {
		errs = append(errs, ruleError(CodeOutOfRange, field, index, "value %g below minimum %g", v, *def.Min))
	}
	if def.Max != nil && v > *def.Max {
		errs = append(errs, ruleError(CodeOutOfRange, field, index, "value %g above maximum %g", v, *def.Max))
	}
	return errs
}

// DefaultValue returns the operator-appropriate starting value used when a
// rule's operator changes. The previous value is never reinterpreted under
// the new operator's shape.
func DefaultValue(def catalog.FieldDefinition, op catalog.Operator) models.RuleValue {
	switch op {
	case catalog.OpBetween:
		return models.RangeValue(0, 0)
	case catalog.OpIn:
		return models.RuleValue{Set: []string{}}
	default:
		if def.Type == catalog.ValueTypeNumber {
			min := 0.0
			if def.Min != nil {
				min = *def.Min
			}
			return models.NumberValue(min)
		}
		return models.TextValue("")
	}
}
