package filter

import (
	"github.com/google/uuid"
	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/models"
)

// Draft is the mutable-in-appearance, immutable-in-practice builder state.
// Every edit goes through ApplyEdit, which returns a new draft and leaves
// the input untouched.
type Draft struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	BetType       models.BetType  `json:"bet_type"`
	Rules         []models.Rule   `json:"rules"`
	IsActive      bool            `json:"is_active"`
	AlertsEnabled bool            `json:"alerts_enabled"`
}

// EditOp names one kind of draft edit
type EditOp string

const (
	EditSetName        EditOp = "set_name"
	EditSetDescription EditOp = "set_description"
	EditSetBetType     EditOp = "set_bet_type"
	EditSetActive      EditOp = "set_active"
	EditSetAlerts      EditOp = "set_alerts"
	EditAddRule        EditOp = "add_rule"
	EditRemoveRule     EditOp = "remove_rule"
	EditReplaceRule    EditOp = "replace_rule"
	EditSetRuleField   EditOp = "set_rule_field"
	EditSetRuleOp      EditOp = "set_rule_operator"
	EditSetRuleValue   EditOp = "set_rule_value"
)

// Edit describes a single change to a draft
type Edit struct {
	Op       EditOp
	Text     string
	BetType  models.BetType
	Flag     bool
	Index    int
	Rule     *models.Rule
	Field    string
	Operator catalog.Operator
	Value    *models.RuleValue
}

// NewDraft seeds a draft with one permissive rule so the builder always
// starts from a valid rule count.
func NewDraft(cat *catalog.Catalog, userID uuid.UUID) Draft {
	return Draft{
		UserID:  userID,
		BetType: models.BetTypeHomeWin,
		Rules:   []models.Rule{permissiveRule(cat)},
	}
}

// FromFilter opens an existing filter for editing
func FromFilter(f *models.Filter) Draft {
	rules := make([]models.Rule, len(f.Rules))
	copy(rules, f.Rules)
	return Draft{
		ID:            f.ID,
		UserID:        f.UserID,
		Name:          f.Name,
		Description:   f.Description,
		BetType:       f.BetType,
		Rules:         rules,
		IsActive:      f.IsActive,
		AlertsEnabled: f.AlertsEnabled,
	}
}

// ApplyEdit is a pure reducer: it returns the edited draft and never
// mutates the input. Changing a rule's operator resets its value to the
// operator-appropriate default; changing its field resets operator and
// value both.
func ApplyEdit(cat *catalog.Catalog, d Draft, e Edit) Draft {
	next := d
	next.Rules = make([]models.Rule, len(d.Rules))
	copy(next.Rules, d.Rules)

	switch e.Op {
	case EditSetName:
		next.Name = e.Text
	case EditSetDescription:
		next.Description = e.Text
	case EditSetBetType:
		next.BetType = e.BetType
	case EditSetActive:
		next.IsActive = e.Flag
	case EditSetAlerts:
		next.AlertsEnabled = e.Flag
	case EditAddRule:
		if e.Rule != nil {
			next.Rules = append(next.Rules, *e.Rule)
		} else {
			next.Rules = append(next.Rules, permissiveRule(cat))
		}
	case EditRemoveRule:
		if e.Index >= 0 && e.Index < len(next.Rules) {
			next.Rules = append(next.Rules[:e.Index], next.Rules[e.Index+1:]...)
		}
	case EditReplaceRule:
		if e.Rule != nil && e.Index >= 0 && e.Index < len(next.Rules) {
			next.Rules[e.Index] = *e.Rule
		}
	case EditSetRuleField:
		if e.Index >= 0 && e.Index < len(next.Rules) {
			next.Rules[e.Index] = ruleForField(cat, e.Field)
		}
	case EditSetRuleOp:
		if e.Index >= 0 && e.Index < len(next.Rules) {
			rule := next.Rules[e.Index]
			rule.Operator = e.Operator
			if def, ok := cat.Lookup(rule.Field); ok {
				rule.Value = DefaultValue(def, e.Operator)
			} else {
				rule.Value = models.RuleValue{}
			}
			next.Rules[e.Index] = rule
		}
	case EditSetRuleValue:
		if e.Value != nil && e.Index >= 0 && e.Index < len(next.Rules) {
			next.Rules[e.Index].Value = *e.Value
		}
	}

	return next
}

func permissiveRule(cat *catalog.Catalog) models.Rule {
	if def, ok := cat.Lookup("home_odds"); ok {
		low := 0.0
		if def.Min != nil {
			low = *def.Min
		}
		high := low
		if def.Max != nil {
			high = *def.Max
		}
		return models.Rule{
			Field:    def.Key,
			Operator: catalog.OpBetween,
			Value:    models.RangeValue(low, high),
		}
	}

	// No odds field in this catalog: seed from the first field with an
	// operator it actually supports.
	fields := cat.Fields()
	if len(fields) == 0 {
		return models.Rule{}
	}
	return ruleForField(cat, fields[0].Key)
}

func ruleForField(cat *catalog.Catalog, field string) models.Rule {
	def, ok := cat.Lookup(field)
	if !ok {
		return models.Rule{Field: field}
	}
	op := def.Operators[0]
	return models.Rule{
		Field:    field,
		Operator: op,
		Value:    DefaultValue(def, op),
	}
}
