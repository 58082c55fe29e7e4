package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/models"
)

func newTestEvaluator() *Evaluator {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewEvaluator(catalog.New(), log)
}

func preMatchSnapshot() *models.Snapshot {
	return &models.Snapshot{
		FixtureID: uuid.New(),
		TakenAt:   time.Date(2025, 3, 8, 14, 0, 0, 0, time.UTC),
		Fields: map[string]models.FieldValue{
			"league":           models.TextField("premier_league"),
			"day_of_week":      models.TextField("saturday"),
			"home_odds":        models.NumberField(1.85),
			"away_odds":        models.NumberField(4.2),
			"home_form_points": models.NumberField(12),
			"home_position":    models.NumberField(3),
		},
	}
}

func filterWith(rules ...models.Rule) *models.Filter {
	return &models.Filter{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Name:    "test",
		BetType: models.BetTypeHomeWin,
		Rules:   rules,
	}
}

func TestEvaluateAllRulesMustMatch(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	matching := filterWith(
		models.Rule{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("premier_league")},
		models.Rule{Field: "home_odds", Operator: catalog.OpLt, Value: models.NumberValue(2.0)},
	)
	assert.True(t, e.Evaluate(matching, snap))

	oneFails := filterWith(
		models.Rule{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("premier_league")},
		models.Rule{Field: "home_odds", Operator: catalog.OpGt, Value: models.NumberValue(2.0)},
	)
	assert.False(t, e.Evaluate(oneFails, snap))
}

func TestEvaluateRemovingRuleIsMonotone(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	dropRule := func(rules []models.Rule, i int) []models.Rule {
		reduced := make([]models.Rule, 0, len(rules)-1)
		reduced = append(reduced, rules[:i]...)
		return append(reduced, rules[i+1:]...)
	}

	// From a matching filter, removing any single rule still matches
	passing := []models.Rule{
		{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("premier_league")},
		{Field: "home_odds", Operator: catalog.OpLt, Value: models.NumberValue(2.0)},
		{Field: "home_position", Operator: catalog.OpLte, Value: models.NumberValue(5)},
	}
	require.True(t, e.Evaluate(filterWith(passing...), snap))
	for i := range passing {
		assert.True(t, e.Evaluate(filterWith(dropRule(passing, i)...), snap),
			"removing rule %d made the filter stricter", i)
	}

	// A filter failing on exactly one rule flips to matching only when
	// that rule is removed, and never gets stricter
	failIdx := 1
	oneFailing := []models.Rule{
		{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("premier_league")},
		{Field: "home_odds", Operator: catalog.OpGt, Value: models.NumberValue(2.0)},
		{Field: "home_position", Operator: catalog.OpLte, Value: models.NumberValue(5)},
	}
	require.False(t, e.Evaluate(filterWith(oneFailing...), snap))
	for i := range oneFailing {
		got := e.Evaluate(filterWith(dropRule(oneFailing, i)...), snap)
		assert.Equal(t, i == failIdx, got)
	}

	// Same holds when the failing rule is a missing-field diagnostic
	missingIdx := 1
	withMissing := []models.Rule{
		{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("premier_league")},
		{Field: "h2h_draws", Operator: catalog.OpGte, Value: models.NumberValue(1)},
	}
	require.False(t, e.Evaluate(filterWith(withMissing...), snap))
	for i := range withMissing {
		got := e.Evaluate(filterWith(dropRule(withMissing, i)...), snap)
		assert.Equal(t, i == missingIdx, got)
	}
}

func TestEvaluateNumericOperators(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	tests := []struct {
		name string
		rule models.Rule
		want bool
	}{
		{"eq matches exact", models.Rule{Field: "home_form_points", Operator: catalog.OpEq, Value: models.NumberValue(12)}, true},
		{"neq on equal value", models.Rule{Field: "home_form_points", Operator: catalog.OpNeq, Value: models.NumberValue(12)}, false},
		{"gt strict", models.Rule{Field: "home_odds", Operator: catalog.OpGt, Value: models.NumberValue(1.85)}, false},
		{"gte on boundary", models.Rule{Field: "home_odds", Operator: catalog.OpGte, Value: models.NumberValue(1.85)}, true},
		{"lt strict", models.Rule{Field: "home_position", Operator: catalog.OpLt, Value: models.NumberValue(4)}, true},
		{"lte on boundary", models.Rule{Field: "home_position", Operator: catalog.OpLte, Value: models.NumberValue(3)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(filterWith(tt.rule), snap))
		})
	}
}

func TestEvaluateBetweenInclusive(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	tests := []struct {
		name      string
		low, high float64
		want      bool
	}{
		{"inside", 1.5, 2.0, true},
		{"on low bound", 1.85, 2.0, true},
		{"on high bound", 1.5, 1.85, true},
		{"below", 1.9, 2.5, false},
		{"above", 1.2, 1.8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := models.Rule{Field: "home_odds", Operator: catalog.OpBetween, Value: models.RangeValue(tt.low, tt.high)}
			assert.Equal(t, tt.want, e.Evaluate(filterWith(rule), snap))
		})
	}
}

func TestEvaluateInSetMembership(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	member := models.Rule{Field: "league", Operator: catalog.OpIn, Value: models.SetValue("premier_league", "la_liga")}
	assert.True(t, e.Evaluate(filterWith(member), snap))

	nonMember := models.Rule{Field: "league", Operator: catalog.OpIn, Value: models.SetValue("serie_a", "la_liga")}
	assert.False(t, e.Evaluate(filterWith(nonMember), snap))

	// An empty candidate set never matches
	empty := models.Rule{Field: "league", Operator: catalog.OpIn, Value: models.RuleValue{Set: []string{}}}
	assert.False(t, e.Evaluate(filterWith(empty), snap))
}

func TestEvaluateMissingFieldDiagnostic(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	f := filterWith(models.Rule{Field: "h2h_draws", Operator: catalog.OpGte, Value: models.NumberValue(1)})
	assert.False(t, e.Evaluate(f, snap))

	results := e.EvaluateVerbose(f, snap)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matched)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, DiagFieldMissing, results[0].Err.Code)
}

func TestEvaluateVerboseCoversAllRules(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	f := filterWith(
		models.Rule{Field: "home_odds", Operator: catalog.OpGt, Value: models.NumberValue(3.0)}, // fails
		models.Rule{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("premier_league")},
	)

	results := e.EvaluateVerbose(f, snap)
	require.Len(t, results, 2)
	assert.False(t, results[0].Matched)
	// Rules past the first failure are still traced
	assert.True(t, results[1].Matched)
	assert.Equal(t, "1.85", results[0].Actual)
	assert.Equal(t, "> 3", results[0].Expected)
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	f := filterWith(models.Rule{Field: "home_odds", Operator: catalog.OpBetween, Value: models.RangeValue(1.5, 2.0)})
	before := f.Clone()

	_ = e.Evaluate(f, snap)
	_ = e.EvaluateVerbose(f, snap)

	assert.Equal(t, before.Rules, f.Rules)
	assert.NotNil(t, snap.Fields["home_odds"].Number)
}

func TestEvaluateEmptyRulesMatches(t *testing.T) {
	e := newTestEvaluator()
	f := filterWith()
	assert.True(t, e.Evaluate(f, preMatchSnapshot()))
}
