package filter

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/models"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
	minRules             = 1
	maxRules             = 10
)

// ValidateFilter checks a draft against the catalog and returns the
// finished filter or every violation found. Errors are collected, not
// short-circuited, so the caller can show all of them at once.
func ValidateFilter(cat *catalog.Catalog, draft Draft) (*models.Filter, ValidationErrors) {
	var errs ValidationErrors

	if len(draft.Name) < 1 {
		errs = append(errs, filterError(CodeNameLength, "name is required"))
	} else if utf8.RuneCountInString(draft.Name) > maxNameLength {
		errs = append(errs, filterError(CodeNameLength, "name exceeds %d characters", maxNameLength))
	}

	if utf8.RuneCountInString(draft.Description) > maxDescriptionLength {
		errs = append(errs, filterError(CodeDescriptionLength, "description exceeds %d characters", maxDescriptionLength))
	}

	if len(draft.Rules) < minRules {
		errs = append(errs, filterError(CodeRuleCount, "filter requires at least %d rule", minRules))
	} else if len(draft.Rules) > maxRules {
		errs = append(errs, filterError(CodeRuleCount, "filter exceeds %d rules", maxRules))
	}

	for i, rule := range draft.Rules {
		errs = append(errs, validateRule(cat, rule, i)...)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	now := time.Now().UTC()
	rules := make([]models.Rule, len(draft.Rules))
	copy(rules, draft.Rules)

	f := &models.Filter{
		ID:            draft.ID,
		UserID:        draft.UserID,
		Name:          draft.Name,
		Description:   draft.Description,
		BetType:       draft.BetType,
		Rules:         rules,
		IsActive:      draft.IsActive,
		AlertsEnabled: draft.AlertsEnabled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return f, nil
}
