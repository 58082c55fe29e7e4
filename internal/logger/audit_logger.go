// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogFilterCreated logs the creation of a filter.
func (al *AuditLogger) LogFilterCreated(filterID uuid.UUID, userID, name, betType string, ruleCount int) {
	al.WithFields(logrus.Fields{
		"filter_id":  filterID,
		"user_id":    userID,
		"name":       name,
		"bet_type":   betType,
		"rule_count": ruleCount,
	}).Info("Filter created")
}

// LogFilterUpdated logs a filter update.
func (al *AuditLogger) LogFilterUpdated(filterID uuid.UUID, userID string, ruleCount int) {
	al.WithFields(logrus.Fields{
		"filter_id":  filterID,
		"user_id":    userID,
		"rule_count": ruleCount,
	}).Info("Filter updated")
}

// LogFilterStateChange logs a filter being activated or deactivated.
func (al *AuditLogger) LogFilterStateChange(filterID uuid.UUID, active bool, changedBy string) {
	al.WithFields(logrus.Fields{
		"filter_id":  filterID,
		"active":     active,
		"changed_by": changedBy,
	}).Info("Filter state changed")
}

// LogAlertDelivery logs an alert delivery attempt.
func (al *AuditLogger) LogAlertDelivery(filterID uuid.UUID, fixtureID string, delivered bool, attempt int) {
	fields := logrus.Fields{
		"filter_id":  filterID,
		"fixture_id": fixtureID,
		"delivered":  delivered,
		"attempt":    attempt,
	}
	if delivered {
		al.WithFields(fields).Info("Alert delivered")
		return
	}
	al.WithFields(fields).Warn("Alert delivery failed")
}

// LogBacktestRun logs a completed backtest run.
func (al *AuditLogger) LogBacktestRun(filterID uuid.UUID, startDate, endDate time.Time, outcomes int, fromCache bool, durationMs float64) {
	al.WithFields(logrus.Fields{
		"filter_id":   filterID,
		"start_date":  startDate.Format("2006-01-02"),
		"end_date":    endDate.Format("2006-01-02"),
		"outcomes":    outcomes,
		"from_cache":  fromCache,
		"duration_ms": durationMs,
	}).Info("Backtest run recorded")
}
