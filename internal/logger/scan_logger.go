// Package logger provides scan-specific logging.
package logger

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScanLogger provides dedicated logging for scan operations.
type ScanLogger struct {
	*logrus.Entry
}

// NewScanLogger creates a new scan logger.
func NewScanLogger(baseLogger *logrus.Logger) *ScanLogger {
	return &ScanLogger{
		Entry: baseLogger.WithField("component", "scan"),
	}
}

// LogScanTick logs a completed scan tick.
func (sl *ScanLogger) LogScanTick(filtersEvaluated, snapshotsScanned, matchesFound int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"filters_evaluated": filtersEvaluated,
		"snapshots_scanned": snapshotsScanned,
		"matches_found":     matchesFound,
		"scan_duration_ms":  durationMs,
	}).Info("Scan tick completed")
}

// LogFilterMatch logs a filter matching a snapshot.
func (sl *ScanLogger) LogFilterMatch(filterID uuid.UUID, filterName, fixtureID string, rulesChecked int) {
	sl.WithFields(logrus.Fields{
		"filter_id":     filterID,
		"filter_name":   filterName,
		"fixture_id":    fixtureID,
		"rules_checked": rulesChecked,
	}).Info("Filter matched fixture")
}

// LogEvaluationDiagnostic logs a non-fatal diagnostic raised during evaluation.
func (sl *ScanLogger) LogEvaluationDiagnostic(filterID uuid.UUID, fixtureID, code, field string) {
	sl.WithFields(logrus.Fields{
		"filter_id":  filterID,
		"fixture_id": fixtureID,
		"code":       code,
		"field":      field,
	}).Debug("Evaluation diagnostic raised")
}

// LogNotificationSuppressed logs a notification skipped due to cooldown.
func (sl *ScanLogger) LogNotificationSuppressed(filterID uuid.UUID, fixtureID string, cooldownMinutes int) {
	sl.WithFields(logrus.Fields{
		"filter_id":        filterID,
		"fixture_id":       fixtureID,
		"cooldown_minutes": cooldownMinutes,
	}).Debug("Notification suppressed by cooldown")
}
