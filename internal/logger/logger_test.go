package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("bogus", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerFormatterPerEnvironment(t *testing.T) {
	log := NewLogger("info", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLogger("info", "development")
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestScanLoggerTick(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanTick(12, 40, 3, 152.4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scan", logEntry["component"])
	assert.Equal(t, float64(12), logEntry["filters_evaluated"])
	assert.Equal(t, float64(3), logEntry["matches_found"])
}

func TestScanLoggerFilterMatch(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	id := uuid.New()
	scanLogger.LogFilterMatch(id, "Home favourites", "fixture_42", 4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, id.String(), logEntry["filter_id"])
	assert.Equal(t, "Home favourites", logEntry["filter_name"])
}

func TestScanLoggerDiagnostic(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogEvaluationDiagnostic(uuid.New(), "fixture_42", "field_missing_on_snapshot", "home_odds")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "field_missing_on_snapshot", logEntry["code"])
	assert.Equal(t, "home_odds", logEntry["field"])
}

func TestAuditLoggerFilterCreated(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	id := uuid.New()
	auditLogger.LogFilterCreated(id, "user_1", "Home favourites", "home_win", 3)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, id.String(), logEntry["filter_id"])
	assert.Equal(t, float64(3), logEntry["rule_count"])
}

func TestAuditLoggerAlertDeliveryFailed(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogAlertDelivery(uuid.New(), "fixture_42", false, 2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, false, logEntry["delivered"])
}

func TestAuditLoggerBacktestRun(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogBacktestRun(
		uuid.New(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		120,
		true,
		12.5,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "2025-01-01", logEntry["start_date"])
	assert.Equal(t, true, logEntry["from_cache"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanTick(1, 1, 0, 10)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkScanLoggerTick(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	scanLogger := NewScanLogger(log)

	for i := 0; i < b.N; i++ {
		scanLogger.LogScanTick(12, 40, 3, 152.4)
	}
}
