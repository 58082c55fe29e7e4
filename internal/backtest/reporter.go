package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// GenerateConsoleReport formats a backtest result for terminal output
func GenerateConsoleReport(result *Result) string {
	a := result.Analytics
	var b strings.Builder
	b.WriteString("Backtest Report\n")
	b.WriteString("================\n")
	b.WriteString(fmt.Sprintf("Filter: %s\n", result.FilterName))
	b.WriteString(fmt.Sprintf("Range: %s to %s\n", result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Matches: %d (%d resolved, %d pending)\n", a.TotalOutcomes, a.ResolvedCount, a.PendingCount))
	b.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", a.WinRate*100))
	b.WriteString(fmt.Sprintf("Total Staked: %.2f\n", a.TotalStaked))
	b.WriteString(fmt.Sprintf("Total Profit: %.2f\n", a.TotalProfit))
	b.WriteString(fmt.Sprintf("ROI: %.2f%%\n", a.ROIPercentage))
	b.WriteString(fmt.Sprintf("Current Streak: %d\n", a.CurrentStreak))
	b.WriteString(fmt.Sprintf("Longest Winning Streak: %d\n", a.LongestWinningStreak))
	b.WriteString(fmt.Sprintf("Longest Losing Streak: %d\n", a.LongestLosingStreak))
	b.WriteString(fmt.Sprintf("Max Drawdown: %.2f (%.2f%%)\n", a.MaxDrawdown, a.MaxDrawdownPct))
	b.WriteString(fmt.Sprintf("Current Drawdown: %.2f\n", a.CurrentDrawdown))
	for _, m := range a.Monthly {
		b.WriteString(fmt.Sprintf("  %s: %d matches, %.2f%% win rate, %.2f profit\n", m.Month, m.Matches, m.WinRate*100, m.Profit))
	}
	return b.String()
}

// WriteJSONReport writes the full result as JSON
func WriteJSONReport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ProfitCurveCSV exports the cumulative profit curve for plotting
func ProfitCurveCSV(a *Analytics) string {
	var b strings.Builder
	b.WriteString("match_index,cumulative_profit,date\n")
	for _, p := range a.ProfitCurve {
		b.WriteString(strconv.Itoa(p.MatchIndex))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(p.CumulativeProfit, 'f', 2, 64))
		b.WriteString(",")
		b.WriteString(p.Date.Format(time.RFC3339))
		b.WriteString("\n")
	}
	return b.String()
}

// WriteProfitCurveCSV writes the profit curve next to the JSON report
func WriteProfitCurveCSV(a *Analytics, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(ProfitCurveCSV(a)), 0o644)
}
