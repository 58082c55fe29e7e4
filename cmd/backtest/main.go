// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betfilter/internal/backtest"
	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/config"
	"github.com/yourusername/betfilter/internal/database"
	"github.com/yourusername/betfilter/internal/engine"
	"github.com/yourusername/betfilter/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		filterID   = flag.String("filter-id", "", "Filter ID to replay (required)")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		output     = flag.String("output", "", "Override output path for JSON report")
		curveCSV   = flag.String("curve-csv", "", "Also write profit curve CSV to this path")
		jsonOut    = flag.Bool("json", false, "Write the JSON report in addition to console output")
		persist    = flag.Bool("persist", false, "Store settled outcomes in the database")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	if *filterID == "" {
		logger.Fatal("--filter-id is required")
	}
	id, err := uuid.Parse(*filterID)
	if err != nil {
		logger.Fatalf("Invalid filter ID: %v", err)
	}

	cfg := loadConfigWithSecrets(*configPath, logger)
	btConfig := buildBacktestConfig(cfg, *startDate, *endDate, *output, logger)
	if *persist {
		btConfig.PersistOutcomes = true
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		_ = db.Close(context.Background())
	}()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	filter, err := repos.Filter.GetByID(ctx, id)
	if err != nil {
		logger.Fatalf("Failed to load filter %s: %v", id, err)
	}

	evaluator := engine.NewEvaluator(catalog.New(), logger)
	bt, err := backtest.NewEngine(btConfig, repos, evaluator, logger)
	if err != nil {
		logger.Fatalf("Failed to create backtest engine: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"filter": filter.Name,
		"start":  btConfig.StartDate.Format("2006-01-02"),
		"end":    btConfig.EndDate.Format("2006-01-02"),
	}).Info("Starting backtest")

	result, err := bt.Run(ctx, filter)
	if err != nil {
		logger.Fatalf("Backtest failed: %v", err)
	}

	fmt.Print(backtest.GenerateConsoleReport(result))

	if *jsonOut {
		if err := backtest.WriteJSONReport(result, btConfig.OutputPath); err != nil {
			logger.Fatalf("Failed to write JSON report: %v", err)
		}
		logger.WithField("path", btConfig.OutputPath).Info("JSON report written")
	}

	if *curveCSV != "" {
		if err := backtest.WriteProfitCurveCSV(result.Analytics, *curveCSV); err != nil {
			logger.Fatalf("Failed to write profit curve CSV: %v", err)
		}
		logger.WithField("path", *curveCSV).Info("Profit curve written")
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildBacktestConfig(cfg *config.Config, startDate, endDate, output string, logger *logrus.Logger) backtest.Config {
	btConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		logger.Fatalf("Invalid backtest configuration: %v", err)
	}

	if startDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			logger.Fatalf("Invalid start date: %v", err)
		}
		btConfig.StartDate = start
	}
	if endDate != "" {
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			logger.Fatalf("Invalid end date: %v", err)
		}
		btConfig.EndDate = end
	}
	if output != "" {
		btConfig.OutputPath = output
	}

	if err := btConfig.Validate(); err != nil {
		logger.Fatalf("Invalid backtest parameters: %v", err)
	}
	return btConfig
}
