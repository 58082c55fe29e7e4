// Package main provides the entry point for the live scan daemon.
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betfilter/internal/alert"
	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/config"
	"github.com/yourusername/betfilter/internal/database"
	"github.com/yourusername/betfilter/internal/engine"
	"github.com/yourusername/betfilter/internal/health"
	"github.com/yourusername/betfilter/internal/logger"
	"github.com/yourusername/betfilter/internal/metrics"
	"github.com/yourusername/betfilter/internal/provider"
	"github.com/yourusername/betfilter/internal/repository"
	"github.com/yourusername/betfilter/internal/scan"
	"github.com/yourusername/betfilter/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("BETFILTER_CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			stdlog.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			stdlog.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("BetFilter scanner starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			appLog.WithError(err).Error("Failed to close database connection")
		}
	}()

	if err := db.EnsureSchema(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to ensure database schema")
	}
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Snapshot provider over the rate-limited HTTP client
	httpLogger := stdlog.New(os.Stdout, "provider-http: ", stdlog.LstdFlags)
	httpCfg := provider.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Provider.RetryAttempts
	httpCfg.RateLimit = cfg.Provider.RateLimit
	httpClient := provider.NewRateLimitedHTTPClient(httpCfg, httpLogger)
	defer httpClient.Close()

	feed := provider.NewSportsFeedClient(httpClient, cfg.Provider.BaseURL, cfg.Provider.APIKey, true, httpLogger)
	appLog.WithField("provider", feed.Name()).Info("Snapshot provider initialized")

	var notifier alert.Notifier = alert.NopNotifier{}
	if cfg.Alerts.Enabled {
		timeout := time.Duration(cfg.Alerts.TimeoutSeconds) * time.Second
		notifier = alert.NewWebhookNotifier(cfg.Alerts.WebhookURL, timeout, appLog)
		appLog.Info("Webhook alert delivery enabled")
	}

	evaluator := engine.NewEvaluator(catalog.New(), appLog)
	scanner := scan.NewScanner(cfg.Scanner, repos, feed, evaluator, notifier, appLog)

	// Live stream feeds pushed updates into the same evaluation path as
	// scheduled ticks. Stream failures degrade to tick-only scanning.
	stream := provider.NewStreamClient(cfg.Provider.StreamURL, cfg.Provider.APIKey,
		stdlog.New(os.Stdout, "provider-stream: ", stdlog.LstdFlags))
	stream.AddHandler(func(update *provider.FixtureData) error {
		updateCtx, updateCancel := context.WithTimeout(ctx, 30*time.Second)
		defer updateCancel()
		return scanner.HandleLiveUpdate(updateCtx, update)
	})
	go func() {
		if err := stream.ConnectWithRetry(ctx); err != nil {
			appLog.WithError(err).Warn("Live stream unavailable, relying on scheduled ticks")
			return
		}
		if err := stream.Authenticate(ctx); err != nil {
			appLog.WithError(err).Warn("Stream authentication failed")
			return
		}
		if err := stream.Subscribe(ctx, nil); err != nil {
			appLog.WithError(err).Warn("Stream subscription failed")
		}
	}()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if stream.IsConnected() && time.Since(stream.LastMessageTime()) > 2*time.Minute {
					appLog.WithField("last_message", stream.LastMessageTime()).Warn("Live stream silent, sending ping")
					if err := stream.Ping(); err != nil {
						appLog.WithError(err).Warn("Stream ping failed")
					}
				}
			}
		}
	}()
	defer stream.Close()

	sched := scheduler.NewScheduler(scanner, appLog)
	if err := sched.ScheduleScanTicks(cfg.Scanner.TickSchedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule scan ticks")
	}
	if err := sched.ScheduleFixtureSync(cfg.Scanner.FixtureSyncSchedule, 2, 7); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule fixture sync")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
	})
	healthServer.RegisterCheck("provider", func(ctx context.Context) error {
		if !feed.IsEnabled() {
			return fmt.Errorf("provider disabled")
		}
		return nil
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	defer func() {
		if err := healthServer.Shutdown(); err != nil {
			appLog.WithError(err).Error("Failed to shut down health server")
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    ":" + strconv.Itoa(cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server failed")
			}
		}()
		appLog.WithFields(logrus.Fields{
			"port": cfg.Metrics.Port,
			"path": cfg.Metrics.Path,
		}).Info("Metrics server started")
	}

	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"tick_schedule":  cfg.Scanner.TickSchedule,
		"sync_schedule":  cfg.Scanner.FixtureSyncSchedule,
		"alerts_enabled": cfg.Alerts.Enabled,
	}).Info("Scanner is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error during metrics server shutdown")
		}
		shutdownCancel()
	}

	appLog.Info("BetFilter scanner shut down successfully")
}
