// Package main provides the filterctl CLI for managing saved filters.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/config"
	"github.com/yourusername/betfilter/internal/database"
	"github.com/yourusername/betfilter/internal/filter"
	appLogger "github.com/yourusername/betfilter/internal/logger"
	"github.com/yourusername/betfilter/internal/models"
	"github.com/yourusername/betfilter/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	userFlag   string
	yesFlag    bool
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	audit      *appLogger.AuditLogger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	listCmd.Flags().StringVarP(&userFlag, "user", "u", "", "List filters owned by this user ID instead of active filters")

	createCmd.Flags().StringVarP(&userFlag, "user", "u", "", "Owner user ID for the new filter")
	deleteCmd.Flags().BoolVar(&yesFlag, "yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "filterctl",
	Short: "Manage saved betting filters",
	Long:  `Inspect, validate and toggle the saved filters evaluated by the scan service.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "fields" || cmd.Name() == "version" {
			return nil
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	audit = appLogger.NewAuditLogger(logger)

	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active filters, or a user's filters with --user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var (
			filters []*models.Filter
			err     error
		)
		if userFlag != "" {
			userID, parseErr := uuid.Parse(userFlag)
			if parseErr != nil {
				return fmt.Errorf("invalid user ID: %w", parseErr)
			}
			filters, err = repos.Filter.GetByUser(ctx, userID)
		} else {
			filters, err = repos.Filter.GetActive(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to load filters: %w", err)
		}

		if len(filters) == 0 {
			fmt.Println("No filters found")
			return nil
		}

		fmt.Printf("%-38s %-30s %-14s %-6s %-6s %s\n", "ID", "NAME", "BET TYPE", "RULES", "LIVE", "ACTIVE")
		for _, f := range filters {
			fmt.Printf("%-38s %-30s %-14s %-6d %-6d %t\n",
				f.ID, truncate(f.Name, 30), f.BetType, len(f.Rules), len(f.LiveRules), f.IsActive)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <filter-id>",
	Short: "Show a filter's rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFilter(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:        %s\n", f.Name)
		if f.Description != "" {
			fmt.Printf("Description: %s\n", f.Description)
		}
		fmt.Printf("Bet Type:    %s\n", f.BetType)
		fmt.Printf("Active:      %t\n", f.IsActive)
		fmt.Printf("Alerts:      %t\n", f.AlertsEnabled)
		fmt.Printf("Created:     %s\n", f.CreatedAt.Format(time.RFC3339))

		fmt.Println("Rules:")
		for i, r := range f.Rules {
			fmt.Printf("  %d. %s %s %s\n", i+1, r.Field, r.Operator, describeValue(r.Value))
		}
		if len(f.LiveRules) > 0 {
			fmt.Printf("Live Rules:  %d\n", len(f.LiveRules))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <filter-id>",
	Short: "Re-validate a stored filter against the current field catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFilter(args[0])
		if err != nil {
			return err
		}

		cat := catalog.New()
		draft := filter.FromFilter(f)
		if _, errs := filter.ValidateFilter(cat, draft); len(errs) > 0 {
			fmt.Printf("Filter %q is INVALID against catalog %s:\n", f.Name, cat.Version())
			for _, e := range errs {
				fmt.Printf("  - %s\n", e.Error())
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		}

		fmt.Printf("Filter %q is valid against catalog %s\n", f.Name, cat.Version())
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <filter-id>",
	Short: "Activate a filter for live scanning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <filter-id>",
	Short: "Deactivate a filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(args[0], false)
	},
}

var createCmd = &cobra.Command{
	Use:   "create <draft.json>",
	Short: "Create a filter from a draft JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read draft file: %w", err)
		}

		var draft filter.Draft
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("invalid draft JSON: %w", err)
		}
		if userFlag != "" {
			userID, parseErr := uuid.Parse(userFlag)
			if parseErr != nil {
				return fmt.Errorf("invalid user ID: %w", parseErr)
			}
			draft.UserID = userID
		}
		if draft.UserID == uuid.Nil {
			return fmt.Errorf("draft has no user_id; pass --user")
		}

		f, errs := filter.ValidateFilter(catalog.New(), draft)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Printf("  - %s\n", e.Error())
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := repos.Filter.Create(ctx, f); err != nil {
			return fmt.Errorf("failed to create filter: %w", err)
		}
		audit.LogFilterCreated(f.ID, f.UserID.String(), f.Name, string(f.BetType), len(f.Rules))

		fmt.Printf("Created filter %s (%q)\n", f.ID, f.Name)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <filter-id> <new-name>",
	Short: "Rename a stored filter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFilter(args[0])
		if err != nil {
			return err
		}

		cat := catalog.New()
		draft := filter.ApplyEdit(cat, filter.FromFilter(f), filter.Edit{Op: filter.EditSetName, Text: args[1]})
		updated, errs := filter.ValidateFilter(cat, draft)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Printf("  - %s\n", e.Error())
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		}
		updated.LiveRules = f.LiveRules
		updated.CreatedAt = f.CreatedAt

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := repos.Filter.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update filter %s: %w", updated.ID, err)
		}
		audit.LogFilterUpdated(updated.ID, updated.UserID.String(), len(updated.Rules))

		fmt.Printf("Filter %s renamed to %q\n", updated.ID, updated.Name)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <filter-id>",
	Short: "Delete a stored filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !yesFlag {
			return fmt.Errorf("refusing to delete without --yes")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid filter ID: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := repos.Filter.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete filter %s: %w", id, err)
		}

		fmt.Printf("Filter %s deleted\n", id)
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts <filter-id> <on|off>",
	Short: "Toggle alert delivery for a filter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var enabled bool
		switch args[1] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return fmt.Errorf("expected on or off, got %q", args[1])
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid filter ID: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := repos.Filter.SetAlerts(ctx, id, enabled); err != nil {
			return fmt.Errorf("failed to update filter %s: %w", id, err)
		}

		fmt.Printf("Alerts for filter %s turned %s\n", id, args[1])
		return nil
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the matchable fields and their operators",
	Run: func(cmd *cobra.Command, args []string) {
		cat := catalog.New()
		fmt.Printf("Catalog version: %s\n\n", cat.Version())
		fmt.Printf("%-20s %-8s %-28s %s\n", "KEY", "TYPE", "OPERATORS", "RANGE")
		for _, def := range cat.Fields() {
			ops := make([]string, 0, len(def.Operators))
			for _, op := range def.Operators {
				ops = append(ops, string(op))
			}
			rangeDesc := ""
			if def.Min != nil && def.Max != nil {
				rangeDesc = fmt.Sprintf("%g to %g", *def.Min, *def.Max)
			} else if len(def.Options) > 0 {
				rangeDesc = fmt.Sprintf("%d options", len(def.Options))
			}
			fmt.Printf("%-20s %-8s %-28s %s\n", def.Key, def.Type, strings.Join(ops, " "), rangeDesc)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("filterctl %s (%s)\n", Version, GitCommit)
	},
}

func loadFilter(rawID string) (*models.Filter, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid filter ID: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f, err := repos.Filter.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load filter %s: %w", id, err)
	}
	return f, nil
}

func setActive(rawID string, active bool) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid filter ID: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repos.Filter.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update filter %s: %w", id, err)
	}
	audit.LogFilterStateChange(id, active, "filterctl")

	state := "disabled"
	if active {
		state = "enabled"
	}
	fmt.Printf("Filter %s %s\n", id, state)
	return nil
}

func describeValue(v models.RuleValue) string {
	switch v.Kind() {
	case models.ValueKindNumber:
		return fmt.Sprintf("%g", *v.Number)
	case models.ValueKindText:
		return *v.Text
	case models.ValueKindRange:
		return fmt.Sprintf("[%g, %g]", *v.Low, *v.High)
	case models.ValueKindSet:
		return "[" + strings.Join(v.Set, ", ") + "]"
	default:
		return "(none)"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
