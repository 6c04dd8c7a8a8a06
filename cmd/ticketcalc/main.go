// Package main provides the ticketcalc command line front end for the bet-ticket engine.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-ev/internal/betting"
	"github.com/yourusername/keiba-ev/internal/config"
	"github.com/yourusername/keiba-ev/internal/database"
	"github.com/yourusername/keiba-ev/internal/logger"
	"github.com/yourusername/keiba-ev/internal/metrics"
	"github.com/yourusername/keiba-ev/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
	engine     betting.Combinator
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(newCountCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newPurchaseCmd())
	rootCmd.AddCommand(newHistoryCmd())
}

var rootCmd = &cobra.Command{
	Use:           "ticketcalc",
	Short:         "Count, enumerate and record horse racing bet tickets",
	Long:          `Computes the combinations covered by a win/place/bracket/quinella/exacta/wide/trio/trifecta selection bought as single, formation, box or nagashi, and keeps a purchase history.`,
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupDependencies()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Metrics.Enabled {
			return nil
		}
		return metrics.WriteTextfile(cfg.Metrics.Textfile)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies() {
	appLog = logger.NewLoggerWithOutput(os.Stderr, cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	if cfg.Cache.Enabled {
		engine = betting.NewCachedEngine(cfg.CacheTTL(), cfg.Cache.MaxSize)
	} else {
		engine = betting.NewEngine()
	}

	appLog.WithFields(logrus.Fields{
		"environment":     cfg.App.Environment,
		"history_backend": cfg.History.Backend,
		"cache_enabled":   cfg.Cache.Enabled,
	}).Debug("ticketcalc configured")
}

// openHistory returns the configured purchase history store and a function releasing it
func openHistory(ctx context.Context) (repository.PurchaseHistoryRepository, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch {
	case cfg.UsesSQLite():
		db, err := database.NewSQLite(ctx, cfg.History.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history file: %w", err)
		}

		repos, err := repository.NewSQLiteRepositories(db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}

		appLog.WithField("path", db.Path()).Debug("Using SQLite purchase history")
		return repos.PurchaseHistory, db.Close, nil

	case cfg.UsesPostgres():
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}

		return repos.PurchaseHistory, db.Close, nil
	}

	appLog.Warn("Memory history backend keeps purchases for this process only")
	return repository.NewMemoryRepositories().PurchaseHistory, func() {}, nil
}
