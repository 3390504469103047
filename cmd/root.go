// =============================================================================
// Kebab Dashboard - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// shares the configuration and logger set up here.
//
// COBRA CLI STRUCTURE:
//   rootCmd (kebab-dashboard)
//   ├── serveCmd   (kebab-dashboard serve)
//   ├── exportCmd  (kebab-dashboard export)
//   ├── summaryCmd (kebab-dashboard summary)
//   ├── sessionCmd (kebab-dashboard session)
//   └── versionCmd (kebab-dashboard version)
//
// CONFIGURATION:
//   PersistentPreRunE loads config.yaml (plus .env overrides) and builds the
//   logger before any subcommand runs. --verbose forces debug logging.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kebab-dashboard/internal/backend"
	"github.com/ginjaninja78/kebab-dashboard/internal/config"
	"github.com/ginjaninja78/kebab-dashboard/internal/transaction"
	"github.com/ginjaninja78/kebab-dashboard/pkg/logger"
	"github.com/ginjaninja78/kebab-dashboard/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// cfg and appLogger are populated by PersistentPreRunE.
var (
	cfg       *config.MainConfig
	appLogger *logger.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "kebab-dashboard",
	Short: "Kebab Dashboard - sales reporting and catalog admin for the kebab shop",
	Long: `Kebab Dashboard serves the admin pages of the kebab shop backend and
produces transaction reports from the command line.

Key Features:
  - Orders grouped by customer and minute, with revenue and best sellers
  - PDF, Excel and printable reports, optionally for a single day
  - Catalog editing for kebabs, snacks, drinks and meal packages
  - Session-gated web pages backed by the shop's REST API

Example Usage:
  kebab-dashboard serve                          # Start the web dashboard
  kebab-dashboard export --format pdf            # Export all transactions
  kebab-dashboard export --date 2024-01-01       # Export a single day
  kebab-dashboard summary --input dump.json      # Summarise a saved response`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		loaded, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		appLogger = logger.New(logger.Config{
			Level:     level,
			Format:    cfg.LogFormat,
			Output:    cfg.LogOutput,
			Component: "cli",
		})
		return nil
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appLogger != nil {
			return appLogger.Close()
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// newBackendClient builds the REST client from the configuration.
func newBackendClient() *backend.Client {
	return backend.NewClient(cfg.BackendURL,
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithLocation(cfg.Location()),
		backend.WithLogger(appLogger.WithComponent("backend")),
	)
}

// newCLIBackendClient is newBackendClient plus the configured bearer token.
func newCLIBackendClient() *backend.Client {
	client := newBackendClient()
	if cfg.BackendToken != "" {
		client = client.WithToken(cfg.BackendToken)
	}
	return client
}

// loadRecords reads transactions from a saved JSON response when input is
// set, and from the backend otherwise.
func loadRecords(ctx context.Context, input string) ([]transaction.Record, []*transaction.Issue, error) {
	if input == "" {
		if cfg.BackendURL == "" {
			return nil, nil, fmt.Errorf("no --input file and no backend_url configured")
		}
		return newCLIBackendClient().Transactions(ctx)
	}

	if !utils.FileExists(input) {
		return nil, nil, fmt.Errorf("input file not found: %s", input)
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	records, issues, err := transaction.Decode(f, cfg.Location())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", input, err)
	}
	for _, issue := range issues {
		appLogger.Warn("transaction record issue", "issue", issue.Error())
	}
	return records, issues, nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
