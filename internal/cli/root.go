// Package cli implements the budgetlens command line.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/budgetlens/budgetlens/internal/daemon"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "budgetlens",
	Short: "Personal budget calculator and savings planner",
	Long: `budgetlens turns a paycheck, 401k settings and monthly expenses into
savings figures, multi-year projections and recommendations.

Run "budgetlens serve" to start the API used by the dashboard, or
"budgetlens calc" for a one-off calculation in the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $BUDGETLENS_HOME/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and builds a logger. CLI commands log as
// text unless the config asks otherwise; serve keeps the configured format.
func loadConfig(textLogs bool) (daemon.Config, *logrus.Logger, error) {
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		if _, err := logrus.ParseLevel(logLevel); err != nil {
			return cfg, nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = logLevel
	}
	logCfg := cfg.Log
	if textLogs {
		logCfg.Format = "text"
	}
	return cfg, daemon.NewLogger(logCfg, os.Stderr), nil
}
