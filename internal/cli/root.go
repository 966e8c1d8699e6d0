// Package cli wires the rackmap command tree.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries state shared by every subcommand.
type app struct {
	verbose    bool
	configPath string
	logger     *zap.Logger
	level      *zap.AtomicLevel
}

// log returns the command logger, or a no-op logger before initialisation.
func (a *app) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

// applyLogLevel switches to the configured level unless --verbose was given.
func (a *app) applyLogLevel(name string) {
	if a.verbose || a.level == nil || name == "" {
		return
	}
	if lvl, err := zapcore.ParseLevel(name); err == nil {
		a.level.SetLevel(lvl)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "rackmap",
		Short: "Warehouse bay layout generator",
		Long: `rackmap turns a warehouse inventory export into per-bay 3D scene files.

Each storage bin code is decoded into row, section, level and slot, placed
using the exported floor positions and stacked shelf heights, and grouped
into racks. One JSON document is written per building and bay.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			a.level = &config.Level
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.rackmap/config.yaml)")

	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newMockCmd(a))

	return cmd
}
