package main

import (
	"context"
	"fmt"

	"github.com/HendryAvila/projtrack/internal/config"
	projserver "github.com/HendryAvila/projtrack/internal/server"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "projtrack",
		Short: "Project activity tracker for AI agents",
		Long: `projtrack records the work of an AI agent as project sessions made of
steps, metrics, insights and timeline events, and computes completion and
efficiency reports from them. Run "projtrack serve" from your MCP client.`,
		Version:       projserver.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default ~/.projtrack, env "+config.EnvDataDir+")")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (env "+config.EnvLogLevel+")")

	root.AddCommand(
		newServeCmd(&flags),
		newSessionsCmd(&flags),
		newReportCmd(&flags),
		newStatsCmd(&flags),
		newCallCmd(&flags),
		newConfigCmd(&flags),
		newVersionCmd(),
	)
	return root
}

// load resolves the configuration with flags applied last.
func (f *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.dataDir)
	if err != nil {
		return config.Config{}, err
	}
	if f.logLevel != "" {
		if _, err := config.ParseLevel(f.logLevel); err != nil {
			return config.Config{}, err
		}
		cfg.LogLevel = f.logLevel
	}
	return cfg, nil
}

// withTracker opens a tracker for a one-shot command. Logs go to stderr.
func (f *globalFlags) withTracker(cmd *cobra.Command, fn func(ctx context.Context, tr *tracker.Tracker) error) error {
	cfg, err := f.load()
	if err != nil {
		return err
	}
	log := cfg.NewLogger(cmd.ErrOrStderr())

	tr, cleanup, err := projserver.OpenTracker(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(cmd.Context(), tr)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "projtrack v%s\n", projserver.Version)
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", cfg.Path())
			return cfg.Write(out)
		},
	}
}
