package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Running the root command without a
// subcommand is the same as "run".
func newRootCmd() *cobra.Command {
	// Bound to --config; each command tree gets its own.
	var configFlag string

	root := &cobra.Command{
		Use:   "sensorsim",
		Short: "Synthetic environmental sensor simulator",
		Long: `Emits temperature, humidity and pressure readings for one virtual
sensor at a fixed interval and writes them to InfluxDB or VictoriaMetrics.
Readings can be mirrored to MQTT, Kafka and a local SQLite journal.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), getConfigPath(configFlag))
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "",
		"path to the YAML config file (default $SENSORSIM_CONFIG, none if unset)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Emit readings until interrupted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), getConfigPath(configFlag))
			},
		},
		&cobra.Command{
			Use:   "once",
			Short: "Emit a single reading and print it as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return once(cmd.Context(), getConfigPath(configFlag), cmd.OutOrStdout())
			},
		},
		newMigrateCmd(&configFlag),
	)
	return root
}

// newMigrateCmd manages the journal schema. configFlag is read when a
// subcommand runs, after flags were parsed.
func newMigrateCmd(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the local journal schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return migrateUp(c.Context(), getConfigPath(*configFlag), c.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return migrateDown(c.Context(), getConfigPath(*configFlag), c.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return migrateStatus(c.Context(), getConfigPath(*configFlag), c.OutOrStdout())
			},
		},
	)
	return cmd
}

// getConfigPath returns flag if given, otherwise SENSORSIM_CONFIG.
// An empty path runs on defaults and environment variables only.
func getConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("SENSORSIM_CONFIG")
}
