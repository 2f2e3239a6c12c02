package cmd

import (
	"fmt"

	"github.com/josephlewis42/vterm/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the event log.",
}

// printLogSummary feeds the app log to update then prints out as YAML.
func printLogSummary(cmd *cobra.Command, update func(*logger.LogEntry), out interface{}) error {
	cmd.SilenceUsage = true

	config, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := config.ReadAppLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	if err := logger.ReadJSONLinesLog(fd, update); err != nil {
		return err
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		var report logger.Report
		return printLogSummary(cmd, report.Update, &report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions",
	Short: "Show what each session did, keyed by session ID.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		var interactions logger.InteractionReport
		return printLogSummary(cmd, interactions.Update, &interactions)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(sessionsCommand)
}
