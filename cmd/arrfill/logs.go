package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrfill/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent server log entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		resp, err := NewClient(serverURL).Logs(limit)
		if err != nil {
			return fmt.Errorf("logs failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printLogs(cmd.OutOrStdout(), resp.Items)
		return nil
	},
}

func init() {
	logsCmd.Flags().IntP("limit", "n", logging.DefaultTailLimit, "Number of entries")
	rootCmd.AddCommand(logsCmd)
}

func printLogs(w io.Writer, entries []logging.Entry) {
	for _, e := range entries {
		component := e.Component
		if component == "" {
			component = "-"
		}
		fmt.Fprintf(w, "%s %-5s %-10s %s\n", e.Time.Local().Format("2006-01-02 15:04:05"), e.Level, component, e.Message)
	}
}
