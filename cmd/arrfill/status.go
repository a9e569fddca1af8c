package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := NewClient(serverURL).Status()
		if err != nil {
			return fmt.Errorf("status check failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), status)
		}
		printStatus(cmd.OutOrStdout(), serverURL, status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(w io.Writer, server string, s *StatusResponse) {
	fmt.Fprintf(w, "arrfill v%s | Server: %s\n\n", s.Version, server)

	fmt.Fprintln(w, "Library")
	fmt.Fprintf(w, "  Shows:           %d (%d missing)\n", s.Shows, s.MissingShows)
	fmt.Fprintf(w, "  Releases:        %d\n", s.Releases)
	fmt.Fprintf(w, "  Downloading:     %d\n", s.Downloading)
	fmt.Fprintf(w, "  Pending export:  %d\n", s.PendingExport)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Sync")
	state := s.Sync.State
	if s.Sync.Running {
		state += " (running)"
	}
	fmt.Fprintf(w, "  State:     %s\n", state)
	last := s.Sync.LastPass
	if last == nil {
		fmt.Fprintln(w, "  Last pass: never")
		return
	}
	fmt.Fprintf(w, "  Last pass: %s (%s)\n", last.FinishedAt.Local().Format("2006-01-02 15:04:05"), last.FinishedAt.Sub(last.StartedAt).Round(time.Millisecond))
	if last.Error != "" {
		fmt.Fprintf(w, "  Failed:    %s: %s\n", last.FailedStep, last.Error)
	}
	if last.Export != nil {
		fmt.Fprintf(w, "  Exported:  %d ok, %d failed\n", last.Export.Succeeded, last.Export.Failed)
	}
}
