package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrfill/internal/server"
)

var syncPollInterval = time.Second

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Trigger a full sync pass",
	Long: `Request a full sync pass: missing series from Sonarr, torrent stats
from qBittorrent, export of finished releases, and re-grab of outdated
ones. A request made while a pass is pending joins that pass.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		wait, _ := cmd.Flags().GetBool("wait")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		client := NewClient(serverURL)

		before, err := client.SyncStatus()
		if err != nil {
			return fmt.Errorf("sync status failed: %w", err)
		}
		resp, err := client.TriggerSync()
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		if !wait {
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			if resp.Triggered {
				fmt.Fprintln(cmd.OutOrStdout(), "Sync requested.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Sync already pending.")
			}
			return nil
		}

		report, err := waitForPass(client, lastRunID(before), timeout)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printPass(cmd.OutOrStdout(), report)
		if report.Error != "" {
			return fmt.Errorf("pass failed at %s: %s", report.FailedStep, report.Error)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("wait", false, "Wait for the pass to finish")
	syncCmd.Flags().Duration("timeout", 30*time.Minute, "Maximum time to wait")
	rootCmd.AddCommand(syncCmd)
}

func lastRunID(s *server.SyncStatus) string {
	if s.LastPass == nil {
		return ""
	}
	return s.LastPass.RunID
}

// waitForPass polls until a pass other than prevRunID has finished and the
// scheduler is idle again.
func waitForPass(client *Client, prevRunID string, timeout time.Duration) (*server.PassReport, error) {
	deadline := time.Now().Add(timeout)
	for {
		st, err := client.SyncStatus()
		if err != nil {
			return nil, fmt.Errorf("sync status failed: %w", err)
		}
		if st.State == server.StateIdle.String() && lastRunID(st) != prevRunID {
			return st.LastPass, nil
		}
		if time.Now().After(deadline) {
			return nil, errors.New("timed out waiting for sync pass")
		}
		time.Sleep(syncPollInterval)
	}
}

func printPass(w io.Writer, p *server.PassReport) {
	fmt.Fprintf(w, "Pass %s finished in %s\n", p.RunID, p.FinishedAt.Sub(p.StartedAt).Round(time.Millisecond))
	if p.Sync != nil {
		fmt.Fprintf(w, "  Sync:    %d missing, %d new, %d failed\n", p.Sync.Missing, p.Sync.Created, p.Sync.Failed)
	}
	if p.Stats != nil {
		fmt.Fprintf(w, "  Stats:   %d updated, %d finished\n", p.Stats.Updated, p.Stats.Finished)
	}
	if p.Export != nil {
		fmt.Fprintf(w, "  Export:  %d ok, %d failed, %d skipped\n", p.Export.Succeeded, p.Export.Failed, p.Export.Skipped)
	}
	if p.ReGrab != nil {
		fmt.Fprintf(w, "  Re-grab: %d checked, %d updated, %d skipped, %d failed\n", p.ReGrab.Checked, p.ReGrab.Updated, p.ReGrab.Skipped, p.ReGrab.Failed)
	}
	if p.Error != "" {
		fmt.Fprintf(w, "  Error:   %s: %s\n", p.FailedStep, p.Error)
	}
}
