package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrfill/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s\n\n", path)
		fmt.Fprintln(out, "Set TVDB_API_KEY, SONARR_API_KEY, PROWLARR_API_KEY and QBITTORRENT_PASSWORD,")
		fmt.Fprintln(out, "or edit the file, then run 'arrfill serve'.")
		return nil
	},
}

func init() {
	initCmd.Flags().StringP("config", "c", "", "Path to write (default: XDG config dir)")
	rootCmd.AddCommand(initCmd)
}
