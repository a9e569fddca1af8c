package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "arrfill",
	Short: "Fill Sonarr's missing seasons from torrent indexers",
	Long: `arrfill - fill Sonarr's missing seasons from torrent indexers

Mirrors Sonarr's wanted/missing list, lets you search Prowlarr and grab
releases into qBittorrent, and hands finished downloads back to Sonarr.

Run 'arrfill serve' to start the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8585", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("arrfill {{.Version}}\n")
}
