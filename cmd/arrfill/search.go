package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <show-id> [query...]",
	Short: "Search indexers for a show",
	Long: `Search Prowlarr for releases of a show. Without a query the show's
last query is reused. Results are stored on the show; grab one by its key.

Examples:
  arrfill search 12 frieren s01
  arrfill search 12`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseShowID(args[0])
		if err != nil {
			return err
		}
		resp, err := NewClient(serverURL).Search(id, strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Query: %q\n", resp.Query)
		printResults(cmd.OutOrStdout(), resp.Results)
		return nil
	},
}

var grabCmd = &cobra.Command{
	Use:   "grab <show-id> <key>",
	Short: "Grab a result of the show's last search",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseShowID(args[0])
		if err != nil {
			return err
		}
		rel, err := NewClient(serverURL).Grab(id, args[1])
		if err != nil {
			return fmt.Errorf("grab failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), rel)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Grabbed %s (%s)\n", rel.Name, rel.TorrentHash)
		printMatchings(cmd.OutOrStdout(), rel.Matchings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd, grabCmd)
}

func printResults(w io.Writer, results []SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		key := r.Key
		if key == "" {
			key = "?"
		}
		rows = append(rows, []string{
			r.Title,
			r.Indexer,
			formatSize(r.Size),
			strconv.Itoa(r.Seeders),
			strconv.Itoa(r.Age) + "d",
			r.Relevance.String(),
			key,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Title", "Indexer", "Size", "Seeders", "Age", "Match", "Key"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
}
