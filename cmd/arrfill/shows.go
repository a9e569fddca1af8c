package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "List shows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var missing *bool
		if cmd.Flags().Changed("missing") {
			v, _ := cmd.Flags().GetBool("missing")
			missing = &v
		}
		resp, err := NewClient(serverURL).Shows(missing)
		if err != nil {
			return fmt.Errorf("list shows failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printShows(cmd.OutOrStdout(), resp.Items)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <show-id>",
	Short: "Show a show with its releases and last search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseShowID(args[0])
		if err != nil {
			return err
		}
		resp, err := NewClient(serverURL).Show(id)
		if IsNotFound(err) {
			return fmt.Errorf("show %d not found: %w", id, err)
		}
		if err != nil {
			return fmt.Errorf("get show failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printShowDetail(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	showsCmd.Flags().Bool("missing", false, "Only shows with missing seasons")
	rootCmd.AddCommand(showsCmd, showCmd)
}

func parseShowID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid show ID: %s", s)
	}
	return id, nil
}

func printShows(w io.Writer, shows []ShowResponse) {
	if len(shows) == 0 {
		fmt.Fprintln(w, "No shows.")
		return
	}
	rows := make([][]string, 0, len(shows))
	for _, s := range shows {
		year := ""
		if s.Year > 0 {
			year = strconv.Itoa(s.Year)
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Title,
			year,
			formatSeasons(s.MissingSeasons),
			s.Search,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"ID", "Title", "Year", "Missing", "Search"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	))
}

func printShowDetail(w io.Writer, s *ShowDetailResponse) {
	fmt.Fprintf(w, "#%d %s", s.ID, s.Title)
	if s.Year > 0 {
		fmt.Fprintf(w, " (%d)", s.Year)
	}
	fmt.Fprintf(w, "\n  Sonarr: %d | TVDB: %d | Missing seasons: %s\n", s.SonarrID, s.TVDBID, formatSeasons(s.MissingSeasons))
	if s.Overview != "" {
		fmt.Fprintf(w, "  %s\n", s.Overview)
	}

	if len(s.Seasons) > 0 {
		rows := make([][]string, 0, len(s.Seasons))
		for _, sn := range s.Seasons {
			missing := ""
			if sn.Missing {
				missing = "yes"
			}
			rows = append(rows, []string{
				strconv.Itoa(sn.SeasonNumber),
				fmt.Sprintf("%d/%d", sn.EpisodeFileCount, sn.EpisodeCount),
				strconv.Itoa(sn.TotalEpisodesCount),
				missing,
			})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderTable([]string{"Season", "Files", "Total", "Missing"}, rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignLeft}))
	}

	for _, r := range s.Releases {
		fmt.Fprintln(w)
		printRelease(w, r)
	}

	if len(s.SearchResults) > 0 {
		fmt.Fprintf(w, "\nLast search: %q\n", s.Search)
		printResults(w, s.SearchResults)
	}
}

func printRelease(w io.Writer, r ReleaseResponse) {
	state := fmt.Sprintf("%.0f%%", r.Progress*100)
	if r.Finished {
		state = "finished"
	}
	fmt.Fprintf(w, "Release: %s [%s]\n", r.Name, state)
	if r.ExportFailures > 0 {
		fmt.Fprintf(w, "  Export failures: %d\n", r.ExportFailures)
	}
	printMatchings(w, r.Matchings)
}

func printMatchings(w io.Writer, ms []MatchingResponse) {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.FileName,
			formatEpisode(m.SeasonNumber, m.EpisodeNumber),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "File", "Episode"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft}))
}
