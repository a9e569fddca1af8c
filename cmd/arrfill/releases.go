package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrfill/internal/pipeline"
)

var matchCmd = &cobra.Command{
	Use:   "match <show-id> <release> <id>=<season>x<episode>|<id>=-...",
	Short: "Set file matchings of a release",
	Long: `Set the episode of files in a release. Files not named keep their
current episode; unset files after a matched one are autocompleted.

Examples:
  arrfill match 12 "[Group] Show S01" 41=1x01
  arrfill match 12 "[Group] Show S01" 41=1x01 42=-`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseShowID(args[0])
		if err != nil {
			return err
		}
		edits := make(map[int64]pipeline.MatchingUpdate, len(args)-2)
		for _, a := range args[2:] {
			u, err := parseMatchArg(a)
			if err != nil {
				return err
			}
			edits[u.ID] = u
		}

		client := NewClient(serverURL)
		show, err := client.Show(id)
		if err != nil {
			return fmt.Errorf("get show failed: %w", err)
		}
		rel, ok := findRelease(show.Releases, args[1])
		if !ok {
			return fmt.Errorf("release %q not found on show %d", args[1], id)
		}
		updates, err := mergeMatchings(rel.Matchings, edits)
		if err != nil {
			return err
		}

		resp, err := client.UpdateMatchings(id, rel.Name, updates)
		if err != nil {
			return fmt.Errorf("update matchings failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printMatchings(cmd.OutOrStdout(), resp.Items)
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect <show-id> <release>",
	Short: "Detect episodes of unset files from their names",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseShowID(args[0])
		if err != nil {
			return err
		}
		resp, err := NewClient(serverURL).DetectMatchings(id, args[1])
		if err != nil {
			return fmt.Errorf("detect failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printMatchings(cmd.OutOrStdout(), resp.Items)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <release>",
	Short: "Forget a release (the torrent stays in qBittorrent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := NewClient(serverURL).DeleteRelease(args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		if !jsonOutput {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd, detectCmd, deleteCmd)
}

// parseMatchArg parses "<id>=<season>x<episode>" or "<id>=-".
func parseMatchArg(s string) (pipeline.MatchingUpdate, error) {
	idStr, value, ok := strings.Cut(s, "=")
	if !ok {
		return pipeline.MatchingUpdate{}, fmt.Errorf("invalid matching %q: want <id>=<season>x<episode> or <id>=-", s)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return pipeline.MatchingUpdate{}, fmt.Errorf("invalid matching id in %q", s)
	}
	u := pipeline.MatchingUpdate{ID: id}
	if value == "-" {
		return u, nil
	}

	seasonStr, episodeStr, ok := strings.Cut(strings.ToLower(value), "x")
	if !ok {
		return pipeline.MatchingUpdate{}, fmt.Errorf("invalid episode %q: want <season>x<episode>", value)
	}
	season, err := strconv.Atoi(seasonStr)
	if err != nil || season < 0 {
		return pipeline.MatchingUpdate{}, fmt.Errorf("invalid season in %q", value)
	}
	episode, err := strconv.Atoi(episodeStr)
	if err != nil || episode < 1 {
		return pipeline.MatchingUpdate{}, fmt.Errorf("invalid episode in %q", value)
	}
	u.SeasonNumber, u.EpisodeNumber = &season, &episode
	return u, nil
}

func findRelease(releases []ReleaseResponse, name string) (ReleaseResponse, bool) {
	for _, r := range releases {
		if r.Name == name {
			return r, true
		}
	}
	return ReleaseResponse{}, false
}

// mergeMatchings returns an update for every current matching, with edits
// applied. Every edit must name a current matching.
func mergeMatchings(current []MatchingResponse, edits map[int64]pipeline.MatchingUpdate) ([]pipeline.MatchingUpdate, error) {
	updates := make([]pipeline.MatchingUpdate, 0, len(current))
	seen := 0
	for _, m := range current {
		if u, ok := edits[m.ID]; ok {
			updates = append(updates, u)
			seen++
			continue
		}
		updates = append(updates, pipeline.MatchingUpdate{ID: m.ID, SeasonNumber: m.SeasonNumber, EpisodeNumber: m.EpisodeNumber})
	}
	if seen != len(edits) {
		return nil, fmt.Errorf("%d matching ids do not belong to the release", len(edits)-seen)
	}
	return updates, nil
}
