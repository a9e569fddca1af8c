// Package matching guesses the season and episode of release files.
package matching

import (
	"path"
	"slices"
	"strings"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/pkg/release"
)

// Autocomplete fills unset rows from the matched file before them. Files are
// walked in name order; a file with neither season nor episode that follows a
// matched file in the same directory with the same extension becomes the next
// episode of that season. Rows with only one number set are left alone.
// The slice is sorted in place.
func Autocomplete(ms []*library.FileMatching) {
	slices.SortFunc(ms, func(a, b *library.FileMatching) int {
		return strings.Compare(a.FileName, b.FileName)
	})

	var (
		prevDir     string
		prevExt     string
		prevSeason  *int
		prevEpisode *int
	)
	for i, m := range ms {
		dir := path.Dir(m.FileName)
		ext := strings.ToLower(path.Ext(m.FileName))
		if i == 0 || dir != prevDir {
			prevExt, prevSeason, prevEpisode = "", nil, nil
		}
		prevDir = dir

		if m.Unset() && prevSeason != nil && prevEpisode != nil {
			if ext != prevExt {
				continue
			}
			season, episode := *prevSeason, *prevEpisode+1
			m.SeasonNumber, m.EpisodeNumber = &season, &episode
		}

		if m.Matched() {
			prevExt = ext
			prevSeason, prevEpisode = m.SeasonNumber, m.EpisodeNumber
		}
	}
}

// Detect parses season and episode markers from the names of unset rows and
// assigns them when both are found. It returns the number of rows detected.
func Detect(ms []*library.FileMatching) int {
	n := 0
	for _, m := range ms {
		if !m.Unset() {
			continue
		}
		season, episode, ok := release.ParseEpisode(m.FileName)
		if !ok {
			continue
		}
		m.SeasonNumber, m.EpisodeNumber = &season, &episode
		n++
	}
	return n
}

// Merge reconciles current rows with the file list of a replacement torrent.
// Rows whose file is still present are returned first; new files get unset
// rows. Rows for files that disappeared are not returned.
func Merge(current []*library.FileMatching, files []string) (kept, added []*library.FileMatching) {
	byName := make(map[string]*library.FileMatching, len(current))
	for _, m := range current {
		byName[m.FileName] = m
	}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		if m, ok := byName[f]; ok {
			kept = append(kept, m)
			continue
		}
		added = append(added, &library.FileMatching{FileName: f})
	}
	return kept, added
}
