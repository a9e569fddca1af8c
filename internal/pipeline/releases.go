package pipeline

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/matching"
)

// MatchingUpdate sets the season and episode of one file matching. Nil
// clears the number.
type MatchingUpdate struct {
	ID            int64 `json:"id"`
	SeasonNumber  *int  `json:"season_number"`
	EpisodeNumber *int  `json:"episode_number"`
}

// ReleaseEditor applies user edits to stored releases.
type ReleaseEditor struct {
	store *library.Store
	log   *slog.Logger
}

// NewReleaseEditor creates a release editor.
func NewReleaseEditor(store *library.Store, log *slog.Logger) *ReleaseEditor {
	return &ReleaseEditor{store: store, log: componentLogger(log, "releases")}
}

// UpdateFileMatchings replaces the season and episode of every file matching
// of the release, then autocompletes the unset ones. updates must name each
// matching of the release exactly once.
func (e *ReleaseEditor) UpdateFileMatchings(showID int64, name string, updates []MatchingUpdate) ([]*library.FileMatching, error) {
	return e.edit(showID, name, func(ms []*library.FileMatching) error {
		if len(updates) != len(ms) {
			return fmt.Errorf("%w: got %d updates for %d files", ErrMatchingsMismatch, len(updates), len(ms))
		}
		sorted := slices.SortedFunc(slices.Values(updates), func(a, b MatchingUpdate) int { return cmp.Compare(a.ID, b.ID) })
		byID := slices.SortedFunc(slices.Values(ms), func(a, b *library.FileMatching) int { return cmp.Compare(a.ID, b.ID) })
		for i, u := range sorted {
			if byID[i].ID != u.ID {
				return fmt.Errorf("%w: unexpected id %d", ErrMatchingsMismatch, u.ID)
			}
			byID[i].SeasonNumber, byID[i].EpisodeNumber = u.SeasonNumber, u.EpisodeNumber
		}
		return nil
	})
}

// DetectFileMatchings parses episode markers from the names of unset files,
// then autocompletes the rest.
func (e *ReleaseEditor) DetectFileMatchings(showID int64, name string) ([]*library.FileMatching, error) {
	return e.edit(showID, name, func(ms []*library.FileMatching) error {
		n := matching.Detect(ms)
		e.log.Debug("episodes detected", "release", name, "detected", n)
		return nil
	})
}

func (e *ReleaseEditor) edit(showID int64, name string, apply func([]*library.FileMatching) error) ([]*library.FileMatching, error) {
	var ms []*library.FileMatching
	err := e.store.InTx(func(tx *library.Tx) error {
		r, err := tx.GetRelease(name)
		if err != nil {
			return err
		}
		if r.ShowID != showID {
			return fmt.Errorf("%w: release %q belongs to show %d", ErrShowMismatch, name, r.ShowID)
		}
		if err := apply(r.FileMatchings); err != nil {
			return err
		}
		matching.Autocomplete(r.FileMatchings)
		ms = r.FileMatchings
		return tx.SaveFileMatchings(r.Name, r.ShowID, ms)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("file matchings updated", "show_id", showID, "release", name, "files", len(ms))
	return ms, nil
}

// DeleteRelease forgets a release and its file matchings. The torrent stays
// in qBittorrent.
func (e *ReleaseEditor) DeleteRelease(name string) error {
	if err := e.store.DeleteRelease(name); err != nil {
		return err
	}
	e.log.Info("release deleted", "release", name)
	return nil
}
