package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/vmunix/arrfill/internal/library"
)

// StatsResult counts the releases touched by a stats import.
type StatsResult struct {
	Updated  int `json:"updated"`
	Finished int `json:"finished"`
}

// StatsImporter copies torrent progress from qBittorrent onto releases.
type StatsImporter struct {
	store    *library.Store
	torrents TorrentClient
	log      *slog.Logger
}

// NewStatsImporter creates a stats importer.
func NewStatsImporter(store *library.Store, torrents TorrentClient, log *slog.Logger) *StatsImporter {
	return &StatsImporter{store: store, torrents: torrents, log: componentLogger(log, "stats")}
}

// Import stores the latest stats of every release whose torrent the client
// reports. A release is finished once the torrent has a completion time and
// full progress. Running it twice changes nothing.
func (s *StatsImporter) Import(ctx context.Context) (StatsResult, error) {
	var res StatsResult

	stats, err := s.torrents.Stats(ctx)
	if err != nil {
		return res, fmt.Errorf("torrent stats: %w", err)
	}
	hashes := slices.Sorted(maps.Keys(stats))
	if hashes == nil {
		hashes = []string{}
	}
	releases, err := s.store.ListReleases(library.ReleaseFilter{TorrentHashes: hashes})
	if err != nil {
		return res, err
	}

	// One statement per release: an abort keeps the releases already written.
	for _, r := range releases {
		st, ok := stats[r.TorrentHash]
		if !ok {
			continue
		}
		raw, err := json.Marshal(st)
		if err != nil {
			return res, fmt.Errorf("encode stats of %q: %w", r.Name, err)
		}
		finished := st.Finished()
		err = s.store.UpdateTorrentStats(r.Name, finished, string(raw))
		if errors.Is(err, library.ErrNotFound) {
			s.log.Debug("release deleted during stats import", "release", r.Name)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Updated++
		if finished {
			res.Finished++
		}
		if finished && !r.TorrentIsFinished {
			s.log.Info("release finished", "release", r.Name)
		}
	}
	s.log.Debug("torrent stats imported", "torrents", len(stats), "updated", res.Updated, "finished", res.Finished)
	return res, nil
}
