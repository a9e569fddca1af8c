package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/matching"
	"github.com/vmunix/arrfill/internal/search"
)

// ReGrabResult counts the outcome of a re-grab run.
type ReGrabResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ReGrabber replaces releases of still-missing seasons with the indexer's
// current torrent for the same listing.
type ReGrabber struct {
	store    *library.Store
	indexer  Indexer
	torrents TorrentClient
	log      *slog.Logger
}

// NewReGrabber creates a re-grabber.
func NewReGrabber(store *library.Store, indexer Indexer, torrents TorrentClient, log *slog.Logger) *ReGrabber {
	return &ReGrabber{store: store, indexer: indexer, torrents: torrents, log: componentLogger(log, "regrab")}
}

// ReGrab checks every outdated release. A failure is logged and counted and
// the run moves on to the next release; only a failure to list the
// releases or a cancelled context is returned.
func (g *ReGrabber) ReGrab(ctx context.Context) (ReGrabResult, error) {
	var res ReGrabResult

	releases, err := g.store.ListOutdatedReleases()
	if err != nil {
		return res, err
	}

	for _, r := range releases {
		res.Checked++
		updated, err := g.regrab(ctx, r)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			g.log.Error("re-grab failed", "release", r.Name, "error", err)
			res.Failed++
		case updated:
			res.Updated++
		default:
			res.Skipped++
		}
	}
	return res, nil
}

func (g *ReGrabber) regrab(ctx context.Context, r *library.Release) (bool, error) {
	log := g.log.With("release", r.Name, "show_id", r.ShowID)

	results, err := g.indexer.Search(ctx, r.Search)
	if err != nil {
		return false, fmt.Errorf("search %q: %w", r.Search, err)
	}
	result, ok, err := search.FindByPK(results, r.SearchResultPK)
	if err != nil {
		return false, err
	}
	if !ok {
		log.Warn("release is no longer listed", "pk", r.SearchResultPK)
		return false, nil
	}

	meta, raw, err := g.indexer.GetTorrent(ctx, result.DownloadURL)
	if err != nil {
		return false, fmt.Errorf("fetch torrent: %w", err)
	}
	if strings.EqualFold(meta.InfoHash, r.TorrentHash) {
		log.Debug("release is up to date")
		return false, nil
	}

	kept, added := matching.Merge(r.FileMatchings, meta.FileNames())
	if len(added) == 0 {
		log.Info("updated torrent has no new files")
	}
	merged := append(append([]*library.FileMatching{}, kept...), added...)
	matching.Autocomplete(merged)

	if err := g.torrents.AddTorrent(ctx, raw); err != nil {
		return false, fmt.Errorf("add torrent %s: %w", meta.InfoHash, err)
	}
	props, err := g.torrents.Properties(ctx, meta.InfoHash)
	if err != nil {
		return false, fmt.Errorf("torrent properties %s: %w", meta.InfoHash, err)
	}
	propsRaw, err := json.Marshal(props)
	if err != nil {
		return false, fmt.Errorf("encode torrent properties: %w", err)
	}

	oldName := r.Name
	replaced := &library.Release{
		Name:           props.Name,
		ShowID:         r.ShowID,
		TorrentHash:    meta.InfoHash,
		TorrentDataRaw: string(propsRaw),
	}
	err = g.store.InTx(func(tx *library.Tx) error {
		if err := tx.ReplaceTorrent(oldName, replaced); err != nil {
			return err
		}
		for _, m := range kept {
			if err := tx.UpdateFileMatching(m); err != nil {
				return err
			}
		}
		return tx.SaveFileMatchings(replaced.Name, r.ShowID, added)
	})
	if err != nil {
		return false, err
	}

	log.Info("release re-grabbed", "new_name", replaced.Name, "hash", replaced.TorrentHash, "new_files", len(added))
	return true, nil
}
