package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/search"
)

// Grabber sends a stored search result to the torrent client and records
// it as a release.
type Grabber struct {
	store    *library.Store
	indexer  Indexer
	torrents TorrentClient
	log      *slog.Logger
}

// NewGrabber creates a grabber.
func NewGrabber(store *library.Store, indexer Indexer, torrents TorrentClient, log *slog.Logger) *Grabber {
	return &Grabber{store: store, indexer: indexer, torrents: torrents, log: componentLogger(log, "grabber")}
}

// Grab downloads the show's search result identified by pk. The release is
// named after the torrent as qBittorrent reports it and gets one unmatched
// file matching per torrent file. Nothing is stored when the torrent cannot
// be added.
func (g *Grabber) Grab(ctx context.Context, showID int64, pk string) (*library.Release, error) {
	show, err := g.store.GetShow(showID)
	if err != nil {
		return nil, err
	}
	results, err := show.SearchResults()
	if err != nil {
		return nil, err
	}
	result, ok, err := search.FindByPK(results, pk)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("search result %q of show %d: %w", pk, showID, library.ErrNotFound)
	}

	meta, raw, err := g.indexer.GetTorrent(ctx, result.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("fetch torrent: %w", err)
	}
	if err := g.torrents.AddTorrent(ctx, raw); err != nil {
		return nil, fmt.Errorf("add torrent %s: %w", meta.InfoHash, err)
	}
	props, err := g.torrents.Properties(ctx, meta.InfoHash)
	if err != nil {
		return nil, fmt.Errorf("torrent properties %s: %w", meta.InfoHash, err)
	}

	resultRaw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode search result: %w", err)
	}
	propsRaw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode torrent properties: %w", err)
	}

	rel := &library.Release{
		Name:            props.Name,
		ShowID:          showID,
		Search:          show.Search,
		SearchResultPK:  pk,
		SearchResultRaw: string(resultRaw),
		TorrentHash:     meta.InfoHash,
		TorrentDataRaw:  string(propsRaw),
	}
	for _, name := range meta.FileNames() {
		rel.FileMatchings = append(rel.FileMatchings, &library.FileMatching{FileName: name})
	}

	if err := g.store.InTx(func(tx *library.Tx) error { return tx.AddRelease(rel) }); err != nil {
		return nil, err
	}
	g.log.Info("release grabbed", "show_id", showID, "release", rel.Name, "hash", rel.TorrentHash, "files", len(rel.FileMatchings))
	return rel, nil
}
