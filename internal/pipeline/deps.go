// Package pipeline implements the release lifecycle: search, grab, torrent
// stats import, export to Sonarr, re-grab of outdated releases, and the
// missing-series sync.
package pipeline

import (
	"context"

	"github.com/vmunix/arrfill/internal/download"
	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/pkg/sonarr"
	"github.com/vmunix/arrfill/pkg/tvdb"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vmunix/arrfill/internal/pipeline Catalog,SeriesManager,Indexer,TorrentClient

// Catalog looks up series metadata (TVDB).
type Catalog interface {
	GetSeries(ctx context.Context, id int) (*tvdb.Series, error)
}

// SeriesManager is the PVR that owns the library (Sonarr).
type SeriesManager interface {
	GetMissing(ctx context.Context) ([]sonarr.MissingSeries, error)
	GetSeries(ctx context.Context, id int) (*sonarr.Series, error)
	ManualImport(ctx context.Context, files []sonarr.ImportFile) error
}

// Indexer searches releases and serves their torrent files (Prowlarr).
type Indexer interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
	GetTorrent(ctx context.Context, downloadURL string) (*search.TorrentMeta, []byte, error)
}

// TorrentClient downloads torrents (qBittorrent).
type TorrentClient interface {
	AddTorrent(ctx context.Context, raw []byte) error
	Properties(ctx context.Context, hash string) (*download.Properties, error)
	Stats(ctx context.Context) (map[string]download.TorrentStats, error)
}
