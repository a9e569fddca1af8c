package v1

import (
	"time"

	"github.com/vmunix/arrfill/internal/logging"
	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/internal/server"
)

// statusResponse is the response for GET /status.
type statusResponse struct {
	Version       string            `json:"version"`
	Shows         int               `json:"shows"`
	MissingShows  int               `json:"missing_shows"`
	Releases      int               `json:"releases"`
	Downloading   int               `json:"downloading"`
	PendingExport int               `json:"pending_export"`
	Sync          server.SyncStatus `json:"sync"`
}

// showResponse is the API representation of a show.
type showResponse struct {
	ID             int64     `json:"id"`
	SonarrID       int       `json:"sonarr_id"`
	TVDBID         int       `json:"tvdb_id"`
	Title          string    `json:"title"`
	Year           int       `json:"year,omitempty"`
	IsMissing      bool      `json:"is_missing"`
	MissingSeasons []int     `json:"missing_seasons"`
	Search         string    `json:"search"`
	AddedAt        time.Time `json:"added_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type listShowsResponse struct {
	Items []showResponse `json:"items"`
	Total int            `json:"total"`
}

type seasonResponse struct {
	SeasonNumber       int  `json:"season_number"`
	EpisodeFileCount   int  `json:"episode_file_count"`
	EpisodeCount       int  `json:"episode_count"`
	TotalEpisodesCount int  `json:"total_episodes_count"`
	Missing            bool `json:"missing"`
}

// showDetailResponse is the response for GET /shows/{id}.
type showDetailResponse struct {
	showResponse
	Overview      string                 `json:"overview,omitempty"`
	ImageURL      string                 `json:"image_url,omitempty"`
	Seasons       []seasonResponse       `json:"seasons"`
	Releases      []releaseResponse      `json:"releases"`
	SearchResults []searchResultResponse `json:"search_results"`
}

type matchingResponse struct {
	ID            int64  `json:"id"`
	FileName      string `json:"file_name"`
	SeasonNumber  *int   `json:"season_number"`
	EpisodeNumber *int   `json:"episode_number"`
}

type releaseResponse struct {
	Name                    string             `json:"name"`
	ShowID                  int64              `json:"show_id"`
	Title                   string             `json:"title"`
	Indexer                 string             `json:"indexer"`
	SearchResultPK          string             `json:"search_result_pk"`
	TorrentHash             string             `json:"torrent_hash"`
	Finished                bool               `json:"finished"`
	Progress                float64            `json:"progress"`
	ExportFailures          int                `json:"export_failures"`
	LastExportedTorrentHash *string            `json:"last_exported_torrent_hash"`
	UpdatedAt               time.Time          `json:"updated_at"`
	Matchings               []matchingResponse `json:"matchings"`
}

type searchRequest struct {
	Query string `json:"query"`
}

// searchResultResponse is a search result with the key to grab it by.
// KeyError is set instead of Key when the key cannot be computed.
type searchResultResponse struct {
	search.Result
	Key      string `json:"pk,omitempty"`
	KeyError string `json:"pk_error,omitempty"`
}

type searchResponse struct {
	Query   string                 `json:"query"`
	Results []searchResultResponse `json:"results"`
}

type grabRequest struct {
	PK string `json:"pk"`
}

type matchingsResponse struct {
	Items []matchingResponse `json:"items"`
}

type syncTriggerResponse struct {
	Triggered bool              `json:"triggered"`
	Status    server.SyncStatus `json:"status"`
}

type logsResponse struct {
	Items []logging.Entry `json:"items"`
}
