package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/arrfill/internal/logging"
	"github.com/vmunix/arrfill/internal/pipeline"
	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/internal/server"
)

// Client wraps HTTP calls to the arrfill server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new arrfill API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			// Searches and grabs wait on Prowlarr and qBittorrent.
			Timeout: 2 * time.Minute,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *Client) do(method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			apiErr.Code, apiErr.Message = envelope.Code, envelope.Error
		}
		return apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func releasePath(showID int64, name, suffix string) string {
	return fmt.Sprintf("/api/v1/shows/%d/releases/%s/%s", showID, url.PathEscape(name), suffix)
}

// API response types (mirror server types)

type StatusResponse struct {
	Version       string            `json:"version"`
	Shows         int               `json:"shows"`
	MissingShows  int               `json:"missing_shows"`
	Releases      int               `json:"releases"`
	Downloading   int               `json:"downloading"`
	PendingExport int               `json:"pending_export"`
	Sync          server.SyncStatus `json:"sync"`
}

type ShowResponse struct {
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

type ListShowsResponse struct {
	Items []ShowResponse `json:"items"`
	Total int            `json:"total"`
}

type SeasonResponse struct {
	SeasonNumber       int  `json:"season_number"`
	EpisodeFileCount   int  `json:"episode_file_count"`
	EpisodeCount       int  `json:"episode_count"`
	TotalEpisodesCount int  `json:"total_episodes_count"`
	Missing            bool `json:"missing"`
}

type ShowDetailResponse struct {
	ShowResponse
	Overview      string            `json:"overview,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
	Seasons       []SeasonResponse  `json:"seasons"`
	Releases      []ReleaseResponse `json:"releases"`
	SearchResults []SearchResult    `json:"search_results"`
}

type MatchingResponse struct {
	ID            int64  `json:"id"`
	FileName      string `json:"file_name"`
	SeasonNumber  *int   `json:"season_number"`
	EpisodeNumber *int   `json:"episode_number"`
}

type ReleaseResponse struct {
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
	Matchings               []MatchingResponse `json:"matchings"`
}

type SearchResult struct {
	search.Result
	Key      string `json:"pk,omitempty"`
	KeyError string `json:"pk_error,omitempty"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

type MatchingsResponse struct {
	Items []MatchingResponse `json:"items"`
}

type SyncTriggerResponse struct {
	Triggered bool              `json:"triggered"`
	Status    server.SyncStatus `json:"status"`
}

type LogsResponse struct {
	Items []logging.Entry `json:"items"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(http.MethodGet, "/api/v1/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Shows(missing *bool) (*ListShowsResponse, error) {
	path := "/api/v1/shows"
	if missing != nil {
		path += "?missing=" + strconv.FormatBool(*missing)
	}
	var resp ListShowsResponse
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Show(id int64) (*ShowDetailResponse, error) {
	var resp ShowDetailResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/shows/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(showID int64, query string) (*SearchResponse, error) {
	var resp SearchResponse
	body := map[string]string{"query": query}
	if err := c.do(http.MethodPost, fmt.Sprintf("/api/v1/shows/%d/search", showID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Grab(showID int64, pk string) (*ReleaseResponse, error) {
	var resp ReleaseResponse
	body := map[string]string{"pk": pk}
	if err := c.do(http.MethodPost, fmt.Sprintf("/api/v1/shows/%d/grab", showID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateMatchings(showID int64, name string, updates []pipeline.MatchingUpdate) (*MatchingsResponse, error) {
	var resp MatchingsResponse
	if err := c.do(http.MethodPut, releasePath(showID, name, "matchings"), updates, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DetectMatchings(showID int64, name string) (*MatchingsResponse, error) {
	var resp MatchingsResponse
	if err := c.do(http.MethodPost, releasePath(showID, name, "detect"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteRelease(name string) error {
	return c.do(http.MethodDelete, "/api/v1/releases/"+url.PathEscape(name), nil, nil)
}

func (c *Client) TriggerSync() (*SyncTriggerResponse, error) {
	var resp SyncTriggerResponse
	if err := c.do(http.MethodPost, "/api/v1/sync", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SyncStatus() (*server.SyncStatus, error) {
	var resp server.SyncStatus
	if err := c.do(http.MethodGet, "/api/v1/sync", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logs(limit int) (*LogsResponse, error) {
	var resp LogsResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/logs?limit=%d", limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
