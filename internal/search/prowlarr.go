package search

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// maxTorrentSize bounds a .torrent download.
const maxTorrentSize = 32 << 20

// prowlarrRelease is the JSON shape of a Prowlarr search result.
type prowlarrRelease struct {
	GUID        string `json:"guid"`
	Age         int    `json:"age"`
	Grabs       int    `json:"grabs"`
	InfoURL     string `json:"infoUrl"`
	Size        int64  `json:"size"`
	Title       string `json:"title"`
	Indexer     string `json:"indexer"`
	IndexerID   int    `json:"indexerId"`
	Seeders     int    `json:"seeders"`
	Leechers    int    `json:"leechers"`
	DownloadURL string `json:"downloadUrl"`
}

// ProwlarrClient is an HTTP client for the Prowlarr API.
type ProwlarrClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProwlarrClient creates a new Prowlarr API client. baseURL is the
// Prowlarr root, for example "http://prowlarr:9696".
func NewProwlarrClient(baseURL, apiKey string, log *slog.Logger) *ProwlarrClient {
	if log == nil {
		log = slog.Default()
	}
	return &ProwlarrClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			// searches fan out to every indexer
			Timeout: 60 * time.Second,
		},
		log: log.With("component", "prowlarr"),
	}
}

// Search queries every enabled indexer. Results without a download URL are
// dropped; the rest are ordered newest first.
func (c *ProwlarrClient) Search(ctx context.Context, query string) ([]Result, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "search")

	resp, err := c.get(ctx, c.baseURL+"/api/v1/search?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var releases []prowlarrRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]Result, 0, len(releases))
	for _, r := range releases {
		if r.DownloadURL == "" {
			continue
		}
		results = append(results, Result{
			GUID:        r.GUID,
			Age:         r.Age,
			Grabs:       r.Grabs,
			InfoURL:     r.InfoURL,
			Size:        r.Size,
			Title:       r.Title,
			Indexer:     r.Indexer,
			IndexerID:   r.IndexerID,
			Seeders:     r.Seeders,
			Leechers:    r.Leechers,
			DownloadURL: r.DownloadURL,
		})
	}
	slices.SortStableFunc(results, func(a, b Result) int { return cmp.Compare(a.Age, b.Age) })

	c.log.Debug("search completed", "query", query, "results", len(results),
		"dropped", len(releases)-len(results), "duration_ms", time.Since(start).Milliseconds())
	return results, nil
}

// GetTorrent downloads a .torrent through Prowlarr and parses it. The raw
// payload is returned for submission to the torrent client.
func (c *ProwlarrClient) GetTorrent(ctx context.Context, downloadURL string) (*TorrentMeta, []byte, error) {
	target := downloadURL
	if strings.HasPrefix(downloadURL, "/") {
		target = c.baseURL + downloadURL
	}

	resp, err := c.get(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkResponse(resp); err != nil {
		return nil, nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTorrentSize))
	if err != nil {
		return nil, nil, fmt.Errorf("read torrent: %w", err)
	}
	meta, err := ParseTorrent(data)
	if err != nil {
		return nil, nil, err
	}

	c.log.Debug("fetched torrent", "name", meta.Name, "info_hash", meta.InfoHash, "files", len(meta.Files))
	return meta, data, nil
}

func (c *ProwlarrClient) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProwlarrUnavailable, err)
	}
	return resp, nil
}

// checkResponse maps Prowlarr error statuses to sentinel errors.
func checkResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidAPIKey
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	msg := strings.TrimSpace(string(body))
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "indexer") {
		return fmt.Errorf("%w: %s", ErrNoIndexers, msg)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: HTTP %d: %s", ErrProwlarrUnavailable, resp.StatusCode, msg)
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, msg)
}
