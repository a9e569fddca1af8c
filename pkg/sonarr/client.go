package sonarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for Sonarr API responses.
var (
	ErrNotFound     = errors.New("sonarr: not found")
	ErrUnauthorized = errors.New("sonarr: invalid API key")
	ErrUnavailable  = errors.New("sonarr: service unavailable")

	// ErrManualImport means Sonarr refused a manual import batch, usually
	// because a file is not at its final path yet.
	ErrManualImport = errors.New("sonarr: manual import rejected")
)

const missingPageSize = 1000

// Client is a Sonarr v3 API client.
type Client struct {
	baseURL    string
	apiKey     string
	language   Language
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "sonarr")
	}
}

// WithImportLanguage sets the language attached to imported files.
func WithImportLanguage(lang Language) Option {
	return func(c *Client) {
		if lang.Name != "" {
			c.language = lang
		}
	}
}

// New creates a Sonarr client. baseURL includes the API prefix, for
// example "http://sonarr:8989/api/v3".
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		language: Language{ID: 11, Name: "Russian"},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMissing returns every series with monitored missing episodes, with the
// affected season numbers aggregated per series. All pages are read.
func (c *Client) GetMissing(ctx context.Context) ([]MissingSeries, error) {
	byID := make(map[int]*MissingSeries)
	var order []int
	records := 0

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(missingPageSize))
		params.Set("includeSeries", "true")
		params.Set("includeImages", "false")
		params.Set("monitored", "true")

		var resp missingResponse
		if err := c.do(ctx, http.MethodGet, "/wanted/missing?"+params.Encode(), nil, &resp); err != nil {
			return nil, fmt.Errorf("get missing page %d: %w", page, err)
		}

		for _, rec := range resp.Records {
			m, ok := byID[rec.SeriesID]
			if !ok {
				m = &MissingSeries{ID: rec.SeriesID, TVDBID: rec.Series.TVDBID}
				byID[rec.SeriesID] = m
				order = append(order, rec.SeriesID)
			}
			if !slices.Contains(m.SeasonNumbers, rec.SeasonNumber) {
				m.SeasonNumbers = append(m.SeasonNumbers, rec.SeasonNumber)
			}
		}
		records += len(resp.Records)

		pageSize := resp.PageSize
		if pageSize <= 0 {
			pageSize = missingPageSize
		}
		if len(resp.Records) == 0 || page*pageSize >= resp.TotalRecords {
			break
		}
	}

	result := make([]MissingSeries, 0, len(order))
	for _, id := range order {
		m := byID[id]
		slices.Sort(m.SeasonNumbers)
		result = append(result, *m)
	}

	if c.log != nil {
		c.log.Debug("fetched missing", "records", records, "series", len(result))
	}
	return result, nil
}

// GetSeries fetches a series and the episode list of each of its seasons.
func (c *Client) GetSeries(ctx context.Context, id int) (*Series, error) {
	var sr seriesResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/series/%d?includeSeasonImages=false", id), nil, &sr); err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, err)
	}

	series := &Series{ID: sr.ID, Title: sr.Title, Path: sr.Path, TVDBID: sr.TVDBID}
	for _, s := range sr.Seasons {
		var eps []episodeResponse
		endpoint := fmt.Sprintf("/episode?seriesId=%d&seasonNumber=%d", id, s.SeasonNumber)
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &eps); err != nil {
			return nil, fmt.Errorf("get episodes of series %d season %d: %w", id, s.SeasonNumber, err)
		}

		season := Season{
			SeasonNumber:       s.SeasonNumber,
			EpisodeFileCount:   s.Statistics.EpisodeFileCount,
			EpisodeCount:       s.Statistics.EpisodeCount,
			TotalEpisodesCount: s.Statistics.TotalEpisodeCount,
			PreviousAiring:     s.Statistics.PreviousAiring,
			Episodes:           make([]Episode, 0, len(eps)),
		}
		for _, ep := range eps {
			season.Episodes = append(season.Episodes, Episode{ID: ep.ID, EpisodeNumber: ep.EpisodeNumber})
		}
		series.Seasons = append(series.Seasons, season)
	}
	return series, nil
}

// ManualImport asks Sonarr to validate the files and then queues a copy
// import for them. Any rejection is reported as ErrManualImport; transport
// failures are returned as is.
func (c *Client) ManualImport(ctx context.Context, files []ImportFile) error {
	reqFiles := make([]importRequestFile, 0, len(files))
	for _, f := range files {
		reqFiles = append(reqFiles, c.importRequestFile(f))
	}

	// POST /manualImport fails with 500 when a file does not exist yet.
	if err := c.do(ctx, http.MethodPost, "/manualImport", reqFiles, nil); err != nil {
		return importError("check", err)
	}
	cmd := importCommand{Name: "ManualImport", ImportMode: "copy", Files: reqFiles}
	if err := c.do(ctx, http.MethodPost, "/command", cmd, nil); err != nil {
		return importError("command", err)
	}

	if c.log != nil {
		c.log.Info("manual import queued", "files", len(files))
	}
	return nil
}

func importError(step string, err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return fmt.Errorf("manual import %s: %w: %s", step, ErrManualImport, se)
	}
	return fmt.Errorf("manual import %s: %w", step, err)
}

func (c *Client) importRequestFile(f ImportFile) importRequestFile {
	rf := importRequestFile{
		EpisodeIDs:   f.EpisodeIDs,
		IndexerFlags: f.IndexerFlags,
		Languages:    []Language{c.language},
		Path:         f.Path,
		ReleaseType:  f.ReleaseType,
		SeriesID:     f.SeriesID,
	}
	if rf.ReleaseType == "" {
		rf.ReleaseType = "singleEpisode"
	}
	rf.Quality.Quality.ID = 9
	rf.Quality.Quality.Name = "HDTV-1080p"
	rf.Quality.Quality.Source = "television"
	rf.Quality.Quality.Resolution = 1080
	rf.Quality.Revision.Version = 1
	return rf
}

// statusError carries an unexpected HTTP status and a snippet of the body.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, e.body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
