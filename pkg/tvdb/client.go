package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	defaultBaseURL  = "https://api4.thetvdb.com/v4"
	englishLanguage = "eng"
)

// Sentinel errors for TVDB API responses.
var (
	ErrNotFound     = errors.New("series not found")
	ErrUnauthorized = errors.New("unauthorized: invalid or expired API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// Client is a TVDB API v4 client with JWT authentication.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	log        *slog.Logger

	// JWT token management (thread-safe)
	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tvdb")
	}
}

// WithLanguage sets the preferred title/overview language as a TVDB
// three-letter code ("rus", "eng", "jpn").
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// New creates a new TVDB API v4 client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: englishLanguage,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// login authenticates with TVDB and stores the JWT token.
func (c *Client) login(ctx context.Context) error {
	jsonBody, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if loginResp.Data.Token == "" {
		return errors.New("login response missing token")
	}

	c.mu.Lock()
	c.token = loginResp.Data.Token
	c.mu.Unlock()

	if c.log != nil {
		c.log.Debug("authenticated with TVDB")
	}
	return nil
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// getJSON performs an authenticated GET and decodes the body into v.
// An expired token is refreshed once.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	if c.currentToken() == "" {
		if err := c.login(ctx); err != nil {
			return err
		}
	}

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if c.log != nil {
			c.log.Debug("token expired, refreshing")
		}
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		if err := c.login(ctx); err != nil {
			return err
		}
		if resp, err = c.get(ctx, endpoint); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.currentToken())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// GetSeries fetches the extended series record with translations and
// resolves its title and overview against the preferred language.
func (c *Client) GetSeries(ctx context.Context, id int) (*Series, error) {
	start := time.Now()

	var ext extendedResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/series/%d/extended?meta=translations", id), &ext); err != nil {
		if c.log != nil && errors.Is(err, ErrNotFound) {
			c.log.Debug("series not found", "id", id)
		}
		return nil, err
	}

	d := ext.Data
	names := translationsByLanguage(d.Translations.NameTranslations, func(t translation) string { return t.Name })
	overviews := translationsByLanguage(d.Translations.OverviewTranslations, func(t translation) string { return t.Overview })

	series := &Series{
		ID:           d.ID,
		Title:        firstNonEmpty(names[c.language], names[englishLanguage], d.Name),
		TitleEnglish: names[englishLanguage],
		OriginalName: d.Name,
		Year:         seriesYear(d.Year, d.FirstAired),
		Country:      d.OriginalCountry,
		Status:       d.Status.Name,
		Overview:     firstNonEmpty(overviews[c.language], overviews[englishLanguage], d.Overview),
		ImageURL:     d.Image,
	}
	for _, g := range d.Genres {
		series.Genres = append(series.Genres, g.Name)
	}
	for _, a := range d.Aliases {
		if a.Language == c.language || a.Language == englishLanguage {
			series.Aliases = append(series.Aliases, a.Name)
		}
	}

	if c.log != nil {
		c.log.Debug("fetched series", "id", id, "title", series.Title, "duration_ms", time.Since(start).Milliseconds())
	}
	return series, nil
}

func translationsByLanguage(ts []translation, field func(translation) string) map[string]string {
	out := make(map[string]string, len(ts))
	for _, t := range ts {
		if v := field(t); v != "" {
			out[t.Language] = v
		}
	}
	return out
}

func seriesYear(year, firstAired string) int {
	if y, err := strconv.Atoi(year); err == nil {
		return y
	}
	// firstAired is YYYY-MM-DD
	if len(firstAired) >= 4 {
		y, _ := strconv.Atoi(firstAired[:4])
		return y
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// checkResponse maps HTTP status codes to sentinel errors.
func checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVDB API error: %s", resp.Status)
	}
}
