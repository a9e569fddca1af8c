package tvdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTVDB creates a test server that simulates the TVDB API.
func mockTVDB(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check for handler by path
		if handler, ok := handlers[r.URL.Path]; ok {
			handler(w, r)
			return
		}
		// Default: 404
		w.WriteHeader(http.StatusNotFound)
	}))
}

// writeJSON is a test helper that writes JSON response and panics on error.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test: failed to encode JSON: " + err.Error())
	}
}

// loginHandler returns a handler that validates API key and returns a token.
func loginHandler(validAPIKey, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			APIKey string `json:"apikey"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if body.APIKey != validAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, loginResponse{
			Status: "success",
			Data: struct {
				Token string `json:"token"`
			}{Token: token},
		})
	}
}

// requireAuth wraps a handler with token validation.
func requireAuth(validToken string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}
}

func extendedHandler(payload map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("meta") != "translations" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, map[string]any{"status": "success", "data": payload})
	}
}

func frierenPayload() map[string]any {
	return map[string]any{
		"id":              424536,
		"name":            "葬送のフリーレン",
		"image":           "https://artworks.thetvdb.com/banners/frieren.jpg",
		"firstAired":      "2023-09-29",
		"year":            "2023",
		"originalCountry": "jpn",
		"overview":        "original overview",
		"status":          map[string]any{"name": "Continuing"},
		"genres":          []map[string]any{{"name": "Anime"}, {"name": "Fantasy"}},
		"aliases": []map[string]any{
			{"language": "eng", "name": "Frieren"},
			{"language": "deu", "name": "Frieren - Nach dem Ende der Reise"},
		},
		"translations": map[string]any{
			"nameTranslations": []map[string]any{
				{"language": "eng", "name": "Frieren: Beyond Journey's End"},
				{"language": "rus", "name": "Провожающая в последний путь Фрирен"},
			},
			"overviewTranslations": []map[string]any{
				{"language": "eng", "overview": "english overview"},
			},
		},
	}
}

func TestNew(t *testing.T) {
	client := New("test-api-key")
	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, "eng", client.language)
	assert.NotNil(t, client.httpClient)
}

func TestNew_WithOptions(t *testing.T) {
	customHTTP := &http.Client{Timeout: 5 * time.Second}

	client := New("test-key",
		WithBaseURL("https://custom.url"),
		WithHTTPClient(customHTTP),
		WithLanguage("rus"),
	)

	assert.Equal(t, "https://custom.url", client.baseURL)
	assert.Same(t, customHTTP, client.httpClient)
	assert.Equal(t, "rus", client.language)
}

func TestLogin_Success(t *testing.T) {
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("valid-key", "jwt-token-123"),
	})
	defer server.Close()

	client := New("valid-key", WithBaseURL(server.URL))
	err := client.login(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "jwt-token-123", client.token)
}

func TestLogin_InvalidAPIKey(t *testing.T) {
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("valid-key", "jwt-token-123"),
	})
	defer server.Close()

	client := New("wrong-key", WithBaseURL(server.URL))
	err := client.login(context.Background())

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetSeries_PreferredLanguage(t *testing.T) {
	const token = "test-token"
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login":                   loginHandler("api-key", token),
		"/series/424536/extended": requireAuth(token, extendedHandler(frierenPayload())),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL), WithLanguage("rus"))
	series, err := client.GetSeries(context.Background(), 424536)
	require.NoError(t, err)

	assert.Equal(t, 424536, series.ID)
	assert.Equal(t, "Провожающая в последний путь Фрирен", series.Title)
	assert.Equal(t, "Frieren: Beyond Journey's End", series.TitleEnglish)
	assert.Equal(t, "葬送のフリーレン", series.OriginalName)
	assert.Equal(t, 2023, series.Year)
	assert.Equal(t, "jpn", series.Country)
	assert.Equal(t, "Continuing", series.Status)
	assert.Equal(t, "english overview", series.Overview, "falls back to English overview")
	assert.Equal(t, "https://artworks.thetvdb.com/banners/frieren.jpg", series.ImageURL)
	assert.Equal(t, []string{"Anime", "Fantasy"}, series.Genres)
	assert.Equal(t, []string{"Frieren"}, series.Aliases)
}

func TestGetSeries_FallsBackToOriginalName(t *testing.T) {
	const token = "test-token"
	payload := frierenPayload()
	payload["translations"] = map[string]any{}
	payload["year"] = ""
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login":                   loginHandler("api-key", token),
		"/series/424536/extended": requireAuth(token, extendedHandler(payload)),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL), WithLanguage("rus"))
	series, err := client.GetSeries(context.Background(), 424536)
	require.NoError(t, err)

	assert.Equal(t, "葬送のフリーレン", series.Title)
	assert.Empty(t, series.TitleEnglish)
	assert.Equal(t, "original overview", series.Overview)
	assert.Equal(t, 2023, series.Year, "year parsed from firstAired")
}

func TestGetSeries_NotFound(t *testing.T) {
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", "token"),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	_, err := client.GetSeries(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSeries_RateLimited(t *testing.T) {
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", "token"),
		"/series/1/extended": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	_, err := client.GetSeries(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestTokenRefresh_OnExpiry(t *testing.T) {
	var logins atomic.Int32
	var calls atomic.Int32
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": func(w http.ResponseWriter, r *http.Request) {
			n := logins.Add(1)
			writeJSON(w, map[string]any{"data": map[string]any{"token": "token-" + string(rune('0'+n))}})
		},
		"/series/424536/extended": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.Header.Get("Authorization") != "Bearer token-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			extendedHandler(frierenPayload())(w, r)
		},
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	series, err := client.GetSeries(context.Background(), 424536)
	require.NoError(t, err)

	assert.Equal(t, "Frieren: Beyond Journey's End", series.Title)
	assert.Equal(t, int32(2), logins.Load())
	assert.Equal(t, int32(2), calls.Load())
}

func TestContextCancellation(t *testing.T) {
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", "token"),
	})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New("api-key", WithBaseURL(server.URL))
	_, err := client.GetSeries(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeries_Titles(t *testing.T) {
	s := Series{Title: "A", TitleEnglish: "B", OriginalName: "A", Aliases: []string{"C", "", "B"}}
	assert.Equal(t, []string{"A", "B", "C"}, s.Titles())
}
