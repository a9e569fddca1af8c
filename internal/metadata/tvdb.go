package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/arrfill/pkg/tvdb"
)

const (
	seriesTTL       = 7 * 24 * time.Hour
	keyPrefixSeries = "tvdb:series:"
)

// SeriesFetcher looks up catalog series. *tvdb.Client implements it.
type SeriesFetcher interface {
	GetSeries(ctx context.Context, id int) (*tvdb.Series, error)
}

// TVDBService serves catalog series from the cache, falling back to TVDB.
type TVDBService struct {
	client SeriesFetcher
	cache  *Cache
	log    *slog.Logger
}

// NewTVDBService creates a caching catalog.
func NewTVDBService(client SeriesFetcher, cache *Cache, log *slog.Logger) *TVDBService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TVDBService{client: client, cache: cache, log: log.With("component", "tvdb")}
}

// GetSeries returns the series with the given TVDB id. Cache failures are
// logged and never fail the lookup.
func (s *TVDBService) GetSeries(ctx context.Context, id int) (*tvdb.Series, error) {
	key := fmt.Sprintf("%s%d", keyPrefixSeries, id)

	if series, ok := getJSON[tvdb.Series](ctx, s.cache, key); ok {
		s.log.Debug("cache hit for series", "tvdb_id", id, "title", series.Title)
		return series, nil
	}
	s.log.Debug("cache miss for series", "tvdb_id", id)

	series, err := s.client.GetSeries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, err)
	}
	if err := setJSON(ctx, s.cache, key, series, seriesTTL); err != nil {
		s.log.Warn("failed to cache series", "tvdb_id", id, "error", err)
	}
	return series, nil
}
