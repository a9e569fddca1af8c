package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/pkg/release"
)

// Searcher queries the indexer for a show and remembers the results so a
// later grab can pick one by PK.
type Searcher struct {
	store   *library.Store
	indexer Indexer
	log     *slog.Logger
}

// NewSearcher creates a searcher.
func NewSearcher(store *library.Store, indexer Indexer, log *slog.Logger) *Searcher {
	return &Searcher{store: store, indexer: indexer, log: componentLogger(log, "searcher")}
}

// Search runs query for the show, newest results first, each annotated with
// how well its title matches the show. An empty query reuses the show's last
// search. Indexer errors are returned as is.
func (s *Searcher) Search(ctx context.Context, showID int64, query string) ([]search.Result, error) {
	show, err := s.store.GetShow(showID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		query = show.Search
	}

	found, err := s.indexer.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]search.Result, 0, len(found))
	for _, r := range found {
		if r.DownloadURL == "" {
			continue
		}
		results = append(results, r)
	}
	slices.SortStableFunc(results, func(a, b search.Result) int { return cmp.Compare(a.Age, b.Age) })

	titles := showTitles(show)
	for i := range results {
		title := release.Parse(results[i].Title).Title
		if title == "" {
			title = results[i].Title
		}
		results[i].Relevance = release.MatchTitle(title, titles).Confidence
	}

	if err := s.store.SaveSearch(showID, query, results); err != nil {
		return nil, err
	}
	s.log.Info("search completed", "show_id", showID, "query", query, "results", len(results))
	return results, nil
}

func showTitles(show *library.Show) []string {
	var titles []string
	if c, err := show.CatalogSeries(); err == nil {
		titles = c.Titles()
	}
	if p, err := show.PVRSeries(); err == nil && p.Title != "" && !slices.Contains(titles, p.Title) {
		titles = append(titles, p.Title)
	}
	return titles
}

func componentLogger(log *slog.Logger, component string) *slog.Logger {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return log.With("component", component)
}
