package library

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/pkg/sonarr"
	"github.com/vmunix/arrfill/pkg/tvdb"
)

// Show is a Sonarr series with missing seasons. Catalog and Sonarr metadata
// are cached as raw JSON captured when the show was first seen; decode them
// with CatalogSeries and PVRSeries.
type Show struct {
	ID               int64
	SonarrID         int
	SonarrDataRaw    string
	TVDBDataRaw      string
	IsMissing        bool
	MissingSeasons   []int // sorted, unique
	Search           string
	SearchResultsRaw string
	AddedAt          time.Time
	UpdatedAt        time.Time
}

// PVRSeries decodes the cached Sonarr series.
func (s *Show) PVRSeries() (sonarr.Series, error) {
	var series sonarr.Series
	if err := decodeRaw(s.SonarrDataRaw, &series); err != nil {
		return sonarr.Series{}, fmt.Errorf("show %d sonarr data: %w", s.ID, err)
	}
	return series, nil
}

// CatalogSeries decodes the cached TVDB series.
func (s *Show) CatalogSeries() (tvdb.Series, error) {
	var series tvdb.Series
	if err := decodeRaw(s.TVDBDataRaw, &series); err != nil {
		return tvdb.Series{}, fmt.Errorf("show %d tvdb data: %w", s.ID, err)
	}
	return series, nil
}

// SearchResults decodes the results of the show's last search.
func (s *Show) SearchResults() ([]search.Result, error) {
	var results []search.Result
	if err := decodeRaw(s.SearchResultsRaw, &results); err != nil {
		return nil, fmt.Errorf("show %d search results: %w", s.ID, err)
	}
	return results, nil
}

// IsSeasonMissing reports whether season is among the missing seasons.
func (s *Show) IsSeasonMissing(season int) bool {
	return slices.Contains(s.MissingSeasons, season)
}

// Title returns the catalog title, falling back to the Sonarr title.
func (s *Show) Title() string {
	if c, err := s.CatalogSeries(); err == nil && c.Title != "" {
		return c.Title
	}
	if p, err := s.PVRSeries(); err == nil {
		return p.Title
	}
	return ""
}

// ShowFilter specifies criteria for listing shows.
type ShowFilter struct {
	Missing *bool
}

const showColumns = `id, sonarr_id, sonarr_data, tvdb_data, is_missing, missing_seasons,
	search, search_results, added_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (*Show, error) {
	s := &Show{}
	var seasons string
	if err := row.Scan(&s.ID, &s.SonarrID, &s.SonarrDataRaw, &s.TVDBDataRaw, &s.IsMissing, &seasons,
		&s.Search, &s.SearchResultsRaw, &s.AddedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeRaw(seasons, &s.MissingSeasons); err != nil {
		return nil, fmt.Errorf("show %d missing seasons: %w", s.ID, err)
	}
	return s, nil
}

func addShow(q querier, s *Show) error {
	seasons, err := encodeSeasons(s.MissingSeasons)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	result, err := q.Exec(`
		INSERT INTO shows (sonarr_id, sonarr_data, tvdb_data, is_missing, missing_seasons, search, search_results, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SonarrID, orEmptyJSON(s.SonarrDataRaw, "{}"), orEmptyJSON(s.TVDBDataRaw, "{}"), s.IsMissing, seasons,
		s.Search, orEmptyJSON(s.SearchResultsRaw, "[]"), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert show: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	s.ID = id
	s.AddedAt = now
	s.UpdatedAt = now
	return nil
}

// AddShow inserts a new show. Sets ID, AddedAt, and UpdatedAt.
// Returns ErrDuplicate if a show with the same Sonarr id exists.
func (s *Store) AddShow(show *Show) error { return addShow(s.db, show) }

// AddShow inserts a new show within a transaction.
func (t *Tx) AddShow(show *Show) error { return addShow(t.tx, show) }

func getShow(q querier, id int64) (*Show, error) {
	s, err := scanShow(q.QueryRow("SELECT "+showColumns+" FROM shows WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get show %d: %w", id, mapSQLiteError(err))
	}
	return s, nil
}

// GetShow retrieves a show by ID.
// Returns ErrNotFound if the show does not exist.
func (s *Store) GetShow(id int64) (*Show, error) { return getShow(s.db, id) }

// GetShow retrieves a show by ID within a transaction.
func (t *Tx) GetShow(id int64) (*Show, error) { return getShow(t.tx, id) }

func getShowBySonarrID(q querier, sonarrID int) (*Show, error) {
	s, err := scanShow(q.QueryRow("SELECT "+showColumns+" FROM shows WHERE sonarr_id = ?", sonarrID))
	if err != nil {
		return nil, fmt.Errorf("get show by sonarr id %d: %w", sonarrID, mapSQLiteError(err))
	}
	return s, nil
}

// GetShowBySonarrID retrieves a show by its Sonarr series id.
// Returns ErrNotFound if the show does not exist.
func (s *Store) GetShowBySonarrID(sonarrID int) (*Show, error) { return getShowBySonarrID(s.db, sonarrID) }

// GetShowBySonarrID retrieves a show by its Sonarr series id within a transaction.
func (t *Tx) GetShowBySonarrID(sonarrID int) (*Show, error) { return getShowBySonarrID(t.tx, sonarrID) }

func listShows(q querier, f ShowFilter) ([]*Show, error) {
	query := "SELECT " + showColumns + " FROM shows"
	var args []any
	if f.Missing != nil {
		query += " WHERE is_missing = ?"
		args = append(args, *f.Missing)
	}
	query += " ORDER BY id"

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Show
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return results, nil
}

// ListShows returns shows matching the filter, ordered by ID.
func (s *Store) ListShows(f ShowFilter) ([]*Show, error) { return listShows(s.db, f) }

// ListShows returns shows matching the filter within a transaction.
func (t *Tx) ListShows(f ShowFilter) ([]*Show, error) { return listShows(t.tx, f) }

func execOne(q querier, what string, query string, args ...any) error {
	result, err := q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func saveSearch(q querier, id int64, query string, results []search.Result) error {
	if results == nil {
		results = []search.Result{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode search results: %w", err)
	}
	return execOne(q, fmt.Sprintf("save search of show %d", id),
		"UPDATE shows SET search = ?, search_results = ?, updated_at = ? WHERE id = ?",
		query, string(raw), time.Now().UTC(), id)
}

// SaveSearch stores the query and results of the show's latest search.
// Returns ErrNotFound if the show does not exist.
func (s *Store) SaveSearch(id int64, query string, results []search.Result) error {
	return saveSearch(s.db, id, query, results)
}

// SaveSearch stores the show's latest search within a transaction.
func (t *Tx) SaveSearch(id int64, query string, results []search.Result) error {
	return saveSearch(t.tx, id, query, results)
}

func markMissing(q querier, id int64, seasons []int) error {
	raw, err := encodeSeasons(seasons)
	if err != nil {
		return err
	}
	return execOne(q, fmt.Sprintf("mark show %d missing", id),
		"UPDATE shows SET is_missing = 1, missing_seasons = ?, updated_at = ? WHERE id = ?",
		raw, time.Now().UTC(), id)
}

// MarkMissing flags the show as missing the given seasons.
// Returns ErrNotFound if the show does not exist.
func (s *Store) MarkMissing(id int64, seasons []int) error { return markMissing(s.db, id, seasons) }

// MarkMissing flags the show as missing within a transaction.
func (t *Tx) MarkMissing(id int64, seasons []int) error { return markMissing(t.tx, id, seasons) }

func unflagAllMissing(q querier) (int64, error) {
	result, err := q.Exec(`UPDATE shows SET is_missing = 0, missing_seasons = '[]', updated_at = ? WHERE is_missing = 1 OR missing_seasons != '[]'`,
		time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("unflag missing shows: %w", err)
	}
	return result.RowsAffected()
}

// UnflagAllMissing clears the missing flag and seasons of every show.
// Returns the number of shows changed.
func (s *Store) UnflagAllMissing() (int64, error) { return unflagAllMissing(s.db) }

// UnflagAllMissing clears every missing flag within a transaction.
func (t *Tx) UnflagAllMissing() (int64, error) { return unflagAllMissing(t.tx) }

func encodeSeasons(seasons []int) (string, error) {
	sorted := slices.Clone(seasons)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	if sorted == nil {
		sorted = []int{}
	}
	raw, err := json.Marshal(sorted)
	if err != nil {
		return "", fmt.Errorf("encode missing seasons: %w", err)
	}
	return string(raw), nil
}

func decodeRaw(raw string, v any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func orEmptyJSON(raw, empty string) string {
	if raw == "" {
		return empty
	}
	return raw
}

func updateSonarrData(q querier, id int64, raw string) error {
	return execOne(q, fmt.Sprintf("update sonarr data of show %d", id),
		"UPDATE shows SET sonarr_data = ?, updated_at = ? WHERE id = ?",
		orEmptyJSON(raw, "{}"), time.Now().UTC(), id)
}

// UpdateSonarrData replaces the cached Sonarr series.
// Returns ErrNotFound if the show does not exist.
func (s *Store) UpdateSonarrData(id int64, raw string) error { return updateSonarrData(s.db, id, raw) }

// UpdateSonarrData replaces the cached Sonarr series within a transaction.
func (t *Tx) UpdateSonarrData(id int64, raw string) error { return updateSonarrData(t.tx, id, raw) }
