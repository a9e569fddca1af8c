package library

import (
	"fmt"
	"strings"
	"time"

	"github.com/vmunix/arrfill/internal/download"
	"github.com/vmunix/arrfill/internal/search"
)

// MaxExportFailures is the number of rejected imports after which a release
// is no longer offered to Sonarr.
const MaxExportFailures = 5

// Release is a torrent grabbed for a show, keyed by the name qBittorrent
// reports for it.
type Release struct {
	Name            string
	ShowID          int64
	UpdatedAt       time.Time
	Search          string // query that found the release
	SearchResultPK  string // identity of the indexer result, see search.Result.PK
	SearchResultRaw string

	TorrentHash       string // v1 info-hash, lowercase hex
	TorrentDataRaw    string // download.Properties as JSON
	TorrentIsFinished bool
	TorrentStatsRaw   *string

	LastImportedFilesHash   *string
	LastExportedTorrentHash *string
	ExportFailuresCount     int

	FileMatchings []*FileMatching
}

// SearchResult decodes the indexer result the release was grabbed from.
func (r *Release) SearchResult() (search.Result, error) {
	var res search.Result
	if err := decodeRaw(r.SearchResultRaw, &res); err != nil {
		return search.Result{}, fmt.Errorf("release %q search result: %w", r.Name, err)
	}
	return res, nil
}

// Properties decodes the qBittorrent properties captured at grab time.
func (r *Release) Properties() (download.Properties, error) {
	var p download.Properties
	if err := decodeRaw(r.TorrentDataRaw, &p); err != nil {
		return download.Properties{}, fmt.Errorf("release %q torrent data: %w", r.Name, err)
	}
	return p, nil
}

// Stats decodes the last torrent stats, reporting false when none were
// imported yet.
func (r *Release) Stats() (download.TorrentStats, bool, error) {
	if r.TorrentStatsRaw == nil {
		return download.TorrentStats{}, false, nil
	}
	var s download.TorrentStats
	if err := decodeRaw(*r.TorrentStatsRaw, &s); err != nil {
		return download.TorrentStats{}, false, fmt.Errorf("release %q torrent stats: %w", r.Name, err)
	}
	return s, true, nil
}

// NeedsExport reports whether the finished torrent has not been handed to
// Sonarr yet and the retry budget is not exhausted.
func (r *Release) NeedsExport() bool {
	exported := r.LastExportedTorrentHash != nil && *r.LastExportedTorrentHash == r.TorrentHash
	return r.TorrentIsFinished && !exported && r.ExportFailuresCount < MaxExportFailures
}

// ReleaseFilter specifies criteria for listing releases.
type ReleaseFilter struct {
	ShowID        *int64
	TorrentHashes []string
}

const releaseColumns = `r.name, r.show_id, r.updated_at, r.search, r.search_result_pk, r.search_result,
	r.torrent_hash, r.torrent_data, r.torrent_is_finished, r.torrent_stats,
	r.last_imported_files_hash, r.last_exported_torrent_hash, r.export_failures_count`

func scanRelease(row rowScanner) (*Release, error) {
	r := &Release{}
	err := row.Scan(&r.Name, &r.ShowID, &r.UpdatedAt, &r.Search, &r.SearchResultPK, &r.SearchResultRaw,
		&r.TorrentHash, &r.TorrentDataRaw, &r.TorrentIsFinished, &r.TorrentStatsRaw,
		&r.LastImportedFilesHash, &r.LastExportedTorrentHash, &r.ExportFailuresCount)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func addRelease(q querier, r *Release) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	_, err := q.Exec(`
		INSERT INTO releases (name, show_id, updated_at, search, search_result_pk, search_result,
			torrent_hash, torrent_data, torrent_is_finished, torrent_stats,
			last_imported_files_hash, last_exported_torrent_hash, export_failures_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.ShowID, r.UpdatedAt, r.Search, r.SearchResultPK, orEmptyJSON(r.SearchResultRaw, "{}"),
		strings.ToLower(r.TorrentHash), orEmptyJSON(r.TorrentDataRaw, "{}"), r.TorrentIsFinished, r.TorrentStatsRaw,
		r.LastImportedFilesHash, r.LastExportedTorrentHash, r.ExportFailuresCount,
	)
	if err != nil {
		return fmt.Errorf("insert release %q: %w", r.Name, mapSQLiteError(err))
	}
	for _, m := range r.FileMatchings {
		m.ReleaseName = r.Name
		m.ShowID = r.ShowID
		if err := addFileMatching(q, m); err != nil {
			return err
		}
	}
	return nil
}

// AddRelease inserts a release together with its file matchings.
// Returns ErrDuplicate if a release with the same name exists.
func (s *Store) AddRelease(r *Release) error { return addRelease(s.db, r) }

// AddRelease inserts a release and its file matchings within a transaction.
func (t *Tx) AddRelease(r *Release) error { return addRelease(t.tx, r) }

func getRelease(q querier, name string) (*Release, error) {
	r, err := scanRelease(q.QueryRow("SELECT "+releaseColumns+" FROM releases r WHERE r.name = ?", name))
	if err != nil {
		return nil, fmt.Errorf("get release %q: %w", name, mapSQLiteError(err))
	}
	if r.FileMatchings, err = listFileMatchings(q, name); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRelease retrieves a release and its file matchings by name.
// Returns ErrNotFound if the release does not exist.
func (s *Store) GetRelease(name string) (*Release, error) { return getRelease(s.db, name) }

// GetRelease retrieves a release by name within a transaction.
func (t *Tx) GetRelease(name string) (*Release, error) { return getRelease(t.tx, name) }

func queryReleases(q querier, where string, args ...any) ([]*Release, error) {
	rows, err := q.Query("SELECT "+releaseColumns+" FROM releases r "+where+" ORDER BY r.show_id, r.name", args...)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}

	var results []*Release
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan release: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate releases: %w", err)
	}
	// rows must be closed before matchings are queried on a single connection
	_ = rows.Close()

	for _, r := range results {
		if r.FileMatchings, err = listFileMatchings(q, r.Name); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func listReleases(q querier, f ReleaseFilter) ([]*Release, error) {
	var conditions []string
	var args []any
	if f.ShowID != nil {
		conditions = append(conditions, "r.show_id = ?")
		args = append(args, *f.ShowID)
	}
	if f.TorrentHashes != nil {
		if len(f.TorrentHashes) == 0 {
			return nil, nil
		}
		conditions = append(conditions, "r.torrent_hash IN ("+placeholders(len(f.TorrentHashes))+")")
		for _, h := range f.TorrentHashes {
			args = append(args, strings.ToLower(h))
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return queryReleases(q, where, args...)
}

// ListReleases returns releases matching the filter with their file
// matchings. A non-nil empty TorrentHashes matches nothing.
func (s *Store) ListReleases(f ReleaseFilter) ([]*Release, error) { return listReleases(s.db, f) }

// ListReleases returns releases matching the filter within a transaction.
func (t *Tx) ListReleases(f ReleaseFilter) ([]*Release, error) { return listReleases(t.tx, f) }

func listExportCandidates(q querier) ([]*Release, error) {
	return queryReleases(q, `WHERE r.torrent_is_finished = 1
		AND (r.last_exported_torrent_hash IS NULL OR r.last_exported_torrent_hash != r.torrent_hash)
		AND r.export_failures_count < ?`, MaxExportFailures)
}

// ListExportCandidates returns finished releases whose current torrent was
// not exported yet and that have retries left.
func (s *Store) ListExportCandidates() ([]*Release, error) { return listExportCandidates(s.db) }

// ListExportCandidates returns export candidates within a transaction.
func (t *Tx) ListExportCandidates() ([]*Release, error) { return listExportCandidates(t.tx) }

func listOutdatedReleases(q querier) ([]*Release, error) {
	return queryReleases(q, `JOIN shows s ON s.id = r.show_id
		WHERE s.is_missing = 1 AND EXISTS (
			SELECT 1 FROM release_file_matchings m, json_each(s.missing_seasons) j
			WHERE m.release_name = r.name AND m.season_number = j.value
		)`)
}

// ListOutdatedReleases returns releases of missing shows that hold at least
// one file matched to a missing season.
func (s *Store) ListOutdatedReleases() ([]*Release, error) { return listOutdatedReleases(s.db) }

// ListOutdatedReleases returns outdated releases within a transaction.
func (t *Tx) ListOutdatedReleases() ([]*Release, error) { return listOutdatedReleases(t.tx) }

func updateTorrentStats(q querier, name string, finished bool, statsRaw string) error {
	return execOne(q, fmt.Sprintf("update stats of release %q", name),
		"UPDATE releases SET torrent_is_finished = ?, torrent_stats = ? WHERE name = ?",
		finished, statsRaw, name)
}

// UpdateTorrentStats records the latest completion state and stats blob.
// Returns ErrNotFound if the release does not exist.
func (s *Store) UpdateTorrentStats(name string, finished bool, statsRaw string) error {
	return updateTorrentStats(s.db, name, finished, statsRaw)
}

// UpdateTorrentStats records torrent stats within a transaction.
func (t *Tx) UpdateTorrentStats(name string, finished bool, statsRaw string) error {
	return updateTorrentStats(t.tx, name, finished, statsRaw)
}

func recordExport(q querier, name, torrentHash, filesHash string) error {
	return execOne(q, fmt.Sprintf("record export of release %q", name),
		"UPDATE releases SET last_exported_torrent_hash = ?, last_imported_files_hash = ? WHERE name = ?",
		strings.ToLower(torrentHash), filesHash, name)
}

// RecordExport marks torrentHash as exported with the given import batch hash.
// Only export columns are written.
func (s *Store) RecordExport(name, torrentHash, filesHash string) error {
	return recordExport(s.db, name, torrentHash, filesHash)
}

// RecordExport marks an export within a transaction.
func (t *Tx) RecordExport(name, torrentHash, filesHash string) error {
	return recordExport(t.tx, name, torrentHash, filesHash)
}

func incrementExportFailures(q querier, name string) error {
	return execOne(q, fmt.Sprintf("count export failure of release %q", name),
		"UPDATE releases SET export_failures_count = export_failures_count + 1 WHERE name = ?", name)
}

// IncrementExportFailures counts one rejected import.
func (s *Store) IncrementExportFailures(name string) error { return incrementExportFailures(s.db, name) }

// IncrementExportFailures counts one rejected import within a transaction.
func (t *Tx) IncrementExportFailures(name string) error { return incrementExportFailures(t.tx, name) }

func replaceTorrent(q querier, oldName string, r *Release) error {
	r.UpdatedAt = time.Now().UTC()
	r.TorrentIsFinished = false
	r.TorrentStatsRaw = nil
	return execOne(q, fmt.Sprintf("replace torrent of release %q", oldName), `
		UPDATE releases SET name = ?, updated_at = ?, torrent_hash = ?, torrent_data = ?,
			torrent_is_finished = 0, torrent_stats = NULL
		WHERE name = ?`,
		r.Name, r.UpdatedAt, strings.ToLower(r.TorrentHash), orEmptyJSON(r.TorrentDataRaw, "{}"), oldName)
}

// ReplaceTorrent points the release stored as oldName at a new torrent,
// renaming it to r.Name. File matchings follow the rename. Completion state
// is reset until stats for the new torrent are imported.
func (s *Store) ReplaceTorrent(oldName string, r *Release) error { return replaceTorrent(s.db, oldName, r) }

// ReplaceTorrent replaces a release's torrent within a transaction.
func (t *Tx) ReplaceTorrent(oldName string, r *Release) error { return replaceTorrent(t.tx, oldName, r) }

func deleteRelease(q querier, name string) error {
	return execOne(q, fmt.Sprintf("delete release %q", name), "DELETE FROM releases WHERE name = ?", name)
}

// DeleteRelease removes a release and, by cascade, its file matchings.
// Returns ErrNotFound if the release does not exist.
func (s *Store) DeleteRelease(name string) error { return deleteRelease(s.db, name) }

// DeleteRelease removes a release within a transaction.
func (t *Tx) DeleteRelease(name string) error { return deleteRelease(t.tx, name) }
