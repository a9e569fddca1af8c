package library

import "fmt"

// FileMatching maps one file of a release's torrent to an episode. Nil
// season or episode means unset; season 0 holds specials.
type FileMatching struct {
	ID            int64
	ReleaseName   string
	ShowID        int64
	FileName      string // torrent root followed by the in-torrent path, "/"-separated
	SeasonNumber  *int
	EpisodeNumber *int
}

// Matched reports whether both season and episode are set.
func (m *FileMatching) Matched() bool {
	return m.SeasonNumber != nil && m.EpisodeNumber != nil
}

// Unset reports whether neither season nor episode is set.
func (m *FileMatching) Unset() bool {
	return m.SeasonNumber == nil && m.EpisodeNumber == nil
}

const matchingColumns = "id, release_name, show_id, file_name, season_number, episode_number"

func addFileMatching(q querier, m *FileMatching) error {
	result, err := q.Exec(`
		INSERT INTO release_file_matchings (release_name, show_id, file_name, season_number, episode_number)
		VALUES (?, ?, ?, ?, ?)`,
		m.ReleaseName, m.ShowID, m.FileName, m.SeasonNumber, m.EpisodeNumber,
	)
	if err != nil {
		return fmt.Errorf("insert file matching %q: %w", m.FileName, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	m.ID = id
	return nil
}

// AddFileMatching inserts a file matching. Sets ID.
// Returns ErrDuplicate if the release already has a row for the file.
func (s *Store) AddFileMatching(m *FileMatching) error { return addFileMatching(s.db, m) }

// AddFileMatching inserts a file matching within a transaction.
func (t *Tx) AddFileMatching(m *FileMatching) error { return addFileMatching(t.tx, m) }

func listFileMatchings(q querier, releaseName string) ([]*FileMatching, error) {
	rows, err := q.Query("SELECT "+matchingColumns+" FROM release_file_matchings WHERE release_name = ? ORDER BY file_name", releaseName)
	if err != nil {
		return nil, fmt.Errorf("list file matchings of %q: %w", releaseName, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*FileMatching
	for rows.Next() {
		m := &FileMatching{}
		if err := rows.Scan(&m.ID, &m.ReleaseName, &m.ShowID, &m.FileName, &m.SeasonNumber, &m.EpisodeNumber); err != nil {
			return nil, fmt.Errorf("scan file matching: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file matchings: %w", err)
	}
	return results, nil
}

// ListFileMatchings returns the release's file matchings ordered by file name.
func (s *Store) ListFileMatchings(releaseName string) ([]*FileMatching, error) {
	return listFileMatchings(s.db, releaseName)
}

// ListFileMatchings returns a release's file matchings within a transaction.
func (t *Tx) ListFileMatchings(releaseName string) ([]*FileMatching, error) {
	return listFileMatchings(t.tx, releaseName)
}

func updateFileMatching(q querier, m *FileMatching) error {
	return execOne(q, fmt.Sprintf("update file matching %d", m.ID),
		"UPDATE release_file_matchings SET season_number = ?, episode_number = ? WHERE id = ?",
		m.SeasonNumber, m.EpisodeNumber, m.ID)
}

// UpdateFileMatching stores the season and episode of an existing row.
// Returns ErrNotFound if the row does not exist.
func (s *Store) UpdateFileMatching(m *FileMatching) error { return updateFileMatching(s.db, m) }

// UpdateFileMatching stores a row's season and episode within a transaction.
func (t *Tx) UpdateFileMatching(m *FileMatching) error { return updateFileMatching(t.tx, m) }

func saveFileMatchings(q querier, releaseName string, showID int64, ms []*FileMatching) error {
	for _, m := range ms {
		if m.ID != 0 {
			if err := updateFileMatching(q, m); err != nil {
				return err
			}
			continue
		}
		m.ReleaseName = releaseName
		m.ShowID = showID
		if err := addFileMatching(q, m); err != nil {
			return err
		}
	}
	return nil
}

// SaveFileMatchings updates rows that have an ID and inserts the rest under
// the given release.
func (s *Store) SaveFileMatchings(releaseName string, showID int64, ms []*FileMatching) error {
	return saveFileMatchings(s.db, releaseName, showID, ms)
}

// SaveFileMatchings updates or inserts rows within a transaction.
func (t *Tx) SaveFileMatchings(releaseName string, showID int64, ms []*FileMatching) error {
	return saveFileMatchings(t.tx, releaseName, showID, ms)
}
