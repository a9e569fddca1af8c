package library

import (
	"database/sql"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func addTestShow(t *testing.T, store *Store, sonarrID int, missing bool, seasons ...int) *Show {
	t.Helper()
	s := &Show{
		SonarrID:       sonarrID,
		SonarrDataRaw:  `{"id":1,"title":"Frieren","tvdb_id":424536}`,
		TVDBDataRaw:    `{"id":424536,"title":"Frieren: Beyond Journey's End"}`,
		IsMissing:      missing,
		MissingSeasons: seasons,
		Search:         "frieren",
	}
	if err := store.AddShow(s); err != nil {
		t.Fatalf("AddShow: %v", err)
	}
	return s
}

func addTestRelease(t *testing.T, store *Store, showID int64, name, hash string, files ...string) *Release {
	t.Helper()
	r := &Release{
		Name:           name,
		ShowID:         showID,
		Search:         "frieren",
		SearchResultPK: "https://tracker.example/t/" + name,
		TorrentHash:    hash,
	}
	for _, f := range files {
		r.FileMatchings = append(r.FileMatchings, &FileMatching{FileName: f})
	}
	if err := store.AddRelease(r); err != nil {
		t.Fatalf("AddRelease: %v", err)
	}
	return r
}
