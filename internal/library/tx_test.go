package library

import (
	"errors"
	"testing"
)

func TestTx_Commit(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestShow(t, store, 1, true, 1)

	tx, err := store.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	r := &Release{Name: "TX", ShowID: s.ID, SearchResultPK: "pk", TorrentHash: "h",
		FileMatchings: []*FileMatching{{FileName: "TX/01.mkv"}}}
	if err := tx.AddRelease(r); err != nil {
		t.Fatalf("AddRelease in tx failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	got, err := store.GetRelease("TX")
	if err != nil {
		t.Fatalf("GetRelease after commit failed: %v", err)
	}
	if len(got.FileMatchings) != 1 {
		t.Errorf("expected 1 matching, got %d", len(got.FileMatchings))
	}
}

func TestTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestShow(t, store, 1, true, 1)

	tx, err := store.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := tx.AddRelease(&Release{Name: "TX", ShowID: s.ID, SearchResultPK: "pk", TorrentHash: "h"}); err != nil {
		t.Fatalf("AddRelease in tx failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if _, err := store.GetRelease("TX"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after rollback, got %v", err)
	}
}

func TestStore_InTx_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestShow(t, store, 1, true, 1)

	// the second matching collides with the first, so the whole release is dropped
	err := store.InTx(func(tx *Tx) error {
		return tx.AddRelease(&Release{Name: "TX", ShowID: s.ID, SearchResultPK: "pk", TorrentHash: "h",
			FileMatchings: []*FileMatching{{FileName: "same.mkv"}, {FileName: "same.mkv"}}})
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := store.GetRelease("TX"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after failed InTx, got %v", err)
	}
}

func TestMapSQLiteError(t *testing.T) {
	if mapSQLiteError(nil) != nil {
		t.Error("nil should stay nil")
	}
	plain := errors.New("disk I/O error")
	if mapSQLiteError(plain) != plain {
		t.Error("unrelated errors should pass through")
	}
	if !errors.Is(mapSQLiteError(errors.New("CHECK constraint failed: export_failures_count >= 0")), ErrConstraint) {
		t.Error("CHECK failure should map to ErrConstraint")
	}
}
