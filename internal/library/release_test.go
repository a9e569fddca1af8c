package library

import (
	"errors"
	"testing"
)

func TestStore_AddRelease_WithMatchings(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	s := addTestShow(t, store, 1, true, 1)
	r := addTestRelease(t, store, s.ID, "Frieren S01", "ABCDEF", "Frieren S01/02.mkv", "Frieren S01/01.mkv")

	got, err := store.GetRelease(r.Name)
	if err != nil {
		t.Fatalf("GetRelease: %v", err)
	}
	if got.TorrentHash != "abcdef" {
		t.Errorf("TorrentHash = %q, want lowercase", got.TorrentHash)
	}
	if got.TorrentIsFinished {
		t.Error("new release should not be finished")
	}
	if len(got.FileMatchings) != 2 {
		t.Fatalf("expected 2 matchings, got %d", len(got.FileMatchings))
	}
	if got.FileMatchings[0].FileName != "Frieren S01/01.mkv" {
		t.Errorf("matchings not ordered by file name: %q", got.FileMatchings[0].FileName)
	}
	for _, m := range got.FileMatchings {
		if !m.Unset() {
			t.Errorf("matching %q should be unset", m.FileName)
		}
		if m.ShowID != s.ID {
			t.Errorf("matching ShowID = %d, want %d", m.ShowID, s.ID)
		}
	}
}

func TestStore_AddRelease_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	s := addTestShow(t, store, 1, true, 1)
	addTestRelease(t, store, s.ID, "Frieren S01", "aa")

	err := store.AddRelease(&Release{Name: "Frieren S01", ShowID: s.ID, SearchResultPK: "x", TorrentHash: "bb"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestStore_AddRelease_UnknownShow(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	err := store.AddRelease(&Release{Name: "orphan", ShowID: 42, SearchResultPK: "x", TorrentHash: "aa"})
	if !errors.Is(err, ErrConstraint) {
		t.Errorf("expected ErrConstraint, got %v", err)
	}
}

func TestStore_ListReleases_Filters(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	a := addTestShow(t, store, 1, true, 1)
	b := addTestShow(t, store, 2, true, 1)
	addTestRelease(t, store, a.ID, "A1", "hash-a1", "A1/01.mkv")
	addTestRelease(t, store, a.ID, "A2", "hash-a2")
	addTestRelease(t, store, b.ID, "B1", "hash-b1")

	byShow, err := store.ListReleases(ReleaseFilter{ShowID: &a.ID})
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	if len(byShow) != 2 {
		t.Errorf("expected 2 releases for show a, got %d", len(byShow))
	}
	if len(byShow[0].FileMatchings) != 1 {
		t.Errorf("expected matchings to be loaded, got %d", len(byShow[0].FileMatchings))
	}

	byHash, err := store.ListReleases(ReleaseFilter{TorrentHashes: []string{"HASH-B1", "unknown"}})
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	if len(byHash) != 1 || byHash[0].Name != "B1" {
		t.Errorf("expected B1, got %v", byHash)
	}

	none, err := store.ListReleases(ReleaseFilter{TorrentHashes: []string{}})
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("empty hash list should match nothing, got %d", len(none))
	}
}

func TestStore_ListExportCandidates(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestShow(t, store, 1, true, 1)

	addTestRelease(t, store, s.ID, "unfinished", "h1")

	addTestRelease(t, store, s.ID, "finished", "h2")
	if err := store.UpdateTorrentStats("finished", true, `{}`); err != nil {
		t.Fatalf("UpdateTorrentStats: %v", err)
	}

	addTestRelease(t, store, s.ID, "exported", "h3")
	if err := store.UpdateTorrentStats("exported", true, `{}`); err != nil {
		t.Fatalf("UpdateTorrentStats: %v", err)
	}
	if err := store.RecordExport("exported", "h3", "files"); err != nil {
		t.Fatalf("RecordExport: %v", err)
	}

	addTestRelease(t, store, s.ID, "exported-old", "h4")
	if err := store.UpdateTorrentStats("exported-old", true, `{}`); err != nil {
		t.Fatalf("UpdateTorrentStats: %v", err)
	}
	if err := store.RecordExport("exported-old", "h0", "files"); err != nil {
		t.Fatalf("RecordExport: %v", err)
	}

	addTestRelease(t, store, s.ID, "four-failures", "h5")
	addTestRelease(t, store, s.ID, "five-failures", "h6")
	for _, name := range []string{"four-failures", "five-failures"} {
		if err := store.UpdateTorrentStats(name, true, `{}`); err != nil {
			t.Fatalf("UpdateTorrentStats: %v", err)
		}
	}
	for i := 0; i < 4; i++ {
		if err := store.IncrementExportFailures("four-failures"); err != nil {
			t.Fatalf("IncrementExportFailures: %v", err)
		}
	}
	for i := 0; i < MaxExportFailures; i++ {
		if err := store.IncrementExportFailures("five-failures"); err != nil {
			t.Fatalf("IncrementExportFailures: %v", err)
		}
	}

	got, err := store.ListExportCandidates()
	if err != nil {
		t.Fatalf("ListExportCandidates: %v", err)
	}
	names := map[string]bool{}
	for _, r := range got {
		names[r.Name] = true
		if !r.NeedsExport() {
			t.Errorf("candidate %q should need export", r.Name)
		}
	}
	want := []string{"finished", "exported-old", "four-failures"}
	if len(got) != len(want) {
		t.Errorf("expected %d candidates, got %v", len(want), names)
	}
	for _, n := range want {
		if !names[n] {
			t.Errorf("expected candidate %q", n)
		}
	}
}

func TestStore_ListOutdatedReleases(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	missing := addTestShow(t, store, 1, true, 2)
	complete := addTestShow(t, store, 2, false)

	stale := addTestRelease(t, store, missing.ID, "S02", "h1", "S02/01.mkv")
	stale.FileMatchings[0].SeasonNumber = ptr(2)
	stale.FileMatchings[0].EpisodeNumber = ptr(1)
	if err := store.UpdateFileMatching(stale.FileMatchings[0]); err != nil {
		t.Fatalf("UpdateFileMatching: %v", err)
	}

	other := addTestRelease(t, store, missing.ID, "S01", "h2", "S01/01.mkv")
	other.FileMatchings[0].SeasonNumber = ptr(1)
	other.FileMatchings[0].EpisodeNumber = ptr(1)
	if err := store.UpdateFileMatching(other.FileMatchings[0]); err != nil {
		t.Fatalf("UpdateFileMatching: %v", err)
	}

	addTestRelease(t, store, missing.ID, "unmatched", "h3", "x/01.mkv")

	done := addTestRelease(t, store, complete.ID, "done", "h4", "done/01.mkv")
	done.FileMatchings[0].SeasonNumber = ptr(2)
	if err := store.UpdateFileMatching(done.FileMatchings[0]); err != nil {
		t.Fatalf("UpdateFileMatching: %v", err)
	}

	got, err := store.ListOutdatedReleases()
	if err != nil {
		t.Fatalf("ListOutdatedReleases: %v", err)
	}
	if len(got) != 1 || got[0].Name != "S02" {
		t.Errorf("expected only S02, got %v", got)
	}
}

func TestStore_ReplaceTorrent_RenamesAndCascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestShow(t, store, 1, true, 1)

	r := addTestRelease(t, store, s.ID, "Old Name", "old", "Old Name/01.mkv")
	if err := store.UpdateTorrentStats(r.Name, true, `{"progress":1}`); err != nil {
		t.Fatalf("UpdateTorrentStats: %v", err)
	}
	if err := store.RecordExport(r.Name, "old", "files"); err != nil {
		t.Fatalf("RecordExport: %v", err)
	}

	replacement := &Release{Name: "New Name", TorrentHash: "NEW", TorrentDataRaw: `{"name":"New Name"}`}
	if err := store.ReplaceTorrent("Old Name", replacement); err != nil {
		t.Fatalf("ReplaceTorrent: %v", err)
	}

	if _, err := store.GetRelease("Old Name"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old name should be gone, got %v", err)
	}
	got, err := store.GetRelease("New Name")
	if err != nil {
		t.Fatalf("GetRelease: %v", err)
	}
	if got.TorrentHash != "new" || got.TorrentIsFinished || got.TorrentStatsRaw != nil {
		t.Errorf("torrent state not reset: hash=%q finished=%v stats=%v", got.TorrentHash, got.TorrentIsFinished, got.TorrentStatsRaw)
	}
	if got.LastExportedTorrentHash == nil || *got.LastExportedTorrentHash != "old" {
		t.Errorf("export bookkeeping should be kept, got %v", got.LastExportedTorrentHash)
	}
	if len(got.FileMatchings) != 1 || got.FileMatchings[0].ReleaseName != "New Name" {
		t.Errorf("matchings should follow the rename: %+v", got.FileMatchings)
	}
}

func TestStore_DeleteRelease_Cascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestShow(t, store, 1, true, 1)
	addTestRelease(t, store, s.ID, "R", "h", "R/01.mkv", "R/02.mkv")

	if err := store.DeleteRelease("R"); err != nil {
		t.Fatalf("DeleteRelease: %v", err)
	}
	ms, err := store.ListFileMatchings("R")
	if err != nil {
		t.Fatalf("ListFileMatchings: %v", err)
	}
	if len(ms) != 0 {
		t.Errorf("expected matchings to cascade, got %d", len(ms))
	}
	if err := store.DeleteRelease("R"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRelease_Accessors(t *testing.T) {
	r := &Release{
		Name:            "R",
		SearchResultRaw: `{"guid":"g","title":"Frieren","info_url":"https://x/1"}`,
		TorrentDataRaw:  `{"hash":"h","name":"R","save_path":"/downloads"}`,
	}
	res, err := r.SearchResult()
	if err != nil {
		t.Fatalf("SearchResult: %v", err)
	}
	if res.GUID != "g" {
		t.Errorf("GUID = %q", res.GUID)
	}
	props, err := r.Properties()
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	if props.SavePath != "/downloads" {
		t.Errorf("SavePath = %q", props.SavePath)
	}
	if _, ok, err := r.Stats(); ok || err != nil {
		t.Errorf("Stats on nil blob: ok=%v err=%v", ok, err)
	}

	r.TorrentStatsRaw = ptr("not json")
	if _, _, err := r.Stats(); err == nil {
		t.Error("expected decode error")
	}
}
