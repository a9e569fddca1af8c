package pipeline

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/arrfill/internal/download"
	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/pipeline/mocks"
	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/pkg/sonarr"
	"github.com/vmunix/arrfill/pkg/tvdb"
)

const (
	testSonarrID = 31
	testPK       = "https://nyaa.example/view/1"
	testHash     = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testName     = "[SubsPlease] Frieren S01 (1080p)"
	testSavePath = "/downloads/anime"
)

type fixture struct {
	db       *sql.DB
	store    *library.Store
	catalog  *mocks.MockCatalog
	series   *mocks.MockSeriesManager
	indexer  *mocks.MockIndexer
	torrents *mocks.MockTorrentClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := library.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	return &fixture{
		db:       db,
		store:    library.NewStore(db),
		catalog:  mocks.NewMockCatalog(ctrl),
		series:   mocks.NewMockSeriesManager(ctrl),
		indexer:  mocks.NewMockIndexer(ctrl),
		torrents: mocks.NewMockTorrentClient(ctrl),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func testPVRSeries() *sonarr.Series {
	return &sonarr.Series{
		ID:     testSonarrID,
		Title:  "Frieren",
		TVDBID: 424536,
		Seasons: []sonarr.Season{{
			SeasonNumber: 1,
			Episodes: []sonarr.Episode{
				{ID: 101, EpisodeNumber: 1},
				{ID: 102, EpisodeNumber: 2},
				{ID: 103, EpisodeNumber: 3},
			},
		}},
	}
}

func testCatalogSeries() *tvdb.Series {
	return &tvdb.Series{ID: 424536, Title: "Frieren: Beyond Journey's End", OriginalName: "Sousou no Frieren", Year: 2023}
}

func testResult() search.Result {
	return search.Result{
		GUID:        "nyaa-1",
		Title:       "[SubsPlease] Sousou no Frieren S01 (1080p)",
		Indexer:     "Nyaa",
		InfoURL:     testPK,
		DownloadURL: "https://prowlarr.example/dl/1",
		Age:         2,
	}
}

func testMeta(hash string, files ...string) *search.TorrentMeta {
	m := &search.TorrentMeta{Name: testName, InfoHash: hash}
	for _, f := range files {
		m.Files = append(m.Files, search.TorrentFile{Name: f, Length: 1 << 20})
	}
	return m
}

func testProps(name, hash string) *download.Properties {
	return &download.Properties{Hash: hash, Name: name, SavePath: testSavePath}
}

// seedShow stores a missing show with season 1 missing and a saved search.
func (f *fixture) seedShow(t *testing.T) *library.Show {
	t.Helper()
	show := &library.Show{
		SonarrID:       testSonarrID,
		SonarrDataRaw:  mustJSON(t, testPVRSeries()),
		TVDBDataRaw:    mustJSON(t, testCatalogSeries()),
		IsMissing:      true,
		MissingSeasons: []int{1},
		Search:         "Frieren",
	}
	require.NoError(t, f.store.AddShow(show))
	require.NoError(t, f.store.SaveSearch(show.ID, "Frieren", []search.Result{testResult()}))
	return show
}

// seedRelease stores a release of show with its files matched to season 1
// episodes in order.
func (f *fixture) seedRelease(t *testing.T, show *library.Show, name, hash string, files ...string) *library.Release {
	t.Helper()
	r := &library.Release{
		Name:            name,
		ShowID:          show.ID,
		Search:          show.Search,
		SearchResultPK:  testPK,
		SearchResultRaw: mustJSON(t, testResult()),
		TorrentHash:     hash,
		TorrentDataRaw:  mustJSON(t, testProps(name, hash)),
	}
	for i, file := range files {
		r.FileMatchings = append(r.FileMatchings, &library.FileMatching{
			FileName: file, SeasonNumber: ptr(1), EpisodeNumber: ptr(i + 1),
		})
	}
	require.NoError(t, f.store.AddRelease(r))
	return r
}

func (f *fixture) finish(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.store.UpdateTorrentStats(name, true, `{"progress":1}`))
}
