package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/search"
)

const newHash = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

func TestReGrabber_SameHashIsNoop(t *testing.T) {
	f := newFixture(t)
	show := f.seedShow(t)
	f.seedRelease(t, show, testName, testHash, testName+"/01.mkv")
	before, err := f.store.GetRelease(testName)
	require.NoError(t, err)

	f.indexer.EXPECT().Search(gomock.Any(), "Frieren").Return([]search.Result{testResult()}, nil)
	f.indexer.EXPECT().GetTorrent(gomock.Any(), testResult().DownloadURL).
		Return(testMeta(testHash, testName+"/01.mkv", testName+"/02.mkv"), []byte("t"), nil)
	// no torrent client expectations: any call fails the test

	res, err := NewReGrabber(f.store, f.indexer, f.torrents, nil).ReGrab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReGrabResult{Checked: 1, Skipped: 1}, res)

	after, err := f.store.GetRelease(testName)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReGrabber_MergePreservesCorrections(t *testing.T) {
	f := newFixture(t)
	show := f.seedShow(t)
	r := f.seedRelease(t, show, testName, testHash, testName+"/01.mkv", testName+"/02.mkv", testName+"/gone.mkv")
	// user correction: file 02 is really episode 7
	r.FileMatchings[1].EpisodeNumber = ptr(7)
	require.NoError(t, f.store.UpdateFileMatching(r.FileMatchings[1]))
	f.finish(t, testName)
	require.NoError(t, f.store.RecordExport(testName, testHash, "files"))

	const newName = "[SubsPlease] Frieren S01 (1080p) v2"
	raw := []byte("new torrent")
	f.indexer.EXPECT().Search(gomock.Any(), "Frieren").Return([]search.Result{testResult()}, nil)
	f.indexer.EXPECT().GetTorrent(gomock.Any(), gomock.Any()).
		Return(testMeta(newHash, testName+"/01.mkv", testName+"/02.mkv", testName+"/03.mkv", testName+"/04.mkv"), raw, nil)
	gomock.InOrder(
		f.torrents.EXPECT().AddTorrent(gomock.Any(), raw).Return(nil),
		f.torrents.EXPECT().Properties(gomock.Any(), newHash).Return(testProps(newName, newHash), nil),
	)

	res, err := NewReGrabber(f.store, f.indexer, f.torrents, nil).ReGrab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReGrabResult{Checked: 1, Updated: 1}, res)

	_, err = f.store.GetRelease(testName)
	assert.True(t, errors.Is(err, library.ErrNotFound), "release is renamed")

	got, err := f.store.GetRelease(newName)
	require.NoError(t, err)
	assert.Equal(t, newHash, got.TorrentHash)
	assert.False(t, got.TorrentIsFinished, "new torrent is not finished yet")
	assert.Nil(t, got.TorrentStatsRaw)
	props, err := got.Properties()
	require.NoError(t, err)
	assert.Equal(t, newName, props.Name)

	byFile := map[string][2]*int{}
	for _, m := range got.FileMatchings {
		byFile[m.FileName] = [2]*int{m.SeasonNumber, m.EpisodeNumber}
	}
	require.Len(t, byFile, 5, "stale rows stay in storage")
	assert.Equal(t, 1, *byFile[testName+"/01.mkv"][1])
	assert.Equal(t, 7, *byFile[testName+"/02.mkv"][1], "user correction kept")
	assert.Equal(t, 8, *byFile[testName+"/03.mkv"][1], "new file continues after the correction")
	assert.Equal(t, 9, *byFile[testName+"/04.mkv"][1])
	assert.Equal(t, 3, *byFile[testName+"/gone.mkv"][1], "rows for vanished files are untouched")

	// the replaced torrent is exported again once finished
	f.finish(t, newName)
	candidates, err := f.store.ListExportCandidates()
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, newName, candidates[0].Name)
}

func TestReGrabber_DelistedIsSkipped(t *testing.T) {
	f := newFixture(t)
	show := f.seedShow(t)
	f.seedRelease(t, show, testName, testHash, testName+"/01.mkv")

	other := testResult()
	other.InfoURL = "https://nyaa.example/view/2"
	f.indexer.EXPECT().Search(gomock.Any(), "Frieren").Return([]search.Result{other}, nil)

	res, err := NewReGrabber(f.store, f.indexer, f.torrents, nil).ReGrab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReGrabResult{Checked: 1, Skipped: 1}, res)
}

func TestReGrabber_FailureDoesNotStopBatch(t *testing.T) {
	f := newFixture(t)
	show := f.seedShow(t)
	f.seedRelease(t, show, "a", "1111", "a/01.mkv")
	f.seedRelease(t, show, "b", testHash, "b/01.mkv")

	gomock.InOrder(
		f.indexer.EXPECT().Search(gomock.Any(), "Frieren").Return(nil, search.ErrProwlarrUnavailable),
		f.indexer.EXPECT().Search(gomock.Any(), "Frieren").Return([]search.Result{testResult()}, nil),
	)
	f.indexer.EXPECT().GetTorrent(gomock.Any(), gomock.Any()).Return(testMeta(testHash, "b/01.mkv"), []byte("t"), nil)

	res, err := NewReGrabber(f.store, f.indexer, f.torrents, nil).ReGrab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReGrabResult{Checked: 2, Skipped: 1, Failed: 1}, res)
}

func TestReGrabber_OnlyMissingSeasons(t *testing.T) {
	f := newFixture(t)
	show := f.seedShow(t)
	f.seedRelease(t, show, testName, testHash, testName+"/01.mkv")
	require.NoError(t, f.store.MarkMissing(show.ID, []int{2}))

	res, err := NewReGrabber(f.store, f.indexer, f.torrents, nil).ReGrab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReGrabResult{}, res)
}
