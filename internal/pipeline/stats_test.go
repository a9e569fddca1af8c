package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/arrfill/internal/download"
)

func TestStatsImporter_FinishedNeedsBothSignals(t *testing.T) {
	tests := []struct {
		name         string
		progress     float64
		completionOn int64
		want         bool
	}{
		{"complete", 1.0, 1700000000, true},
		{"full progress without completion time", 1.0, 0, false},
		{"completion time without full progress", 0.99, 1700000000, false},
		{"negative completion time", 1.0, -1, false},
		{"downloading", 0.5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			show := f.seedShow(t)
			f.seedRelease(t, show, testName, testHash, "a.mkv")

			f.torrents.EXPECT().Stats(gomock.Any()).Return(map[string]download.TorrentStats{
				testHash: {Hash: testHash, InfohashV1: testHash, Progress: tt.progress, CompletionOn: tt.completionOn},
			}, nil)

			res, err := NewStatsImporter(f.store, f.torrents, nil).Import(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, res.Updated)

			got, err := f.store.GetRelease(testName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TorrentIsFinished)

			stats, ok, err := got.Stats()
			require.NoError(t, err)
			require.True(t, ok, "stats are stored whatever the state")
			assert.InDelta(t, tt.progress, stats.Progress, 1e-9)
		})
	}
}

func TestStatsImporter_Idempotent(t *testing.T) {
	f := newFixture(t)
	show := f.seedShow(t)
	f.seedRelease(t, show, testName, testHash, "a.mkv")
	f.seedRelease(t, show, "untracked", "cccc", "b.mkv")

	snapshot := map[string]download.TorrentStats{
		testHash: {Hash: testHash, Progress: 1, CompletionOn: 1700000000},
		"dddd":   {Hash: "dddd", Progress: 1, CompletionOn: 1700000000},
	}
	f.torrents.EXPECT().Stats(gomock.Any()).Return(snapshot, nil).Times(2)

	imp := NewStatsImporter(f.store, f.torrents, nil)
	first, err := imp.Import(context.Background())
	require.NoError(t, err)
	afterFirst, err := f.store.GetRelease(testName)
	require.NoError(t, err)

	second, err := imp.Import(context.Background())
	require.NoError(t, err)
	afterSecond, err := f.store.GetRelease(testName)
	require.NoError(t, err)

	assert.Equal(t, StatsResult{Updated: 1, Finished: 1}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, afterSecond)

	untracked, err := f.store.GetRelease("untracked")
	require.NoError(t, err)
	assert.Nil(t, untracked.TorrentStatsRaw, "releases the client does not report are left alone")
}

func TestStatsImporter_ClientError(t *testing.T) {
	f := newFixture(t)
	f.torrents.EXPECT().Stats(gomock.Any()).Return(nil, download.ErrClientUnavailable)

	_, err := NewStatsImporter(f.store, f.torrents, nil).Import(context.Background())
	assert.True(t, errors.Is(err, download.ErrClientUnavailable))
}

func TestStatsImporter_FailureKeepsEarlierReleases(t *testing.T) {
	f := newFixture(t)
	show := f.seedShow(t)
	f.seedRelease(t, show, "alpha", "aaaa", "a.mkv")
	f.seedRelease(t, show, "beta", "bbbb", "b.mkv")
	_, err := f.db.Exec(`CREATE TRIGGER fail_beta BEFORE UPDATE ON releases
		WHEN NEW.name = 'beta' BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	f.torrents.EXPECT().Stats(gomock.Any()).Return(map[string]download.TorrentStats{
		"aaaa": {Hash: "aaaa", Progress: 1, CompletionOn: 1700000000},
		"bbbb": {Hash: "bbbb", Progress: 1, CompletionOn: 1700000000},
	}, nil)

	res, err := NewStatsImporter(f.store, f.torrents, nil).Import(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, res.Updated)

	alpha, err := f.store.GetRelease("alpha")
	require.NoError(t, err)
	assert.True(t, alpha.TorrentIsFinished, "release written before the failure stays written")

	beta, err := f.store.GetRelease("beta")
	require.NoError(t, err)
	assert.False(t, beta.TorrentIsFinished)
	assert.Nil(t, beta.TorrentStatsRaw)
}
