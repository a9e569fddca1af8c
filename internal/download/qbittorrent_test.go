package download

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQbt is an in-memory stand-in for the qBittorrent Web API.
type fakeQbt struct {
	mu          sync.Mutex
	logins      int
	loginErr    error
	added       [][]byte
	addOptions  map[string]string
	torrents    []qbt.Torrent
	listErr     error
	visibleFrom int // torrents are hidden from the first visibleFrom hash lookups
	lookups     int
}

func (f *fakeQbt) LoginCtx(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	return f.loginErr
}

func (f *fakeQbt) AddTorrentFromMemoryCtx(_ context.Context, buf []byte, options map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, buf)
	f.addOptions = options
	return nil
}

func (f *fakeQbt) GetTorrentsCtx(_ context.Context, o qbt.TorrentFilterOptions) ([]qbt.Torrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(o.Hashes) == 0 {
		return f.torrents, nil
	}
	f.lookups++
	if f.lookups <= f.visibleFrom {
		return nil, nil
	}
	var out []qbt.Torrent
	for _, t := range f.torrents {
		for _, h := range o.Hashes {
			if t.Hash == h {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func newTestQBittorrent(api *fakeQbt) *QBittorrent {
	return newQBittorrent(api, QBittorrentConfig{
		SavePath:           "/downloads",
		PropertiesAttempts: 3,
		PropertiesDelay:    time.Millisecond,
	}, nil)
}

func TestQBittorrent_AddTorrent(t *testing.T) {
	api := &fakeQbt{}
	q := newTestQBittorrent(api)

	require.NoError(t, q.AddTorrent(context.Background(), []byte("d4:infoe")))
	require.NoError(t, q.AddTorrent(context.Background(), []byte("d4:infoe")))

	assert.Equal(t, 1, api.logins, "logs in once")
	assert.Len(t, api.added, 2)
	assert.Equal(t, "/downloads", api.addOptions["savepath"])
	assert.Equal(t, "Original", api.addOptions["contentLayout"])
	assert.Equal(t, "false", api.addOptions["paused"])
}

func TestQBittorrent_LoginFailure(t *testing.T) {
	api := &fakeQbt{loginErr: errors.New("403 forbidden")}
	q := newTestQBittorrent(api)

	err := q.AddTorrent(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrClientUnavailable)
	assert.Empty(t, api.added)
}

func TestQBittorrent_Properties_WaitsForRegistration(t *testing.T) {
	api := &fakeQbt{
		visibleFrom: 2,
		torrents: []qbt.Torrent{{
			Hash: "abc", Name: "Show.S01.1080p", SavePath: "/downloads",
			ContentPath: "/downloads/Show.S01.1080p", TotalSize: 300, AddedOn: 1700000000,
		}},
	}
	q := newTestQBittorrent(api)

	props, err := q.Properties(context.Background(), "ABC")
	require.NoError(t, err)

	assert.Equal(t, 3, api.lookups)
	assert.Equal(t, "abc", props.Hash)
	assert.Equal(t, "Show.S01.1080p", props.Name)
	assert.Equal(t, "/downloads", props.SavePath)
	assert.Equal(t, int64(300), props.TotalSize)
	assert.Equal(t, int64(1700000000), props.AddedOn.Unix())
}

func TestQBittorrent_Properties_GivesUp(t *testing.T) {
	api := &fakeQbt{}
	q := newTestQBittorrent(api)

	_, err := q.Properties(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrTorrentNotFound)
	assert.Equal(t, 3, api.lookups)
}

func TestQBittorrent_Properties_ClientErrorIsNotRetried(t *testing.T) {
	api := &fakeQbt{listErr: errors.New("connection refused")}
	q := newTestQBittorrent(api)

	_, err := q.Properties(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrClientUnavailable)
}

func TestQBittorrent_Stats_DeduplicatesByInfoHash(t *testing.T) {
	api := &fakeQbt{torrents: []qbt.Torrent{
		{Hash: "AAA", InfohashV1: "aaa", Name: "old", AddedOn: 100, Progress: 0.5},
		{Hash: "aaa2", InfohashV1: "AAA", Name: "new", AddedOn: 200, Progress: 1, CompletionOn: 300},
		{Hash: "bbb", Name: "v1 only", AddedOn: 50, Progress: 1},
	}}
	q := newTestQBittorrent(api)

	stats, err := q.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats, 2)
	assert.Equal(t, "new", stats["aaa"].Name)
	assert.True(t, stats["aaa"].Finished())
	assert.Equal(t, "v1 only", stats["bbb"].Name)
	assert.False(t, stats["bbb"].Finished(), "no completion time")
}

func TestTorrentStats_Finished(t *testing.T) {
	tests := []struct {
		name         string
		completionOn int64
		progress     float64
		want         bool
	}{
		{"complete", 1700000000, 1.0, true},
		{"completed then rechecking", 1700000000, 0.99, false},
		{"full but never completed", 0, 1.0, false},
		{"downloading", 0, 0.3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := TorrentStats{CompletionOn: tt.completionOn, Progress: tt.progress}
			assert.Equal(t, tt.want, s.Finished())
		})
	}
}
