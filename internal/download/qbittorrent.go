package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	qbt "github.com/autobrr/go-qbittorrent"
)

// qbtAPI is the subset of *qbt.Client used here.
type qbtAPI interface {
	LoginCtx(ctx context.Context) error
	AddTorrentFromMemoryCtx(ctx context.Context, buf []byte, options map[string]string) error
	GetTorrentsCtx(ctx context.Context, o qbt.TorrentFilterOptions) ([]qbt.Torrent, error)
}

// QBittorrentConfig configures the qBittorrent adapter.
type QBittorrentConfig struct {
	URL      string
	Username string
	Password string
	SavePath string

	// A freshly added torrent shows up asynchronously; properties are
	// polled up to PropertiesAttempts times, PropertiesDelay apart.
	PropertiesAttempts uint
	PropertiesDelay    time.Duration
}

// QBittorrent submits torrents to qBittorrent and reads their state.
type QBittorrent struct {
	api      qbtAPI
	cfg      QBittorrentConfig
	log      *slog.Logger
	mu       sync.Mutex
	loggedIn bool
}

// NewQBittorrent creates an adapter for the qBittorrent Web API.
func NewQBittorrent(cfg QBittorrentConfig, log *slog.Logger) *QBittorrent {
	api := qbt.NewClient(qbt.Config{
		Host:     cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  30,
	})
	return newQBittorrent(api, cfg, log)
}

func newQBittorrent(api qbtAPI, cfg QBittorrentConfig, log *slog.Logger) *QBittorrent {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PropertiesAttempts == 0 {
		cfg.PropertiesAttempts = 5
	}
	if cfg.PropertiesDelay == 0 {
		cfg.PropertiesDelay = time.Second
	}
	return &QBittorrent{api: api, cfg: cfg, log: log.With("component", "qbittorrent")}
}

func (q *QBittorrent) login(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.loggedIn {
		return nil
	}
	if err := q.api.LoginCtx(ctx); err != nil {
		return fmt.Errorf("%w: login: %v", ErrClientUnavailable, err)
	}
	q.loggedIn = true
	return nil
}

// AddTorrent submits a .torrent payload, unpaused, in its original layout.
func (q *QBittorrent) AddTorrent(ctx context.Context, raw []byte) error {
	if err := q.login(ctx); err != nil {
		return err
	}

	options := map[string]string{
		"autoTMM":       "false",
		"paused":        "false",
		"stopped":       "false",
		"contentLayout": "Original",
	}
	if q.cfg.SavePath != "" {
		options["savepath"] = q.cfg.SavePath
	}
	if err := q.api.AddTorrentFromMemoryCtx(ctx, raw, options); err != nil {
		return fmt.Errorf("%w: add torrent: %v", ErrClientUnavailable, err)
	}
	q.log.Debug("torrent submitted", "bytes", len(raw))
	return nil
}

// Properties returns the canonical name and save path of a torrent,
// retrying while qBittorrent has not registered it yet.
func (q *QBittorrent) Properties(ctx context.Context, hash string) (*Properties, error) {
	if err := q.login(ctx); err != nil {
		return nil, err
	}

	var props *Properties
	err := retry.Do(
		func() error {
			t, err := q.findTorrent(ctx, hash)
			if err != nil {
				return err
			}
			props = &Properties{
				Hash:        strings.ToLower(hash),
				Name:        t.Name,
				SavePath:    t.SavePath,
				ContentPath: t.ContentPath,
				TotalSize:   t.TotalSize,
				AddedOn:     time.Unix(t.AddedOn, 0).UTC(),
			}
			return nil
		},
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrTorrentNotFound) }),
		retry.Attempts(q.cfg.PropertiesAttempts),
		retry.Delay(q.cfg.PropertiesDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("properties of %s: %w", hash, err)
	}
	return props, nil
}

func (q *QBittorrent) findTorrent(ctx context.Context, hash string) (qbt.Torrent, error) {
	torrents, err := q.api.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{Hashes: []string{strings.ToLower(hash)}})
	if err != nil {
		return qbt.Torrent{}, fmt.Errorf("%w: %v", ErrClientUnavailable, err)
	}
	for _, t := range torrents {
		if strings.EqualFold(t.Hash, hash) || strings.EqualFold(t.InfohashV1, hash) {
			return t, nil
		}
	}
	return qbt.Torrent{}, ErrTorrentNotFound
}

// Stats returns a snapshot of every torrent keyed by lowercase v1 info-hash.
// When qBittorrent reports the same info-hash twice the most recently added
// entry wins.
func (q *QBittorrent) Stats(ctx context.Context) (map[string]TorrentStats, error) {
	if err := q.login(ctx); err != nil {
		return nil, err
	}

	torrents, err := q.api.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: list torrents: %v", ErrClientUnavailable, err)
	}

	stats := make(map[string]TorrentStats, len(torrents))
	for _, t := range torrents {
		key := strings.ToLower(t.InfohashV1)
		if key == "" {
			key = strings.ToLower(t.Hash)
		}
		if existing, ok := stats[key]; ok && existing.AddedOn >= t.AddedOn {
			continue
		}
		stats[key] = TorrentStats{
			Hash:         t.Hash,
			InfohashV1:   t.InfohashV1,
			Name:         t.Name,
			State:        string(t.State),
			Progress:     t.Progress,
			AmountLeft:   t.AmountLeft,
			Size:         t.Size,
			AddedOn:      t.AddedOn,
			CompletionOn: t.CompletionOn,
			SavePath:     t.SavePath,
			ContentPath:  t.ContentPath,
		}
	}

	q.log.Debug("fetched stats", "torrents", len(torrents), "unique", len(stats))
	return stats, nil
}
