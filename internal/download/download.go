// Package download talks to qBittorrent: submitting torrents, reading back
// their canonical properties, and polling completion stats.
package download

import "time"

// Properties are the qBittorrent-side facts about a submitted torrent.
// Name is the torrent's identity in the library.
type Properties struct {
	Hash        string    `json:"hash"`
	Name        string    `json:"name"`
	SavePath    string    `json:"save_path"`
	ContentPath string    `json:"content_path"`
	TotalSize   int64     `json:"total_size"`
	AddedOn     time.Time `json:"added_on"`
}

// TorrentStats is one torrent of a stats snapshot. Timestamps are unix
// seconds as qBittorrent reports them; zero means never.
type TorrentStats struct {
	Hash         string  `json:"hash"`
	InfohashV1   string  `json:"infohash_v1"`
	Name         string  `json:"name"`
	State        string  `json:"state"`
	Progress     float64 `json:"progress"`
	AmountLeft   int64   `json:"amount_left"`
	Size         int64   `json:"size"`
	AddedOn      int64   `json:"added_on"`
	CompletionOn int64   `json:"completion_on"`
	SavePath     string  `json:"save_path"`
	ContentPath  string  `json:"content_path"`
}

// Finished reports whether qBittorrent both recorded a completion time and
// has every piece.
func (s TorrentStats) Finished() bool {
	return s.CompletionOn > 0 && s.Progress >= 1.0
}
