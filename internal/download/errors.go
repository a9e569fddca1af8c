package download

import "errors"

// Sentinel errors for the download package.
var (
	// ErrClientUnavailable is returned when qBittorrent cannot be reached or
	// refuses a request.
	ErrClientUnavailable = errors.New("download client unavailable")

	// ErrTorrentNotFound is returned when qBittorrent does not know a hash.
	ErrTorrentNotFound = errors.New("torrent not found in client")
)
