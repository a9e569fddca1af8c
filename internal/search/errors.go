// Package search queries Prowlarr for releases and fetches their torrents.
package search

import "errors"

var (
	// ErrProwlarrUnavailable indicates Prowlarr could not be reached.
	ErrProwlarrUnavailable = errors.New("prowlarr unavailable")

	// ErrInvalidAPIKey indicates the Prowlarr API key is invalid.
	ErrInvalidAPIKey = errors.New("invalid prowlarr api key")

	// ErrNoIndexers indicates Prowlarr has no enabled indexer to search with.
	ErrNoIndexers = errors.New("no indexer available")

	// ErrUnknownEncoding indicates a result from an indexer that publishes
	// several encodes under one info URL carries no encode marker, so it
	// has no stable identity.
	ErrUnknownEncoding = errors.New("release title has no encoding marker")

	// ErrInvalidTorrent indicates the downloaded payload is not a torrent.
	ErrInvalidTorrent = errors.New("invalid torrent file")
)
