package search

import (
	"fmt"
	"strings"

	"github.com/vmunix/arrfill/pkg/release"
)

// multiEncodeIndexerPrefix names the indexer family that lists the x264 and
// x265 encodes of a release under the same info URL.
const multiEncodeIndexerPrefix = "anilibria"

// Result is one release returned by a Prowlarr search.
type Result struct {
	GUID        string `json:"guid"`
	Age         int    `json:"age"` // days since publication
	Grabs       int    `json:"grabs"`
	InfoURL     string `json:"info_url"`
	Size        int64  `json:"size"`
	Title       string `json:"title"`
	Indexer     string `json:"indexer"`
	IndexerID   int    `json:"indexer_id"`
	Seeders     int    `json:"seeders"`
	Leechers    int    `json:"leechers"`
	DownloadURL string `json:"download_url"`

	// Relevance is the title match confidence against the show, filled in
	// when results are stored for a show.
	Relevance release.MatchConfidence `json:"relevance,omitempty"`
}

// PK returns the key used to recognize the same release across searches.
// It is the info URL, suffixed with the encode for indexers that reuse one
// info URL for several encodes.
func (r Result) PK() (string, error) {
	if !strings.HasPrefix(strings.ToLower(r.Indexer), multiEncodeIndexerPrefix) {
		return r.InfoURL, nil
	}
	switch tag := release.EncodingTag(r.Title); tag {
	case release.EncodingX264, release.EncodingX265:
		return r.InfoURL + ":" + string(tag), nil
	default:
		return "", fmt.Errorf("%w: %s: %q", ErrUnknownEncoding, r.Indexer, r.Title)
	}
}

// FindByPK returns the result whose PK equals pk. A result whose PK cannot
// be computed fails the lookup.
func FindByPK(results []Result, pk string) (Result, bool, error) {
	for _, r := range results {
		rpk, err := r.PK()
		if err != nil {
			return Result{}, false, err
		}
		if rpk == pk {
			return r, true, nil
		}
	}
	return Result{}, false, nil
}
