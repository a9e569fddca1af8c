// Package release parses torrent and file names of TV releases: season and
// episode markers, encodes, and titles for fuzzy matching.
package release

// Resolution represents the video resolution of a release.
type Resolution int

const (
	ResolutionUnknown Resolution = iota
	Resolution480p
	Resolution720p
	Resolution1080p
	Resolution2160p
)

func (r Resolution) String() string {
	switch r {
	case Resolution480p:
		return "480p"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	case Resolution2160p:
		return "2160p"
	default:
		return "unknown"
	}
}

// Encoding is the literal encode marker some indexers put in titles to tell
// apart encodes published under the same listing.
type Encoding string

const (
	EncodingUnknown Encoding = ""
	EncodingX264    Encoding = "x264"
	EncodingX265    Encoding = "x265"
)

// Info contains what could be parsed from a release or file name.
type Info struct {
	Title      string
	Season     int // 0 when absent; check HasSeason
	HasSeason  bool
	Episodes   []int // e.g. [5,6,7] for S01E05-E07
	Resolution Resolution
	Encoding   Encoding
	Group      string
}

// Episode returns the first episode, or 0 when none was found.
func (i *Info) Episode() int {
	if len(i.Episodes) == 0 {
		return 0
	}
	return i.Episodes[0]
}
