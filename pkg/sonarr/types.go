// Package sonarr provides a client for the subset of the Sonarr v3 API used
// to find missing seasons and hand finished downloads back for import.
package sonarr

import "time"

// MissingSeries aggregates Sonarr's wanted/missing records per series.
type MissingSeries struct {
	ID            int   `json:"id"`
	TVDBID        int   `json:"tvdb_id"`
	SeasonNumbers []int `json:"season_numbers"` // sorted, unique
}

// Series is a Sonarr series with its full season/episode catalog.
type Series struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Path    string   `json:"path"`
	TVDBID  int      `json:"tvdb_id"`
	Seasons []Season `json:"seasons"`
}

// Season holds Sonarr's per-season statistics and episode ids.
type Season struct {
	SeasonNumber       int        `json:"season_number"`
	EpisodeFileCount   int        `json:"episode_file_count"`
	EpisodeCount       int        `json:"episode_count"`
	TotalEpisodesCount int        `json:"total_episodes_count"`
	PreviousAiring     *time.Time `json:"previous_airing,omitempty"`
	Episodes           []Episode  `json:"episodes"`
}

// Episode is a Sonarr episode id and its number within the season.
type Episode struct {
	ID            int `json:"id"`
	EpisodeNumber int `json:"episode_number"`
}

// FindEpisode resolves a (season, episode) pair to a Sonarr episode.
func (s Series) FindEpisode(season, episode int) (Episode, bool) {
	for _, sn := range s.Seasons {
		if sn.SeasonNumber != season {
			continue
		}
		for _, ep := range sn.Episodes {
			if ep.EpisodeNumber == episode {
				return ep, true
			}
		}
	}
	return Episode{}, false
}

// ImportFile is one file of a manual import request.
type ImportFile struct {
	EpisodeIDs   []int  `json:"episode_ids"`
	FolderName   string `json:"folder_name"`
	Path         string `json:"path"`
	SeriesID     int    `json:"series_id"`
	IndexerFlags int    `json:"indexer_flags"`
	ReleaseType  string `json:"release_type"` // defaults to "singleEpisode"
}

// Language identifies the audio language reported on import.
type Language struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type missingResponse struct {
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
	Records      []struct {
		SeriesID     int `json:"seriesId"`
		SeasonNumber int `json:"seasonNumber"`
		Series       struct {
			TVDBID int `json:"tvdbId"`
		} `json:"series"`
	} `json:"records"`
}

type seriesResponse struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Path    string `json:"path"`
	TVDBID  int    `json:"tvdbId"`
	Seasons []struct {
		SeasonNumber int `json:"seasonNumber"`
		Statistics   struct {
			EpisodeFileCount  int        `json:"episodeFileCount"`
			EpisodeCount      int        `json:"episodeCount"`
			TotalEpisodeCount int        `json:"totalEpisodeCount"`
			PreviousAiring    *time.Time `json:"previousAiring"`
		} `json:"statistics"`
	} `json:"seasons"`
}

type episodeResponse struct {
	ID            int `json:"id"`
	EpisodeNumber int `json:"episodeNumber"`
}

type importQuality struct {
	Quality struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		Source     string `json:"source"`
		Resolution int    `json:"resolution"`
	} `json:"quality"`
	Revision struct {
		Version  int  `json:"version"`
		Real     int  `json:"real"`
		IsRepack bool `json:"isRepack"`
	} `json:"revision"`
}

type importRequestFile struct {
	EpisodeIDs   []int         `json:"episodeIds"`
	IndexerFlags int           `json:"indexerFlags"`
	Languages    []Language    `json:"languages"`
	Path         string        `json:"path"`
	Quality      importQuality `json:"quality"`
	ReleaseType  string        `json:"releaseType"`
	SeriesID     int           `json:"seriesId"`
}

type importCommand struct {
	Name       string              `json:"name"`
	ImportMode string              `json:"importMode"`
	Files      []importRequestFile `json:"files"`
}
