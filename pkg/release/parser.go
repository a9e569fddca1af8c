package release

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// S01E02, S01.E02, S01E02-E03, S01E02E03
	seasonEpisodeRe = regexp.MustCompile(`(?i)\bS(\d{1,2})[ ._-]?E(\d{1,4})(?:-?E(\d{1,4}))?`)
	// 1x02
	crossRe = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	// Season 1 Episode 2
	verboseRe = regexp.MustCompile(`(?i)\bseason[ ._-]?(\d{1,2})[ ._-]+episode[ ._-]?(\d{1,4})\b`)
	// "Show - 05", "Show [05]", "Show E05", "Show Ep.05"
	episodeOnlyRe = regexp.MustCompile(`(?i)(?:\s-\s(\d{1,4})\b|\[(\d{1,4})\]|\b(?:ep?|episode)[ ._]?(\d{1,4})\b)`)
	// "Season 2", "S2", "S02" as a directory or a standalone token
	seasonOnlyRe = regexp.MustCompile(`(?i)\b(?:season[ ._-]?(\d{1,2})|s(\d{1,2}))\b`)

	resolutionRe = regexp.MustCompile(`(?i)\b(2160|1080|720|480)[pi]\b`)
	groupRe      = regexp.MustCompile(`-([A-Za-z0-9]+)$`)
)

// Parse extracts season, episodes, resolution, encode, and group from a
// release or file name.
func Parse(name string) *Info {
	base := stripExt(name)
	normalized := strings.NewReplacer("_", " ").Replace(base)

	info := &Info{
		Resolution: parseResolution(normalized),
		Encoding:   EncodingTag(normalized),
	}

	titleEnd := len(normalized)
	if m := seasonEpisodeRe.FindStringSubmatchIndex(normalized); m != nil {
		info.Season, info.HasSeason = atoi(normalized[m[2]:m[3]]), true
		first := atoi(normalized[m[4]:m[5]])
		last := first
		if m[6] >= 0 {
			last = atoi(normalized[m[6]:m[7]])
		}
		for ep := first; ep <= last && ep-first < 100; ep++ {
			info.Episodes = append(info.Episodes, ep)
		}
		titleEnd = m[0]
	} else if m := seasonOnlyRe.FindStringSubmatchIndex(normalized); m != nil {
		info.Season, info.HasSeason = atoi(firstGroup(normalized, m)), true
		titleEnd = m[0]
	}

	if m := groupRe.FindStringSubmatch(normalized); m != nil {
		info.Group = m[1]
	}
	if m := resolutionRe.FindStringIndex(normalized); m != nil && m[0] < titleEnd {
		titleEnd = m[0]
	}
	info.Title = strings.TrimSpace(strings.Trim(strings.ReplaceAll(normalized[:titleEnd], ".", " "), " -[("))

	return info
}

// ParseEpisode finds the season and episode of a file inside a torrent.
// fileName is the "/"-separated path relative to the save path; the season
// may come from a parent directory when the file itself only carries an
// episode number.
func ParseEpisode(fileName string) (season, episode int, ok bool) {
	base := stripExt(path.Base(fileName))

	if m := seasonEpisodeRe.FindStringSubmatch(base); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}
	if m := verboseRe.FindStringSubmatch(base); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}
	if m := crossRe.FindStringSubmatch(base); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}

	m := episodeOnlyRe.FindStringSubmatchIndex(base)
	if m == nil {
		return 0, 0, false
	}
	episode = atoi(firstGroup(base, m))

	if s, found := seasonFromPath(base, path.Dir(fileName)); found {
		return s, episode, true
	}
	return 0, 0, false
}

func seasonFromPath(base, dir string) (int, bool) {
	if m := seasonOnlyRe.FindStringSubmatchIndex(base); m != nil {
		return atoi(firstGroup(base, m)), true
	}
	// nearest directory wins
	parts := strings.Split(dir, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if m := seasonOnlyRe.FindStringSubmatchIndex(parts[i]); m != nil {
			return atoi(firstGroup(parts[i], m)), true
		}
		if m := seasonEpisodeRe.FindStringSubmatch(parts[i]); m != nil {
			return atoi(m[1]), true
		}
	}
	return 0, false
}

// EncodingTag returns the encode marker contained in a title. x264 wins
// when both are present.
func EncodingTag(title string) Encoding {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, string(EncodingX264)):
		return EncodingX264
	case strings.Contains(lower, string(EncodingX265)):
		return EncodingX265
	default:
		return EncodingUnknown
	}
}

func parseResolution(name string) Resolution {
	m := resolutionRe.FindStringSubmatch(name)
	if m == nil {
		return ResolutionUnknown
	}
	switch m[1] {
	case "2160":
		return Resolution2160p
	case "1080":
		return Resolution1080p
	case "720":
		return Resolution720p
	default:
		return Resolution480p
	}
}

// stripExt drops a short alphanumeric extension such as ".mkv"; release
// names like "Show.S01.x264-GRP" keep their last dotted token.
func stripExt(name string) string {
	ext := path.Ext(name)
	if len(ext) < 2 || len(ext) > 5 {
		return name
	}
	for _, r := range ext[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return name
		}
	}
	return strings.TrimSuffix(name, ext)
}

// firstGroup returns the first participating capture group of a match.
func firstGroup(s string, m []int) string {
	for i := 2; i+1 < len(m); i += 2 {
		if m[i] >= 0 {
			return s[m[i]:m[i+1]]
		}
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
