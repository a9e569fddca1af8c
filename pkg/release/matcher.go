package release

import (
	"fmt"
	"regexp"

	"github.com/hbollon/go-edlib"
)

// numberRegex extracts sequence numbers from titles ("2", "3").
var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence is the confidence level of a title match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

var confidenceNames = map[MatchConfidence]string{
	ConfidenceNone:   "none",
	ConfidenceLow:    "low",
	ConfidenceMedium: "medium",
	ConfidenceHigh:   "high",
}

func (c MatchConfidence) String() string {
	if name, ok := confidenceNames[c]; ok {
		return name
	}
	return "none"
}

// MarshalText encodes the confidence by name.
func (c MatchConfidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a confidence name.
func (c *MatchConfidence) UnmarshalText(text []byte) error {
	for conf, name := range confidenceNames {
		if name == string(text) {
			*c = conf
			return nil
		}
	}
	return fmt.Errorf("unknown match confidence %q", text)
}

// MatchResult is the best candidate of a fuzzy title match.
type MatchResult struct {
	Title      string          // matched candidate, empty when Confidence is none
	Score      float64         // Jaro-Winkler similarity (0.0-1.0)
	Confidence MatchConfidence
}

// MatchTitle finds the best match for title among candidates using
// Jaro-Winkler similarity on cleaned titles, adjusted for agreeing or
// conflicting sequence numbers ("Show 2" vs "Show").
func MatchTitle(title string, candidates []string) MatchResult {
	cleaned := CleanTitle(title)
	numbers := numberRegex.FindAllString(cleaned, -1)

	var best MatchResult
	for _, candidate := range candidates {
		c := CleanTitle(candidate)
		score := float64(edlib.JaroWinklerSimilarity(cleaned, c))
		score = adjustScoreForNumbers(score, numbers, numberRegex.FindAllString(c, -1))
		if score > best.Score {
			best = MatchResult{Title: candidate, Score: score}
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best.Confidence = ConfidenceNone
		best.Title = ""
	}
	return best
}

// adjustScoreForNumbers rewards a shared sequence number and penalizes a
// missing or different one. Titles without numbers are left unchanged.
func adjustScoreForNumbers(score float64, titleNums, candidateNums []string) float64 {
	if len(titleNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}
	for _, n := range titleNums {
		for _, m := range candidateNums {
			if n == m {
				return min(score*1.05, 1.0)
			}
		}
	}
	return score * 0.90
}
