package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanNumeralRegex matches II-IX after a space. Standalone I and X are
// left alone ("I Robot", "SPY x FAMILY").
var romanNumeralRegex = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanToArabic = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// punctuation is rewritten before titles are compared.
var punctuation = strings.NewReplacer(
	"&", " and ",
	"-", " ",
	"'", "",
	"’", "",
	".", " ",
	"_", " ",
)

var leadingArticles = []string{"the ", "a ", "an "}

// NormalizeRomanNumerals converts Roman numerals II-IX to Arabic numbers.
func NormalizeRomanNumerals(s string) string {
	return romanNumeralRegex.ReplaceAllStringFunc(s, func(match string) string {
		if arabic, ok := romanToArabic[strings.ToLower(strings.TrimSpace(match))]; ok {
			return " " + arabic
		}
		return match
	})
}

// CleanTitle lowercases a title and strips accents, punctuation, and leading
// articles so that differently formatted spellings compare equal. Letters of
// any script are kept.
func CleanTitle(title string) string {
	s := NormalizeRomanNumerals(strings.ToLower(title))
	s = removeAccents(s)
	s = punctuation.Replace(s)

	// "Léon: The Professional" -> "leon professional"
	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(part)
	}

	var b strings.Builder
	for _, r := range strings.Join(parts, " ") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

func stripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, art := range leadingArticles {
		if rest, ok := strings.CutPrefix(s, art); ok {
			return rest
		}
	}
	return s
}

// NormalizeSearchQuery prepares a show title for an indexer query: "&"
// becomes "and", NFC composition is applied, and whitespace is collapsed.
// Case and other punctuation are preserved.
func NormalizeSearchQuery(query string) string {
	s := norm.NFC.String(strings.ReplaceAll(query, "&", "and"))
	return strings.Join(strings.Fields(s), " ")
}
