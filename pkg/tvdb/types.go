// Package tvdb provides a client for the TVDB API v4.
package tvdb

// Series is the catalog view of a TV series: titles resolved against the
// preferred language, plus the descriptive fields shown next to a show.
type Series struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`         // preferred language, then English, then original
	TitleEnglish string   `json:"title_english"` // empty when TVDB has no English translation
	OriginalName string   `json:"original_name"`
	Aliases      []string `json:"aliases,omitempty"`
	Year         int      `json:"year"`
	Country      string   `json:"country"`
	Status       string   `json:"status"` // "Continuing" or "Ended"
	Overview     string   `json:"overview"`
	ImageURL     string   `json:"image_url"`
	Genres       []string `json:"genres,omitempty"`
}

// Titles returns every distinct non-empty title the series is known by,
// preferred title first.
func (s Series) Titles() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range append([]string{s.Title, s.TitleEnglish, s.OriginalName}, s.Aliases...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// loginResponse is the TVDB login API response.
type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

type translation struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

// extendedResponse is the /series/{id}/extended?meta=translations response.
type extendedResponse struct {
	Status string `json:"status"`
	Data   struct {
		ID              int    `json:"id"`
		Name            string `json:"name"`
		Image           string `json:"image"`
		FirstAired      string `json:"firstAired"` // YYYY-MM-DD
		Year            string `json:"year"`
		OriginalCountry string `json:"originalCountry"`
		Overview        string `json:"overview"`
		Status          struct {
			Name string `json:"name"`
		} `json:"status"`
		Genres []struct {
			Name string `json:"name"`
		} `json:"genres"`
		Aliases []struct {
			Language string `json:"language"`
			Name     string `json:"name"`
		} `json:"aliases"`
		Translations struct {
			NameTranslations     []translation `json:"nameTranslations"`
			OverviewTranslations []translation `json:"overviewTranslations"`
		} `json:"translations"`
	} `json:"data"`
}
