package metadata

// Enrichment holds the supplementary bibliographic fields gathered for a
// series after its volume 1 is resolved. The enrichment pass only ever
// fills fields that are empty; resolved facts are never rewritten. Fields
// with no automatic source (magazine, wikidataQid) may be filled by manual
// edits to the enrichment document.
type Enrichment struct {
	SeriesKey    string   `json:"seriesKey"`
	Publisher    string   `json:"publisher,omitempty"`
	ReleaseDate  string   `json:"releaseDate,omitempty"` // date-only, YYYY-MM-DD
	Description  string   `json:"description,omitempty"`
	Magazine     string   `json:"magazine,omitempty"`
	TitleLane2   string   `json:"titleLane2,omitempty"`
	WikidataQid  string   `json:"wikidataQid,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Complete reports whether every automatically sourced field is populated,
// letting the enricher skip series that need no further lookups.
func (e Enrichment) Complete() bool {
	return e.Publisher != "" &&
		e.ReleaseDate != "" &&
		e.Description != "" &&
		e.TitleLane2 != "" &&
		len(e.Contributors) > 0 &&
		len(e.Genres) > 0 &&
		len(e.Tags) > 0
}
