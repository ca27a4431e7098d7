// Package catalog flattens accumulated state into the JSON records the
// static front end consumes: one record per known series, optional scalar
// fields emitted as explicit nulls for a stable client shape, sorted with
// Japanese collation.
package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hondana/internal/metadata"
	"hondana/internal/state"
)

// maxTags caps how many tags a record carries.
const maxTags = 12

// Meta carries secondary record fields grouped away from the card surface.
type Meta struct {
	TitleLane2  *string `json:"titleLane2"`
	Source      *string `json:"source"`
	WikidataQid *string `json:"wikidataQid"`
}

// Record is the flat per-series catalog entry. Scalar optionals are
// pointers so absent values serialize as null rather than disappearing.
type Record struct {
	SeriesKey    string   `json:"seriesKey"`
	Author       *string  `json:"author"`
	Title        string   `json:"title"`
	ASIN         *string  `json:"asin"`
	ISBN13       *string  `json:"isbn13"`
	AmazonDP     *string  `json:"amazonDp"`
	Image        *string  `json:"image"`
	Publisher    *string  `json:"publisher"`
	Contributors []string `json:"contributors"`
	ReleaseDate  *string  `json:"releaseDate"`
	Description  *string  `json:"description"`
	Magazine     *string  `json:"magazine"`
	Genres       []string `json:"genres"`
	Tags         []string `json:"tags"`
	Meta         Meta     `json:"meta"`
}

// Build flattens every known series into a sorted record list.
func Build(s *state.State, enrichment map[string]metadata.Enrichment) []Record {
	records := make([]Record, 0, len(s.Confirmed)+len(s.Review)+len(s.Todo))
	for _, mapping := range []map[string]metadata.SeriesOutcome{s.Confirmed, s.Review, s.Todo} {
		for _, outcome := range mapping {
			records = append(records, buildRecord(outcome, enrichment[outcome.SeriesKey]))
		}
	}

	collator := collate.New(language.Japanese)
	sort.SliceStable(records, func(i, j int) bool {
		return collator.CompareString(records[i].SeriesKey, records[j].SeriesKey) < 0
	})
	return records
}

func buildRecord(outcome metadata.SeriesOutcome, extra metadata.Enrichment) Record {
	record := Record{
		SeriesKey:    outcome.SeriesKey,
		Author:       optional(outcome.Author),
		Title:        outcome.SeriesKey,
		Publisher:    optional(extra.Publisher),
		Contributors: list(extra.Contributors),
		ReleaseDate:  optional(extra.ReleaseDate),
		Description:  optional(extra.Description),
		Magazine:     optional(extra.Magazine),
		Genres:       list(extra.Genres),
		Tags:         list(capTags(extra.Tags)),
		Meta: Meta{
			TitleLane2:  optional(extra.TitleLane2),
			Source:      optional(outcome.SourcePath),
			WikidataQid: optional(extra.WikidataQid),
		},
	}
	if outcome.Vol1 != nil {
		if outcome.Vol1.Title != "" {
			record.Title = outcome.Vol1.Title
		}
		record.ASIN = optional(outcome.Vol1.ASIN)
		record.ISBN13 = optional(outcome.Vol1.ISBN13)
		record.AmazonDP = optional(outcome.Vol1.AmazonDP)
		record.Image = optional(outcome.Vol1.Image)
	}
	return record
}

func capTags(tags []string) []string {
	if len(tags) > maxTags {
		return tags[:maxTags]
	}
	return tags
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// list normalizes nil slices to empty ones so lists serialize as [] rather
// than null.
func list(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
