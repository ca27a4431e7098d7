// Package score assigns heuristic scores to lookup candidates and selects
// the best one for a series with deterministic tie-breaks.
package score

import (
	"unicode/utf8"

	"hondana/internal/edition"
	"hondana/internal/metadata"
	"hondana/internal/title"
)

// Score weights. The derived-edition penalty is effectively disqualifying
// but stays a penalty rather than a hard filter so the total ordering over
// rejects remains visible in traces.
const (
	weightISBN13   = 80
	weightSeries   = 40
	weightMarker   = 25
	weightDerived  = -1000
	weightMainline = 500

	// ASINBonus is added by call sites that prefer directly addressable
	// candidates.
	ASINBonus = 5
)

// Score computes the heuristic score of a candidate against a series key.
func Score(c metadata.Candidate, seriesKey string) int {
	s := 0
	if c.ISBN13 != "" {
		s += weightISBN13
	}
	if title.SeriesNameOccursIn(c.Title, seriesKey) {
		s += weightSeries
	}
	if edition.LooksLikeVolumeOne(c.Title) {
		s += weightMarker
	}
	if edition.IsDerivedEdition(c.Title) {
		s += weightDerived
	}
	if edition.IsMainlineVolumeOne(c.Title, seriesKey) {
		s += weightMainline
	}
	return s
}

// PickBest selects the strongest candidate: highest score, then mainline
// over non-mainline, then the shorter title (shorter titles carry less
// extraneous subtitle text), then first-seen input order. Returns nil on
// empty input. Candidates are expected to carry their Score already.
func PickBest(candidates []metadata.Candidate, seriesKey string) *metadata.Candidate {
	var best *metadata.Candidate
	bestMainline := false
	for i := range candidates {
		c := &candidates[i]
		if best == nil {
			best = c
			bestMainline = edition.IsMainlineVolumeOne(c.Title, seriesKey)
			continue
		}
		if c.Score != best.Score {
			if c.Score > best.Score {
				best = c
				bestMainline = edition.IsMainlineVolumeOne(c.Title, seriesKey)
			}
			continue
		}
		mainline := edition.IsMainlineVolumeOne(c.Title, seriesKey)
		if mainline != bestMainline {
			if mainline {
				best = c
				bestMainline = true
			}
			continue
		}
		if utf8.RuneCountInString(c.Title) < utf8.RuneCountInString(best.Title) {
			best = c
			bestMainline = mainline
		}
		// Equal on every axis: first-seen wins.
	}
	return best
}
