package edition

import (
	"regexp"

	"hondana/internal/title"
)

// LooksLikeVolumeOne reports whether any volume-1 marker pattern matches
// anywhere in the half-width-normalized title. The weakest pattern (a bare
// standalone "1") is included, trading precision for recall; the scorer and
// suspicion detector resolve the resulting false positives downstream.
func LooksLikeVolumeOne(t string) bool {
	return title.HasVolumeOneMarker(t)
}

// episodeAfterSeries matches an episode/side-story marker sitting directly
// after the series name, e.g. "Series - Episode 1" or "作品名〜外伝".
var episodeAfterSeries = regexp.MustCompile(`^\s*[-ー~〜:：]*\s*(episode|外伝|番外編)`)

// IsMainlineVolumeOne reports whether the title is the first volume of the
// series' primary continuity: the series name occurs in the title, a
// volume-1 marker is present, the title is not a derived release, and the
// text immediately following the series name is not an episode or
// side-story marker.
func IsMainlineVolumeOne(t, seriesKey string) bool {
	if !title.SeriesNameOccursIn(t, seriesKey) {
		return false
	}
	if !LooksLikeVolumeOne(t) {
		return false
	}
	if IsDerivedEdition(t) {
		return false
	}
	if _, end := title.SeriesNameIndex(t, seriesKey); end >= 0 {
		rest := title.FoldedLower(t)[end:]
		if episodeAfterSeries.MatchString(rest) {
			return false
		}
	}
	return true
}
