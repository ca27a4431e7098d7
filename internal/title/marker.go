package title

import "regexp"

// markerDef pairs a volume-1 marker pattern with the index of the capture
// group holding the marker itself. Patterns run against the width-folded,
// lower-cased title, so full-width digits and parentheses are already ASCII.
// Order matters: the bare digit is the weakest signal and is matched last.
type markerDef struct {
	pattern *regexp.Regexp
	group   int
}

var markerDefs = []markerDef{
	// "(1)" with optional inner padding.
	{regexp.MustCompile(`(\(\s*1\s*\))`), 1},
	// "第1巻" with optional padding.
	{regexp.MustCompile(`(第\s*1\s*巻)`), 1},
	// "1巻" not preceded by another digit (so "11巻" does not match).
	{regexp.MustCompile(`(?:^|[^0-9])(1\s*巻)`), 1},
	// Bare standalone "1" token: not attached to any letter or digit, so
	// "1話" and "11" do not count but a trailing " 1" does. Known-permissive;
	// the scorer and the suspicion detector are tuned against its false
	// positives, so do not tighten this without re-validating those layers.
	{regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(1)(?:[^\p{L}\p{N}]|$)`), 1},
}

// FindVolumeMarker returns the byte range of the earliest volume-1 marker in
// the width-folded, lower-cased form of the title (the same view
// SeriesNameIndex positions refer to). Returns (-1, -1) when no marker
// matches.
func FindVolumeMarker(s string) (start, end int) {
	return findVolumeMarkerFolded(FoldedLower(s))
}

// FindVolumeMarkerFolded is FindVolumeMarker for input that is already
// folded and lower-cased, avoiding a second fold pass inside tight loops.
func FindVolumeMarkerFolded(folded string) (start, end int) {
	return findVolumeMarkerFolded(folded)
}

func findVolumeMarkerFolded(folded string) (start, end int) {
	start, end = -1, -1
	for _, def := range markerDefs {
		loc := def.pattern.FindStringSubmatchIndex(folded)
		if loc == nil {
			continue
		}
		ms, me := loc[2*def.group], loc[2*def.group+1]
		if start < 0 || ms < start {
			start, end = ms, me
		}
	}
	return start, end
}

// HasVolumeOneMarker reports whether any volume-1 marker appears in the
// title.
func HasVolumeOneMarker(s string) bool {
	start, _ := FindVolumeMarker(s)
	return start >= 0
}
