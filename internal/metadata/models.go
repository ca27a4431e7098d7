package metadata

import "strings"

// OutcomeKind names the terminal category a series lands in.
type OutcomeKind string

const (
	// KindConfirmed marks an auto-accepted volume 1.
	KindConfirmed OutcomeKind = "confirmed"
	// KindReview marks a resolved volume 1 flagged for manual checking.
	KindReview OutcomeKind = "review"
	// KindTodo marks a series the pipeline could not resolve.
	KindTodo OutcomeKind = "todo"
)

// SeedHint carries externally supplied identifiers believed to point at a
// series' first volume. Any subset of the fields may be set.
type SeedHint struct {
	ASIN   string `json:"asin,omitempty" toml:"asin"`
	ISBN10 string `json:"isbn10,omitempty" toml:"isbn10"`
	ISBN13 string `json:"isbn13,omitempty" toml:"isbn13"`
}

// Empty reports whether the hint carries no identifiers at all.
func (h SeedHint) Empty() bool {
	return strings.TrimSpace(h.ASIN) == "" &&
		strings.TrimSpace(h.ISBN10) == "" &&
		strings.TrimSpace(h.ISBN13) == ""
}

// Seed is one entry of the input backlog: a series key plus optional
// author and volume-1 identifier hints.
type Seed struct {
	SeriesKey string   `json:"seriesKey" toml:"series_key"`
	Author    string   `json:"author,omitempty" toml:"author"`
	Vol1Hint  SeedHint `json:"vol1Hint,omitempty" toml:"vol1_hint"`
}

// Candidate is a raw lookup result scored during one resolution attempt.
// Candidates are ephemeral and never persisted standalone.
type Candidate struct {
	Title  string
	ISBN13 string
	ASIN   string
	Image  string
	Score  int

	// Provenance, kept for the resolution trace.
	Source string
	Query  string
}

// VolumeRecord is the resolved volume-1 payload of a series.
type VolumeRecord struct {
	Title    string `json:"title"`
	ISBN13   string `json:"isbn13,omitempty"`
	ASIN     string `json:"asin,omitempty"`
	Image    string `json:"image,omitempty"`
	AmazonDP string `json:"amazonDp,omitempty"`
	Source   string `json:"source"`
}

// SeriesOutcome is the terminal result of resolving one series. Exactly one
// of the three variants applies: confirmed (Vol1 set, no Reason), review
// (Vol1 set plus a Reason tag), todo (no Vol1, Reason tag explains why).
type SeriesOutcome struct {
	SeriesKey  string        `json:"seriesKey"`
	Author     string        `json:"author,omitempty"`
	Kind       OutcomeKind   `json:"kind"`
	Vol1       *VolumeRecord `json:"vol1,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	SourcePath string        `json:"sourcePath,omitempty"`
}

// Confirmed builds a confirmed outcome.
func Confirmed(seriesKey, author string, vol1 VolumeRecord, sourcePath string) SeriesOutcome {
	return SeriesOutcome{
		SeriesKey:  seriesKey,
		Author:     author,
		Kind:       KindConfirmed,
		Vol1:       &vol1,
		SourcePath: sourcePath,
	}
}

// Review builds a review outcome carrying the suspicious record as-is.
func Review(seriesKey, author string, vol1 VolumeRecord, reason, sourcePath string) SeriesOutcome {
	return SeriesOutcome{
		SeriesKey:  seriesKey,
		Author:     author,
		Kind:       KindReview,
		Vol1:       &vol1,
		Reason:     reason,
		SourcePath: sourcePath,
	}
}

// Todo builds an unresolved outcome.
func Todo(seriesKey, author, reason, sourcePath string) SeriesOutcome {
	return SeriesOutcome{
		SeriesKey:  seriesKey,
		Author:     author,
		Kind:       KindTodo,
		Reason:     reason,
		SourcePath: sourcePath,
	}
}
