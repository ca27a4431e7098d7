package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hondana/internal/edition"
	"hondana/internal/logging"
	"hondana/internal/lookup"
	"hondana/internal/metadata"
	"hondana/internal/score"
	"hondana/internal/services"
	"hondana/internal/suspicion"
	"hondana/internal/title"
)

// Reason tags recorded on todo outcomes.
const (
	ReasonLookupUnavailable = "lookup_unavailable"
	ReasonLookupError       = "lookup_error"
	ReasonNoCandidate       = "no_candidate"
	ReasonNoISBN13          = "no_isbn13"
	ReasonFinalGuard        = "final_guard_failed"
)

// searchQueryVariants builds the fixed keyword-query sequence for a series.
// The order is deliberate: bare series name first, then increasingly
// volume-1-specific forms.
func searchQueryVariants(seriesKey string) []string {
	return []string{
		seriesKey,
		seriesKey + " (1)",
		seriesKey + " 1",
		seriesKey + " 1 コミックス",
		seriesKey + " 1 (コミックス)",
	}
}

// Resolve runs the full state machine for one seed and returns its terminal
// outcome plus the resolution trace.
func (r *Resolver) Resolve(ctx context.Context, seed metadata.Seed) (metadata.SeriesOutcome, Trace) {
	logger := r.logger.With(logging.String(logging.FieldSeriesKey, seed.SeriesKey))
	trace := Trace{SeriesKey: seed.SeriesKey}

	outcome := r.resolve(ctx, seed, logger, &trace)
	trace.Outcome = string(outcome.Kind)
	trace.Reason = outcome.Reason

	logger.Info("series resolved",
		logging.String(logging.FieldOutcome, string(outcome.Kind)),
		logging.String(logging.FieldReason, outcome.Reason))
	return outcome, trace
}

func (r *Resolver) resolve(ctx context.Context, seed metadata.Seed, logger *slog.Logger, trace *Trace) metadata.SeriesOutcome {
	if !seed.Vol1Hint.Empty() {
		outcome, done := r.resolveByHint(ctx, seed, logger, trace)
		if done {
			return outcome
		}
	}
	return r.resolveBySearch(ctx, seed, logger, trace)
}

// resolveByHint attempts confirmation by identifier in priority order
// ASIN → ISBN-10 → ISBN-13. done=false means the search path should run.
func (r *Resolver) resolveByHint(ctx context.Context, seed metadata.Seed, logger *slog.Logger, trace *Trace) (metadata.SeriesOutcome, bool) {
	hints := []struct {
		label string
		id    string
	}{
		{"asin", seed.Vol1Hint.ASIN},
		{"isbn10", seed.Vol1Hint.ISBN10},
		{"isbn13", seed.Vol1Hint.ISBN13},
	}

	for _, hint := range hints {
		if hint.id == "" {
			continue
		}
		item, err := r.fetchByIdentifier(ctx, hint.id)
		if err != nil {
			if errors.Is(err, services.ErrConfiguration) {
				// Operator misconfiguration must surface, not silently
				// degrade into the search path.
				trace.add(Step{Op: "hint_fetch", Identifier: hint.id, Note: "unavailable"})
				return metadata.Todo(seed.SeriesKey, seed.Author, ReasonLookupUnavailable, "hint:"+hint.label), true
			}
			trace.add(Step{Op: "hint_fetch", Identifier: hint.id, Note: errNote(err)})
			continue
		}

		if item.ISBN13 == "" || !edition.IsMainlineVolumeOne(item.Title, seed.SeriesKey) {
			trace.add(Step{Op: "hint_fetch", Identifier: hint.id, Note: "rejected: " + item.Title})
			continue
		}

		sourcePath := "hint:" + hint.label
		vol1 := r.volumeRecord(*item, seed.Vol1Hint.ISBN10, sourcePath)
		if verdict := suspicion.Detect(item.Title, seed.SeriesKey); verdict.Suspicious {
			trace.add(Step{Op: "hint_fetch", Identifier: hint.id, Note: "suspicious: " + verdict.Reason})
			return metadata.Review(seed.SeriesKey, seed.Author, vol1, verdict.Reason, sourcePath), true
		}
		trace.add(Step{Op: "hint_fetch", Identifier: hint.id, Note: "confirmed"})
		return metadata.Confirmed(seed.SeriesKey, seed.Author, vol1, sourcePath), true
	}

	logger.Debug("no hint resolved, falling through to search")
	trace.add(Step{Op: "hint_path", Note: "no hint resolved, falling through to search"})
	return metadata.SeriesOutcome{}, false
}

// resolveBySearch runs the keyword-search path and, when needed, the final
// confirmation fetch.
func (r *Resolver) resolveBySearch(ctx context.Context, seed metadata.Seed, logger *slog.Logger, trace *Trace) metadata.SeriesOutcome {
	var perQueryBest []metadata.Candidate
	sawUnavailable := false

	for _, query := range searchQueryVariants(seed.SeriesKey) {
		items, err := r.searchByKeywords(ctx, query)
		if err != nil {
			if errors.Is(err, services.ErrConfiguration) {
				sawUnavailable = true
			}
			trace.add(Step{Op: "search", Query: query, Note: errNote(err)})
			continue
		}

		candidates, rejects := r.rankSearchResults(items, query, seed.SeriesKey)
		trace.add(Step{Op: "search", Query: query, Note: fmt.Sprintf("%d results, %d candidates", len(items), len(candidates)), Rejects: rejects})
		if best := score.PickBest(candidates, seed.SeriesKey); best != nil {
			perQueryBest = append(perQueryBest, *best)
		}
	}

	best := score.PickBest(perQueryBest, seed.SeriesKey)
	if best != nil {
		logger.Debug("best search candidate",
			logging.String("candidate_title", best.Title),
			logging.Int("candidate_score", best.Score),
			logging.String(logging.FieldQuery, best.Query))
	}
	if best == nil || (best.ASIN == "" && best.ISBN13 == "") {
		reason := ReasonNoCandidate
		if sawUnavailable {
			reason = ReasonLookupUnavailable
		}
		return metadata.Todo(seed.SeriesKey, seed.Author, reason, "search")
	}

	if verdict := suspicion.Detect(best.Title, seed.SeriesKey); verdict.Suspicious {
		vol1 := r.candidateRecord(*best, "search:unverified")
		trace.add(Step{Op: "select", Note: "suspicious: " + verdict.Reason})
		return metadata.Review(seed.SeriesKey, seed.Author, vol1, verdict.Reason, "search:unverified")
	}

	// Search already returned enough fields: confirm without another call.
	if best.ISBN13 != "" && edition.IsMainlineVolumeOne(best.Title, seed.SeriesKey) {
		trace.add(Step{Op: "select", Note: "confirmed from search data"})
		return metadata.Confirmed(seed.SeriesKey, seed.Author, r.candidateRecord(*best, "search"), "search")
	}

	return r.confirmCandidate(ctx, seed, *best, trace)
}

// confirmCandidate performs the authoritative fetch for a search candidate
// and applies the final guards.
func (r *Resolver) confirmCandidate(ctx context.Context, seed metadata.Seed, best metadata.Candidate, trace *Trace) metadata.SeriesOutcome {
	confirmID := best.ASIN
	if confirmID == "" {
		confirmID = best.ISBN13
	}

	item, err := r.fetchByIdentifier(ctx, confirmID)
	if err != nil {
		trace.add(Step{Op: "confirm_fetch", Identifier: confirmID, Note: errNote(err)})
		reason := ReasonLookupError
		if errors.Is(err, services.ErrConfiguration) {
			reason = ReasonLookupUnavailable
		}
		return metadata.Todo(seed.SeriesKey, seed.Author, reason, "search+fetch")
	}

	if verdict := suspicion.Detect(item.Title, seed.SeriesKey); verdict.Suspicious {
		vol1 := r.volumeRecord(*item, "", "search+fetch")
		trace.add(Step{Op: "confirm_fetch", Identifier: confirmID, Note: "suspicious: " + verdict.Reason})
		return metadata.Review(seed.SeriesKey, seed.Author, vol1, verdict.Reason, "search+fetch")
	}

	if !edition.IsMainlineVolumeOne(item.Title, seed.SeriesKey) {
		trace.add(Step{Op: "confirm_fetch", Identifier: confirmID, Note: "final guard rejected: " + item.Title})
		return metadata.Todo(seed.SeriesKey, seed.Author, ReasonFinalGuard, "search+fetch")
	}
	if item.ISBN13 == "" {
		trace.add(Step{Op: "confirm_fetch", Identifier: confirmID, Note: "no isbn13 on authoritative record"})
		return metadata.Todo(seed.SeriesKey, seed.Author, ReasonNoISBN13, "search+fetch")
	}

	// The fetched record is authoritative; fall back to search-derived
	// fields only where the fetch left gaps.
	merged := *item
	if merged.ASIN == "" {
		merged.ASIN = best.ASIN
	}
	if merged.Image == "" {
		merged.Image = best.Image
	}
	trace.add(Step{Op: "confirm_fetch", Identifier: confirmID, Note: "confirmed"})
	return metadata.Confirmed(seed.SeriesKey, seed.Author, r.volumeRecord(merged, "", "search+fetch"), "search+fetch")
}

// rankSearchResults filters and scores one query's results. Results whose
// title does not contain the series name are discarded outright; surviving
// non-mainline candidates are reported as rejects for the trace.
func (r *Resolver) rankSearchResults(items []lookup.Item, query, seriesKey string) ([]metadata.Candidate, []string) {
	var candidates []metadata.Candidate
	var rejects []string
	for _, item := range items {
		if !title.SeriesNameOccursIn(item.Title, seriesKey) {
			continue
		}
		c := metadata.Candidate{
			Title:  item.Title,
			ISBN13: item.ISBN13,
			ASIN:   item.ASIN,
			Image:  item.Image,
			Source: r.client.Name(),
			Query:  query,
		}
		c.Score = score.Score(c, seriesKey)
		if c.ASIN != "" {
			c.Score += score.ASINBonus
		}
		if !edition.IsMainlineVolumeOne(c.Title, seriesKey) && len(rejects) < maxTraceRejects {
			rejects = append(rejects, c.Title)
		}
		candidates = append(candidates, c)
	}
	return candidates, rejects
}

func (r *Resolver) volumeRecord(item lookup.Item, hintISBN10, source string) metadata.VolumeRecord {
	return metadata.VolumeRecord{
		Title:    item.Title,
		ISBN13:   item.ISBN13,
		ASIN:     item.ASIN,
		Image:    item.Image,
		AmazonDP: metadata.AmazonDPURL(item.ASIN, hintISBN10, item.ISBN13),
		Source:   source,
	}
}

func (r *Resolver) candidateRecord(c metadata.Candidate, source string) metadata.VolumeRecord {
	return metadata.VolumeRecord{
		Title:    c.Title,
		ISBN13:   c.ISBN13,
		ASIN:     c.ASIN,
		Image:    c.Image,
		AmazonDP: metadata.AmazonDPURL(c.ASIN, "", c.ISBN13),
		Source:   source,
	}
}

func errNote(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
