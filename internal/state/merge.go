package state

import "hondana/internal/metadata"

// Merge inserts this run's outcomes into the accumulated state under the
// first-write-wins rule: a series key already present in any of the three
// mappings is left untouched, across categories, so keys never move or
// mutate once set. Returns the number of outcomes actually inserted.
// Merging the same outcome set twice is a no-op the second time.
func (s *State) Merge(outcomes []metadata.SeriesOutcome) int {
	added := 0
	for _, outcome := range outcomes {
		if outcome.SeriesKey == "" || s.Known(outcome.SeriesKey) {
			continue
		}
		switch outcome.Kind {
		case metadata.KindConfirmed:
			s.Confirmed[outcome.SeriesKey] = outcome
		case metadata.KindReview:
			s.Review[outcome.SeriesKey] = outcome
		case metadata.KindTodo:
			s.Todo[outcome.SeriesKey] = outcome
		default:
			continue
		}
		added++
	}
	return added
}

// PendingSeeds selects the seeds to attempt this run: those whose key is
// not yet known, in input order, capped at maxNew so large backlogs are
// worked down incrementally across runs. maxNew <= 0 means no cap.
func (s *State) PendingSeeds(seeds []metadata.Seed, maxNew int) []metadata.Seed {
	var pending []metadata.Seed
	for _, seed := range seeds {
		if seed.SeriesKey == "" || s.Known(seed.SeriesKey) {
			continue
		}
		pending = append(pending, seed)
		if maxNew > 0 && len(pending) == maxNew {
			break
		}
	}
	return pending
}
