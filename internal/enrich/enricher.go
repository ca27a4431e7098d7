// Package enrich fills supplementary fields (publisher, release date,
// description, genres, tags, alternate title lane) on confirmed series
// after resolution. It only ever writes into fields that are empty, so a
// series' resolved facts and any manual corrections are never regressed.
package enrich

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"hondana/internal/enrich/anilist"
	"hondana/internal/enrich/openbd"
	"hondana/internal/logging"
	"hondana/internal/metadata"
	"hondana/internal/services"
	"hondana/internal/state"
)

const (
	defaultRequestDelay   = 500 * time.Millisecond
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 2 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
)

// OpenBDClient is the subset of the openBD client the enricher uses.
type OpenBDClient interface {
	ByISBN(ctx context.Context, isbn13 string) (*openbd.Book, error)
}

// AniListClient is the subset of the AniList client the enricher uses.
type AniListClient interface {
	SearchManga(ctx context.Context, search string) (*anilist.Media, error)
}

// Enricher walks confirmed outcomes and gathers missing fields. Either
// client may be nil, disabling that source.
type Enricher struct {
	openbd  OpenBDClient
	anilist AniListClient
	logger  *slog.Logger

	requestDelay     time.Duration
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleep            func(context.Context, time.Duration) error
	lastRequest      time.Time
}

// Option customizes an Enricher.
type Option func(*Enricher)

// WithRequestDelay overrides the fixed inter-call delay.
func WithRequestDelay(delay time.Duration) Option {
	return func(e *Enricher) {
		if delay >= 0 {
			e.requestDelay = delay
		}
	}
}

// WithRetry overrides the bounded-backoff retry parameters.
func WithRetry(maxAttempts int, baseDelay, maxDelay time.Duration) Option {
	return func(e *Enricher) {
		if maxAttempts > 0 {
			e.retryMaxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			e.retryBaseDelay = baseDelay
		}
		if maxDelay > 0 {
			e.retryMaxDelay = maxDelay
		}
	}
}

// WithSleeper overrides how delays are performed (used in tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(e *Enricher) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// New creates an Enricher.
func New(openbdClient OpenBDClient, anilistClient AniListClient, logger *slog.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		openbd:           openbdClient,
		anilist:          anilistClient,
		logger:           logging.NewComponentLogger(logger, "enricher"),
		requestDelay:     defaultRequestDelay,
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
		sleep: func(ctx context.Context, d time.Duration) error {
			if d <= 0 {
				return nil
			}
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run enriches every confirmed series whose enrichment is incomplete,
// mutating the supplied mapping in place. Returns how many series gained
// at least one field. Lookup failures skip the series; they do not abort
// the pass.
func (e *Enricher) Run(ctx context.Context, s *state.State, enrichment map[string]metadata.Enrichment) (int, error) {
	updated := 0
	for _, key := range sortedKeys(s.Confirmed) {
		outcome := s.Confirmed[key]
		entry := enrichment[key]
		entry.SeriesKey = key
		if entry.Complete() {
			continue
		}

		changed := false
		if e.openbd != nil && outcome.Vol1 != nil && outcome.Vol1.ISBN13 != "" {
			if e.fillFromOpenBD(ctx, &entry, outcome.Vol1.ISBN13) {
				changed = true
			}
		}
		if e.anilist != nil {
			if e.fillFromAniList(ctx, &entry, key) {
				changed = true
			}
		}
		if changed {
			enrichment[key] = entry
			updated++
		}
		if err := ctx.Err(); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func (e *Enricher) fillFromOpenBD(ctx context.Context, entry *metadata.Enrichment, isbn13 string) bool {
	if entry.Publisher != "" && entry.ReleaseDate != "" && entry.Description != "" {
		return false
	}
	var book *openbd.Book
	err := e.withRetry(ctx, func() error {
		var callErr error
		book, callErr = e.openbd.ByISBN(ctx, isbn13)
		return callErr
	})
	if err != nil {
		e.logger.Warn("openbd lookup failed",
			logging.String(logging.FieldSeriesKey, entry.SeriesKey),
			logging.Error(err))
		return false
	}

	changed := false
	if entry.Publisher == "" && book.Publisher != "" {
		entry.Publisher = book.Publisher
		changed = true
	}
	if entry.ReleaseDate == "" && book.PubDate != "" {
		entry.ReleaseDate = book.PubDate
		changed = true
	}
	if entry.Description == "" && book.Description != "" {
		entry.Description = book.Description
		changed = true
	}
	return changed
}

func (e *Enricher) fillFromAniList(ctx context.Context, entry *metadata.Enrichment, seriesKey string) bool {
	if entry.TitleLane2 != "" && len(entry.Genres) > 0 && len(entry.Tags) > 0 && len(entry.Contributors) > 0 {
		return false
	}
	var media *anilist.Media
	err := e.withRetry(ctx, func() error {
		var callErr error
		media, callErr = e.anilist.SearchManga(ctx, seriesKey)
		return callErr
	})
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			e.logger.Warn("anilist lookup failed",
				logging.String(logging.FieldSeriesKey, seriesKey),
				logging.Error(err))
		}
		return false
	}

	changed := false
	if entry.TitleLane2 == "" {
		lane := media.TitleRomaji
		if lane == "" {
			lane = media.TitleEnglish
		}
		if lane != "" {
			entry.TitleLane2 = lane
			changed = true
		}
	}
	if len(entry.Genres) == 0 && len(media.Genres) > 0 {
		entry.Genres = media.Genres
		changed = true
	}
	if len(entry.Tags) == 0 && len(media.Tags) > 0 {
		entry.Tags = media.Tags
		changed = true
	}
	if len(entry.Contributors) == 0 && len(media.Staff) > 0 {
		entry.Contributors = media.Staff
		changed = true
	}
	return changed
}

// withRetry paces calls and retries throttled ones with bounded exponential
// backoff.
func (e *Enricher) withRetry(ctx context.Context, call func() error) error {
	var lastErr error
	for attempt := 1; attempt <= e.retryMaxAttempts; attempt++ {
		if wait := e.requestDelay - time.Since(e.lastRequest); wait > 0 {
			if err := e.sleep(ctx, wait); err != nil {
				return err
			}
		}
		e.lastRequest = time.Now()

		lastErr = call()
		if lastErr == nil {
			return nil
		}
		if !services.Retryable(lastErr) || attempt == e.retryMaxAttempts {
			return lastErr
		}
		if err := e.sleep(ctx, e.backoffDelay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func (e *Enricher) backoffDelay(attempt int) time.Duration {
	delay := e.retryBaseDelay << (attempt - 1)
	if delay > e.retryMaxDelay {
		delay = e.retryMaxDelay
	}
	return delay
}

func sortedKeys(mapping map[string]metadata.SeriesOutcome) []string {
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	// Deterministic walk order keeps log output stable.
	sort.Strings(keys)
	return keys
}
