package resolver

import (
	"context"
	"log/slog"
	"time"

	"hondana/internal/logging"
	"hondana/internal/lookup"
	"hondana/internal/lookupcache"
	"hondana/internal/services"
)

const (
	defaultRequestDelay   = 1100 * time.Millisecond
	defaultRetryAttempts  = 4
	defaultRetryBaseDelay = 2 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
)

// Resolver resolves series seeds against a catalog lookup client.
type Resolver struct {
	client lookup.Client
	cache  *lookupcache.Cache
	logger *slog.Logger

	requestDelay     time.Duration
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleep            func(context.Context, time.Duration) error

	lastRequest time.Time
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithCache attaches a persistent identifier-lookup cache.
func WithCache(cache *lookupcache.Cache) Option {
	return func(r *Resolver) { r.cache = cache }
}

// WithRequestDelay overrides the fixed inter-call delay.
func WithRequestDelay(delay time.Duration) Option {
	return func(r *Resolver) {
		if delay >= 0 {
			r.requestDelay = delay
		}
	}
}

// WithRetry overrides the bounded-backoff retry parameters.
func WithRetry(maxAttempts int, baseDelay, maxDelay time.Duration) Option {
	return func(r *Resolver) {
		if maxAttempts > 0 {
			r.retryMaxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			r.retryBaseDelay = baseDelay
		}
		if maxDelay > 0 {
			r.retryMaxDelay = maxDelay
		}
	}
}

// WithSleeper overrides how delays are performed (used to collapse waits in
// tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(r *Resolver) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// New creates a Resolver around the supplied lookup client.
func New(client lookup.Client, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		client:           client,
		logger:           logging.NewComponentLogger(logger, "resolver"),
		requestDelay:     defaultRequestDelay,
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
		sleep:            sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
}

// pace enforces the fixed inter-call delay toward the vendor API.
func (r *Resolver) pace(ctx context.Context) error {
	if wait := r.requestDelay - time.Since(r.lastRequest); wait > 0 {
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}
	r.lastRequest = time.Now()
	return nil
}

func (r *Resolver) backoffDelay(attempt int) time.Duration {
	delay := r.retryBaseDelay << (attempt - 1)
	if delay > r.retryMaxDelay {
		delay = r.retryMaxDelay
	}
	return delay
}

// fetchByIdentifier performs a cached, paced, retried direct lookup.
func (r *Resolver) fetchByIdentifier(ctx context.Context, id string) (*lookup.Item, error) {
	if r.cache != nil {
		if item, ok := r.cache.Lookup(ctx, id); ok {
			r.logger.Debug("identifier served from cache", logging.String("identifier", id))
			return item, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= r.retryMaxAttempts; attempt++ {
		if err := r.pace(ctx); err != nil {
			return nil, err
		}
		item, err := r.client.ByIdentifier(ctx, id)
		if err == nil {
			if r.cache != nil {
				if storeErr := r.cache.Store(ctx, id, r.client.Name(), *item); storeErr != nil {
					r.logger.Warn("lookup cache store failed", logging.Error(storeErr))
				}
			}
			return item, nil
		}
		lastErr = err
		if !services.Retryable(err) || attempt == r.retryMaxAttempts {
			return nil, err
		}
		delay := r.backoffDelay(attempt)
		r.logger.Debug("retrying identifier lookup",
			logging.String("identifier", id),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay))
		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// searchByKeywords performs a paced, retried keyword search.
func (r *Resolver) searchByKeywords(ctx context.Context, query string) ([]lookup.Item, error) {
	var lastErr error
	for attempt := 1; attempt <= r.retryMaxAttempts; attempt++ {
		if err := r.pace(ctx); err != nil {
			return nil, err
		}
		items, err := r.client.Search(ctx, query)
		if err == nil {
			return items, nil
		}
		lastErr = err
		if !services.Retryable(err) || attempt == r.retryMaxAttempts {
			return nil, err
		}
		delay := r.backoffDelay(attempt)
		r.logger.Debug("retrying keyword search",
			logging.String(logging.FieldQuery, query),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay))
		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}
