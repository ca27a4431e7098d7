// Package pipeline orchestrates full runs over the accumulated state: seed
// resolution, enrichment, and catalog export. Each run locks the state
// directory so concurrent invocations fail fast instead of interleaving
// writes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hondana/internal/catalog"
	"hondana/internal/config"
	"hondana/internal/enrich"
	"hondana/internal/enrich/anilist"
	"hondana/internal/enrich/openbd"
	"hondana/internal/logging"
	"hondana/internal/lookup"
	"hondana/internal/lookup/paapi"
	"hondana/internal/lookup/rakuten"
	"hondana/internal/lookupcache"
	"hondana/internal/metadata"
	"hondana/internal/resolver"
	"hondana/internal/state"
)

// Runner drives pipeline runs against one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// BuildResult summarizes one resolution run.
type BuildResult struct {
	RunID     string
	Seeds     int
	Attempted int
	Added     int
	Confirmed int
	Review    int
	Todo      int
}

// Build resolves pending seeds and merges the outcomes into the state.
func (r *Runner) Build(ctx context.Context) (*BuildResult, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	release, err := state.AcquireLock(r.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	defer release()

	st, err := state.Load(r.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	seeds, err := state.LoadSeeds(r.cfg.Paths.SeedsPath)
	if err != nil {
		return nil, err
	}
	pending := st.PendingSeeds(seeds, r.cfg.Pipeline.MaxNewPerRun)

	runID := state.NewRunID()
	result := &BuildResult{RunID: runID, Seeds: len(seeds)}
	if len(pending) == 0 {
		r.logger.Info("no pending seeds", logging.String(logging.FieldRunID, runID))
		return result, nil
	}

	client := r.lookupClient()
	res, closeCache, err := r.newResolver(client)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	outcomes := make([]metadata.SeriesOutcome, 0, len(pending))
	traces := make([]resolver.Trace, 0, len(pending))
	for _, seed := range pending {
		outcome, trace := res.Resolve(ctx, seed)
		outcomes = append(outcomes, outcome)
		traces = append(traces, trace)
		result.Attempted++
		if err := ctx.Err(); err != nil {
			break
		}
	}

	result.Added = st.Merge(outcomes)
	result.Confirmed = len(st.Confirmed)
	result.Review = len(st.Review)
	result.Todo = len(st.Todo)

	if err := st.Save(r.cfg.Paths.DataDir); err != nil {
		return nil, err
	}
	if err := state.SaveDebug(r.cfg.Paths.DataDir, runID, traces); err != nil {
		return nil, err
	}
	r.logger.Info("resolution run complete",
		logging.String(logging.FieldRunID, runID),
		logging.Int("attempted", result.Attempted),
		logging.Int("added", result.Added))
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// lookupClient picks the search vendor: PA-API when credentials exist,
// Rakuten Books otherwise. With neither configured, the zero-credential
// PA-API client is used so every seed lands in todo with a configuration
// reason instead of the run aborting.
func (r *Runner) lookupClient() lookup.Client {
	if r.cfg.Amazon.Configured() {
		return paapi.New(paapi.Config{
			AccessKey:   r.cfg.Amazon.AccessKey,
			SecretKey:   r.cfg.Amazon.SecretKey,
			PartnerTag:  r.cfg.Amazon.PartnerTag,
			Host:        r.cfg.Amazon.Host,
			Region:      r.cfg.Amazon.Region,
			Marketplace: r.cfg.Amazon.Marketplace,
		})
	}
	if r.cfg.Rakuten.Configured() {
		return rakuten.New(r.cfg.Rakuten.ApplicationID)
	}
	r.logger.Warn("no lookup vendor configured, resolution will defer all seeds")
	return paapi.New(paapi.Config{})
}

func (r *Runner) newResolver(client lookup.Client) (*resolver.Resolver, func(), error) {
	opts := []resolver.Option{
		resolver.WithRequestDelay(time.Duration(r.cfg.Pipeline.RequestDelayMS) * time.Millisecond),
		resolver.WithRetry(r.cfg.Pipeline.RetryMaxAttempts, 0, 0),
	}
	closeCache := func() {}
	if r.cfg.LookupCache.Enabled {
		ttl := time.Duration(r.cfg.LookupCache.TTLDays) * 24 * time.Hour
		cache, err := lookupcache.Open(r.cfg.LookupCache.Path, ttl, r.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open lookup cache: %w", err)
		}
		opts = append(opts, resolver.WithCache(cache))
		closeCache = func() {
			if err := cache.Close(); err != nil {
				r.logger.Warn("close lookup cache", logging.Error(err))
			}
		}
	}
	return resolver.New(client, r.logger, opts...), closeCache, nil
}

// EnrichResult summarizes one enrichment run.
type EnrichResult struct {
	Confirmed int
	Updated   int
}

// Enrich fills supplementary metadata for confirmed series.
func (r *Runner) Enrich(ctx context.Context) (*EnrichResult, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	release, err := state.AcquireLock(r.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	defer release()

	st, err := state.Load(r.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	enrichment, err := state.LoadEnrichment(r.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}

	var openbdClient enrich.OpenBDClient
	if r.cfg.Enrichment.OpenBDEnabled {
		openbdClient = openbd.New()
	}
	var anilistClient enrich.AniListClient
	if r.cfg.Enrichment.AniListEnabled {
		anilistClient = anilist.New()
	}

	enricher := enrich.New(openbdClient, anilistClient, r.logger,
		enrich.WithRequestDelay(time.Duration(r.cfg.Pipeline.RequestDelayMS)*time.Millisecond),
		enrich.WithRetry(r.cfg.Pipeline.RetryMaxAttempts, 0, 0))
	updated, runErr := enricher.Run(ctx, st, enrichment)
	if updated > 0 {
		if err := state.SaveEnrichment(r.cfg.Paths.DataDir, enrichment); err != nil {
			return nil, err
		}
	}
	result := &EnrichResult{Confirmed: len(st.Confirmed), Updated: updated}
	if runErr != nil {
		return result, runErr
	}
	r.logger.Info("enrichment run complete", logging.Int("updated", updated))
	return result, nil
}

// ExportResult summarizes one export.
type ExportResult struct {
	Records int
	Path    string
}

// Export flattens the state into the site data file.
func (r *Runner) Export(ctx context.Context) (*ExportResult, error) {
	_ = ctx
	st, err := state.Load(r.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	enrichment, err := state.LoadEnrichment(r.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	records := catalog.Build(st, enrichment)
	if err := catalog.Export(r.cfg.Paths.SiteDataPath, records); err != nil {
		return nil, err
	}
	r.logger.Info("catalog exported",
		logging.Int("records", len(records)),
		logging.String("path", r.cfg.Paths.SiteDataPath))
	return &ExportResult{Records: len(records), Path: r.cfg.Paths.SiteDataPath}, nil
}
