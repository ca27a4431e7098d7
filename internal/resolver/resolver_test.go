package resolver_test

import (
	"context"
	"testing"
	"time"

	"hondana/internal/lookup"
	"hondana/internal/lookupcache"
	"hondana/internal/logging"
	"hondana/internal/metadata"
	"hondana/internal/resolver"
	"hondana/internal/services"
)

// fakeClient is a scripted lookup vendor. Items are keyed by identifier for
// direct fetches; every search returns the same result list.
type fakeClient struct {
	items         map[string]lookup.Item
	searchResults []lookup.Item
	searchErr     error
	fetchErr      error

	fetches  []string
	searches []string
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) ByIdentifier(ctx context.Context, id string) (*lookup.Item, error) {
	f.fetches = append(f.fetches, id)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	item, ok := f.items[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "fake", "get", "no item "+id, nil)
	}
	return &item, nil
}

func (f *fakeClient) Search(ctx context.Context, query string) ([]lookup.Item, error) {
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestResolver(t *testing.T, client lookup.Client, opts ...resolver.Option) *resolver.Resolver {
	t.Helper()
	opts = append([]resolver.Option{
		resolver.WithRequestDelay(0),
		resolver.WithSleeper(noSleep),
	}, opts...)
	return resolver.New(client, logging.NewNop(), opts...)
}

func TestResolveHintConfirmsMainlineVolume(t *testing.T) {
	client := &fakeClient{
		items: map[string]lookup.Item{
			"B000000001": {
				Title:  "サンプル作品 1巻",
				ISBN13: "9784107720498",
				ASIN:   "B000000001",
				Image:  "https://img.example/sample.jpg",
			},
		},
	}
	r := newTestResolver(t, client)

	seed := metadata.Seed{
		SeriesKey: "サンプル作品",
		Author:    "作者",
		Vol1Hint:  metadata.SeedHint{ASIN: "B000000001"},
	}
	outcome, trace := r.Resolve(context.Background(), seed)

	if outcome.Kind != metadata.KindConfirmed {
		t.Fatalf("kind = %s (reason %s), want confirmed", outcome.Kind, outcome.Reason)
	}
	if outcome.SourcePath != "hint:asin" {
		t.Fatalf("sourcePath = %q", outcome.SourcePath)
	}
	if outcome.Vol1 == nil || outcome.Vol1.AmazonDP != "https://www.amazon.co.jp/dp/B000000001" {
		t.Fatalf("vol1 = %+v", outcome.Vol1)
	}
	if len(client.searches) != 0 {
		t.Fatalf("hint resolution should not search, did %v", client.searches)
	}
	if trace.Outcome != "confirmed" {
		t.Fatalf("trace outcome = %q", trace.Outcome)
	}
}

func TestResolveHintRejectedFallsThroughToSearch(t *testing.T) {
	client := &fakeClient{
		items: map[string]lookup.Item{
			// The hinted record is a derived edition; the hint path must
			// reject it and the search path must take over.
			"B000000002": {Title: "サンプル作品 新装版 1巻", ISBN13: "9784107720401", ASIN: "B000000002"},
		},
		searchResults: []lookup.Item{
			{Title: "サンプル作品 1巻", ISBN13: "9784107720498", ASIN: "B000000003"},
		},
	}
	r := newTestResolver(t, client)

	outcome, _ := r.Resolve(context.Background(), metadata.Seed{
		SeriesKey: "サンプル作品",
		Vol1Hint:  metadata.SeedHint{ASIN: "B000000002"},
	})
	if outcome.Kind != metadata.KindConfirmed {
		t.Fatalf("kind = %s (reason %s), want confirmed via search", outcome.Kind, outcome.Reason)
	}
	if outcome.SourcePath != "search" {
		t.Fatalf("sourcePath = %q, want search", outcome.SourcePath)
	}
	if len(client.searches) == 0 {
		t.Fatal("expected search calls after hint rejection")
	}
}

func TestResolveConfigurationErrorShortCircuitsToTodo(t *testing.T) {
	client := &fakeClient{
		fetchErr: services.Wrap(services.ErrConfiguration, "fake", "get", "credentials missing", nil),
	}
	r := newTestResolver(t, client)

	outcome, _ := r.Resolve(context.Background(), metadata.Seed{
		SeriesKey: "サンプル作品",
		Vol1Hint:  metadata.SeedHint{ASIN: "B000000001"},
	})
	if outcome.Kind != metadata.KindTodo {
		t.Fatalf("kind = %s, want todo", outcome.Kind)
	}
	if outcome.Reason != resolver.ReasonLookupUnavailable {
		t.Fatalf("reason = %q, want %q", outcome.Reason, resolver.ReasonLookupUnavailable)
	}
	if len(client.searches) != 0 {
		t.Fatalf("configuration failure must not fall through to search, did %v", client.searches)
	}
}

func TestResolveSearchSuspiciousGoesToReview(t *testing.T) {
	client := &fakeClient{
		searchResults: []lookup.Item{
			{Title: "サンプル作品 〜外典〜 1", ISBN13: "9784107720511", ASIN: "B000000004"},
		},
	}
	r := newTestResolver(t, client)

	outcome, _ := r.Resolve(context.Background(), metadata.Seed{SeriesKey: "サンプル作品"})
	if outcome.Kind != metadata.KindReview {
		t.Fatalf("kind = %s (reason %s), want review", outcome.Kind, outcome.Reason)
	}
	if outcome.SourcePath != "search:unverified" {
		t.Fatalf("sourcePath = %q", outcome.SourcePath)
	}
	if outcome.Vol1 == nil || outcome.Vol1.Title != "サンプル作品 〜外典〜 1" {
		t.Fatalf("review must carry the suspicious record: %+v", outcome.Vol1)
	}
}

func TestResolveSearchNoCandidateGoesToTodo(t *testing.T) {
	client := &fakeClient{
		searchResults: []lookup.Item{
			{Title: "全然違う本", ISBN13: "9784107720528"},
		},
	}
	r := newTestResolver(t, client)

	outcome, _ := r.Resolve(context.Background(), metadata.Seed{SeriesKey: "サンプル作品"})
	if outcome.Kind != metadata.KindTodo {
		t.Fatalf("kind = %s, want todo", outcome.Kind)
	}
	if outcome.Reason != resolver.ReasonNoCandidate {
		t.Fatalf("reason = %q", outcome.Reason)
	}
}

func TestResolveSearchCandidateWithoutISBNConfirmedByFetch(t *testing.T) {
	client := &fakeClient{
		searchResults: []lookup.Item{
			{Title: "サンプル作品 1巻", ASIN: "B000000005", Image: "https://img.example/s.jpg"},
		},
		items: map[string]lookup.Item{
			"B000000005": {Title: "サンプル作品 1巻", ISBN13: "9784107720535"},
		},
	}
	r := newTestResolver(t, client)

	outcome, _ := r.Resolve(context.Background(), metadata.Seed{SeriesKey: "サンプル作品"})
	if outcome.Kind != metadata.KindConfirmed {
		t.Fatalf("kind = %s (reason %s), want confirmed", outcome.Kind, outcome.Reason)
	}
	if outcome.SourcePath != "search+fetch" {
		t.Fatalf("sourcePath = %q", outcome.SourcePath)
	}
	if outcome.Vol1 == nil {
		t.Fatal("missing vol1")
	}
	// The fetch is authoritative; the search candidate fills the gaps it left.
	if outcome.Vol1.ISBN13 != "9784107720535" {
		t.Fatalf("isbn13 = %q", outcome.Vol1.ISBN13)
	}
	if outcome.Vol1.ASIN != "B000000005" || outcome.Vol1.Image != "https://img.example/s.jpg" {
		t.Fatalf("gap fill failed: %+v", outcome.Vol1)
	}
}

func TestResolveFinalGuardRejectsNonMainlineFetch(t *testing.T) {
	client := &fakeClient{
		searchResults: []lookup.Item{
			{Title: "サンプル作品 1巻", ASIN: "B000000006"},
		},
		items: map[string]lookup.Item{
			// The authoritative record turns out to be a box set.
			"B000000006": {Title: "サンプル作品 全3巻セット", ISBN13: "9784107720542"},
		},
	}
	r := newTestResolver(t, client)

	outcome, _ := r.Resolve(context.Background(), metadata.Seed{SeriesKey: "サンプル作品"})
	if outcome.Kind != metadata.KindTodo {
		t.Fatalf("kind = %s, want todo", outcome.Kind)
	}
	if outcome.Reason != resolver.ReasonFinalGuard {
		t.Fatalf("reason = %q, want %q", outcome.Reason, resolver.ReasonFinalGuard)
	}
}

func TestResolveRetriesThrottledFetch(t *testing.T) {
	throttled := services.Wrap(services.ErrThrottled, "fake", "get", "http 429", nil)
	client := &throttleOnceClient{
		err: throttled,
		item: lookup.Item{
			Title:  "サンプル作品 1巻",
			ISBN13: "9784107720498",
			ASIN:   "B000000007",
		},
	}
	r := newTestResolver(t, client)

	outcome, _ := r.Resolve(context.Background(), metadata.Seed{
		SeriesKey: "サンプル作品",
		Vol1Hint:  metadata.SeedHint{ASIN: "B000000007"},
	})
	if outcome.Kind != metadata.KindConfirmed {
		t.Fatalf("kind = %s (reason %s), want confirmed after retry", outcome.Kind, outcome.Reason)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 fetch attempts, got %d", client.calls)
	}
}

// throttleOnceClient fails the first fetch with the configured error, then
// succeeds.
type throttleOnceClient struct {
	err   error
	item  lookup.Item
	calls int
}

func (c *throttleOnceClient) Name() string { return "fake" }

func (c *throttleOnceClient) ByIdentifier(ctx context.Context, id string) (*lookup.Item, error) {
	c.calls++
	if c.calls == 1 {
		return nil, c.err
	}
	item := c.item
	return &item, nil
}

func (c *throttleOnceClient) Search(ctx context.Context, query string) ([]lookup.Item, error) {
	return nil, services.Wrap(services.ErrNotFound, "fake", "search", "unused", nil)
}

func TestResolveUsesCacheAcrossCalls(t *testing.T) {
	cache, err := lookupcache.Open("", 0, logging.NewNop())
	if err != nil {
		t.Fatalf("open no-op cache: %v", err)
	}
	defer cache.Close()

	client := &fakeClient{
		items: map[string]lookup.Item{
			"B000000008": {Title: "サンプル作品 1巻", ISBN13: "9784107720559", ASIN: "B000000008"},
		},
	}
	r := newTestResolver(t, client, resolver.WithCache(cache))

	seed := metadata.Seed{SeriesKey: "サンプル作品", Vol1Hint: metadata.SeedHint{ASIN: "B000000008"}}
	if outcome, _ := r.Resolve(context.Background(), seed); outcome.Kind != metadata.KindConfirmed {
		t.Fatalf("unexpected outcome %s", outcome.Kind)
	}
	// The no-op cache never hits, but resolution must be unaffected by its
	// presence.
	if outcome, _ := r.Resolve(context.Background(), seed); outcome.Kind != metadata.KindConfirmed {
		t.Fatalf("unexpected outcome %s on second call", outcome.Kind)
	}
}
