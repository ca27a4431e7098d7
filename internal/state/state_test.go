package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"hondana/internal/metadata"
	"hondana/internal/state"
)

func confirmedOutcome(key string) metadata.SeriesOutcome {
	return metadata.Confirmed(key, "作者名", metadata.VolumeRecord{
		Title:  key + " 1巻",
		ISBN13: "9784107720498",
		Source: "hint:asin",
	}, "hint:asin")
}

func TestMergeFirstWriteWins(t *testing.T) {
	s := state.NewState()

	first := []metadata.SeriesOutcome{
		confirmedOutcome("極主夫道"),
		metadata.Todo("未解決作品", "", "no_candidate", "search"),
	}
	if added := s.Merge(first); added != 2 {
		t.Fatalf("first merge added %d, want 2", added)
	}

	// A later run resolving the todo series to confirmed must not move it.
	second := []metadata.SeriesOutcome{
		confirmedOutcome("未解決作品"),
		metadata.Review("極主夫道", "", metadata.VolumeRecord{Title: "極主夫道 〜外伝〜 1"}, "tilde_before_volume_marker", "search:unverified"),
	}
	if added := s.Merge(second); added != 0 {
		t.Fatalf("second merge added %d, want 0", added)
	}
	if _, ok := s.Todo["未解決作品"]; !ok {
		t.Fatal("todo entry moved categories on re-merge")
	}
	if outcome := s.Confirmed["極主夫道"]; outcome.Vol1 == nil || outcome.Vol1.Title != "極主夫道 1巻" {
		t.Fatalf("confirmed entry mutated: %+v", outcome)
	}
}

func TestMergeIdempotent(t *testing.T) {
	s := state.NewState()
	outcomes := []metadata.SeriesOutcome{
		confirmedOutcome("作品A"),
		metadata.Todo("作品B", "", "no_candidate", "search"),
	}
	if added := s.Merge(outcomes); added != 2 {
		t.Fatalf("first merge added %d", added)
	}
	if added := s.Merge(outcomes); added != 0 {
		t.Fatalf("repeat merge added %d, want 0", added)
	}
	if len(s.Confirmed) != 1 || len(s.Todo) != 1 {
		t.Fatalf("unexpected state sizes: %d confirmed, %d todo", len(s.Confirmed), len(s.Todo))
	}
}

func TestMergeSkipsEmptyKeysAndUnknownKinds(t *testing.T) {
	s := state.NewState()
	outcomes := []metadata.SeriesOutcome{
		{SeriesKey: "", Kind: metadata.KindConfirmed},
		{SeriesKey: "作品", Kind: metadata.OutcomeKind("bogus")},
	}
	if added := s.Merge(outcomes); added != 0 {
		t.Fatalf("merge added %d, want 0", added)
	}
}

func TestPendingSeeds(t *testing.T) {
	s := state.NewState()
	s.Merge([]metadata.SeriesOutcome{confirmedOutcome("既知作品")})

	seeds := []metadata.Seed{
		{SeriesKey: "既知作品"},
		{SeriesKey: "新作A"},
		{SeriesKey: "新作B"},
		{SeriesKey: "新作C"},
	}

	pending := s.PendingSeeds(seeds, 2)
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].SeriesKey != "新作A" || pending[1].SeriesKey != "新作B" {
		t.Fatalf("pending order wrong: %+v", pending)
	}

	if got := s.PendingSeeds(seeds, 0); len(got) != 3 {
		t.Fatalf("expected uncapped selection of 3, got %d", len(got))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := state.NewState()
	s.Merge([]metadata.SeriesOutcome{
		confirmedOutcome("極主夫道"),
		metadata.Review("別作品", "", metadata.VolumeRecord{Title: "別作品: 新章 1"}, "colon_before_volume_marker", "search:unverified"),
		metadata.Todo("未解決作品", "", "no_candidate", "search"),
	})

	if err := s.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	for _, name := range []string{"confirmed.json", "review.json", "todo.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}

	loaded, err := state.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Confirmed) != 1 || len(loaded.Review) != 1 || len(loaded.Todo) != 1 {
		t.Fatalf("unexpected sizes after reload: %d/%d/%d",
			len(loaded.Confirmed), len(loaded.Review), len(loaded.Todo))
	}
	got := loaded.Confirmed["極主夫道"]
	if got.Vol1 == nil || got.Vol1.ISBN13 != "9784107720498" {
		t.Fatalf("confirmed record did not round-trip: %+v", got)
	}
	if loaded.Review["別作品"].Reason != "colon_before_volume_marker" {
		t.Fatalf("review reason lost: %+v", loaded.Review["別作品"])
	}
}

func TestLoadMissingDirectoryYieldsEmptyState(t *testing.T) {
	s, err := state.Load(filepath.Join(t.TempDir(), "nonexistent"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Known("anything") {
		t.Fatal("expected empty state")
	}
}

func TestLoadSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.json")
	payload := `[
		{"seriesKey": "極主夫道", "author": "おおのこうすけ", "vol1Hint": {"asin": "B07D5XH2YQ"}},
		{"seriesKey": "  "},
		{"seriesKey": "極主夫道", "author": "duplicate"},
		{"seriesKey": "よつばと！"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write seeds: %v", err)
	}

	seeds, err := state.LoadSeeds(path)
	if err != nil {
		t.Fatalf("LoadSeeds failed: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("expected 2 seeds, got %d", len(seeds))
	}
	if seeds[0].SeriesKey != "極主夫道" || seeds[0].Author != "おおのこうすけ" {
		t.Fatalf("first seed wrong: %+v", seeds[0])
	}
	if seeds[0].Vol1Hint.ASIN != "B07D5XH2YQ" {
		t.Fatalf("hint lost: %+v", seeds[0].Vol1Hint)
	}
	if seeds[1].SeriesKey != "よつばと！" {
		t.Fatalf("second seed wrong: %+v", seeds[1])
	}
}

func TestEnrichmentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mapping := map[string]metadata.Enrichment{
		"極主夫道": {
			SeriesKey:   "極主夫道",
			Publisher:   "新潮社",
			ReleaseDate: "2018-07-09",
			Genres:      []string{"Comedy"},
		},
	}
	if err := state.SaveEnrichment(dir, mapping); err != nil {
		t.Fatalf("SaveEnrichment failed: %v", err)
	}
	loaded, err := state.LoadEnrichment(dir)
	if err != nil {
		t.Fatalf("LoadEnrichment failed: %v", err)
	}
	entry := loaded["極主夫道"]
	if entry.Publisher != "新潮社" || entry.ReleaseDate != "2018-07-09" {
		t.Fatalf("enrichment did not round-trip: %+v", entry)
	}
	if entry.Complete() {
		t.Fatal("partial enrichment should not report complete")
	}
}

func TestLoadEnrichmentMissingFile(t *testing.T) {
	mapping, err := state.LoadEnrichment(t.TempDir())
	if err != nil {
		t.Fatalf("LoadEnrichment failed: %v", err)
	}
	if len(mapping) != 0 {
		t.Fatalf("expected empty mapping, got %d entries", len(mapping))
	}
}

func TestAcquireLockExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()
	release, err := state.AcquireLock(dir)
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	if _, err := state.AcquireLock(dir); err == nil {
		t.Fatal("expected second lock to fail while held")
	}
	release()
	release2, err := state.AcquireLock(dir)
	if err != nil {
		t.Fatalf("lock after release failed: %v", err)
	}
	release2()
}

func TestSaveDebugWritesTraceDocument(t *testing.T) {
	dir := t.TempDir()
	runID := state.NewRunID()
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}
	if err := state.SaveDebug(dir, runID, nil); err != nil {
		t.Fatalf("SaveDebug failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "debug.json")); err != nil {
		t.Fatalf("expected debug.json: %v", err)
	}
}
