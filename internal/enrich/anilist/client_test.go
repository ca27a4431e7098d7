package anilist_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hondana/internal/enrich/anilist"
	"hondana/internal/services"
)

const mediaPayload = `{
  "data": {
    "Media": {
      "title": {"romaji": "Gokushufudou", "english": "The Way of the Househusband", "native": "極主夫道"},
      "genres": ["Comedy", "Slice of Life"],
      "tags": [{"name": "Yakuza", "rank": 90}, {"name": "", "rank": 10}],
      "staff": {"edges": [
        {"role": "Story & Art", "node": {"name": {"full": "Kousuke Oono", "native": "おおのこうすけ"}}},
        {"role": "", "node": {"name": {"full": "Assistant", "native": ""}}}
      ]}
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *anilist.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return anilist.New(anilist.WithBaseURL(server.URL), anilist.WithHTTPClient(server.Client()))
}

func TestSearchMangaNormalizesMedia(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req struct {
			Query     string            `json:"query"`
			Variables map[string]string `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.Contains(req.Query, "type: MANGA") {
			t.Errorf("query missing manga filter: %s", req.Query)
		}
		if req.Variables["search"] != "極主夫道" {
			t.Errorf("search variable = %q", req.Variables["search"])
		}
		w.Write([]byte(mediaPayload))
	})

	media, err := client.SearchManga(context.Background(), "極主夫道")
	if err != nil {
		t.Fatalf("SearchManga failed: %v", err)
	}
	if media.TitleRomaji != "Gokushufudou" || media.TitleEnglish != "The Way of the Househusband" {
		t.Fatalf("titles = %q / %q", media.TitleRomaji, media.TitleEnglish)
	}
	if len(media.Genres) != 2 {
		t.Fatalf("genres = %v", media.Genres)
	}
	if len(media.Tags) != 1 || media.Tags[0] != "Yakuza" {
		t.Fatalf("empty tag names must be dropped: %v", media.Tags)
	}
	// Native staff names win over romanized ones, with the role appended.
	if len(media.Staff) != 2 {
		t.Fatalf("staff = %v", media.Staff)
	}
	if media.Staff[0] != "おおのこうすけ (Story & Art)" {
		t.Fatalf("staff[0] = %q", media.Staff[0])
	}
	if media.Staff[1] != "Assistant" {
		t.Fatalf("staff[1] = %q", media.Staff[1])
	}
}

func TestSearchMangaNoMatchIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"Media": null}}`))
	})

	_, err := client.SearchManga(context.Background(), "存在しない作品")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSearchMangaThrottledStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.SearchManga(context.Background(), "極主夫道")
	if !errors.Is(err, services.ErrThrottled) {
		t.Fatalf("expected throttled, got %v", err)
	}
	if !services.Retryable(err) {
		t.Fatal("throttled errors must be retryable")
	}
}

func TestSearchMangaEmptyTerm(t *testing.T) {
	client := anilist.New()
	_, err := client.SearchManga(context.Background(), "  ")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found for empty term, got %v", err)
	}
}
