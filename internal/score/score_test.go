package score_test

import (
	"testing"

	"hondana/internal/metadata"
	"hondana/internal/score"
)

const seriesKey = "極主夫道"

func TestScoreWeights(t *testing.T) {
	cases := []struct {
		name string
		c    metadata.Candidate
		want int
	}{
		{
			name: "mainline volume one with isbn",
			c:    metadata.Candidate{Title: "極主夫道 1巻", ISBN13: "9784107720498"},
			want: 80 + 40 + 25 + 500,
		},
		{
			name: "mainline volume one without isbn",
			c:    metadata.Candidate{Title: "極主夫道 (1)"},
			want: 40 + 25 + 500,
		},
		{
			name: "series only",
			c:    metadata.Candidate{Title: "極主夫道 5巻"},
			want: 40,
		},
		{
			name: "derived edition sinks",
			c:    metadata.Candidate{Title: "極主夫道 新装版 1巻", ISBN13: "9784107720498"},
			want: 80 + 40 + 25 - 1000,
		},
		{
			name: "unrelated title",
			c:    metadata.Candidate{Title: "別の本"},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := score.Score(tc.c, seriesKey); got != tc.want {
				t.Fatalf("Score(%q) = %d, want %d", tc.c.Title, got, tc.want)
			}
		})
	}
}

func scored(c metadata.Candidate) metadata.Candidate {
	c.Score = score.Score(c, seriesKey)
	return c
}

func TestPickBestPrefersScore(t *testing.T) {
	candidates := []metadata.Candidate{
		scored(metadata.Candidate{Title: "極主夫道 5巻", ISBN13: "9784107721198"}),
		scored(metadata.Candidate{Title: "極主夫道 1巻", ISBN13: "9784107720498"}),
	}
	best := score.PickBest(candidates, seriesKey)
	if best == nil || best.Title != "極主夫道 1巻" {
		t.Fatalf("expected volume 1 to win, got %+v", best)
	}
}

func TestPickBestTieBreaksOnShorterTitle(t *testing.T) {
	// Same score, both mainline: the shorter title carries less subtitle
	// noise and wins.
	candidates := []metadata.Candidate{
		scored(metadata.Candidate{Title: "極主夫道 1巻 バンチコミックス", ISBN13: "9784107720498"}),
		scored(metadata.Candidate{Title: "極主夫道 1巻", ISBN13: "9784107720498"}),
	}
	if candidates[0].Score != candidates[1].Score {
		t.Fatalf("test setup: scores differ (%d vs %d)", candidates[0].Score, candidates[1].Score)
	}
	best := score.PickBest(candidates, seriesKey)
	if best == nil || best.Title != "極主夫道 1巻" {
		t.Fatalf("expected shorter title to win, got %+v", best)
	}
}

func TestPickBestFirstSeenWinsOnFullTie(t *testing.T) {
	// Both titles are eight runes, mainline, and ISBN-bearing: a full tie.
	a := scored(metadata.Candidate{Title: "極主夫道 第1巻", ISBN13: "9784107720498", ASIN: "B07A0000AA"})
	b := scored(metadata.Candidate{Title: "極主夫道 (1)", ISBN13: "9784107720499", ASIN: "B07A0000BB"})
	best := score.PickBest([]metadata.Candidate{a, b}, seriesKey)
	if best == nil || best.ASIN != "B07A0000AA" {
		t.Fatalf("expected first-seen candidate to win, got %+v", best)
	}
}

func TestPickBestDeterministicAcrossRepeats(t *testing.T) {
	candidates := []metadata.Candidate{
		scored(metadata.Candidate{Title: "極主夫道 新装版 1巻", ISBN13: "9784107721204"}),
		scored(metadata.Candidate{Title: "極主夫道 1巻", ISBN13: "9784107720498"}),
		scored(metadata.Candidate{Title: "極主夫道 (1)", ISBN13: "9784107720499"}),
		scored(metadata.Candidate{Title: "極主夫道 公式ファンブック", ISBN13: "9784107721211"}),
	}
	first := score.PickBest(candidates, seriesKey)
	for i := 0; i < 10; i++ {
		again := score.PickBest(candidates, seriesKey)
		if again == nil || again.ISBN13 != first.ISBN13 {
			t.Fatalf("PickBest not deterministic: run %d returned %+v, first %+v", i, again, first)
		}
	}
}

func TestPickBestEmptyInput(t *testing.T) {
	if best := score.PickBest(nil, seriesKey); best != nil {
		t.Fatalf("expected nil for empty input, got %+v", best)
	}
}
