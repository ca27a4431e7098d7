package state

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"hondana/internal/metadata"
)

// LoadSeeds reads the seed backlog from a JSON file: an array of
// {seriesKey, author, vol1Hint} entries. Input order is preserved; entries
// without a series key are dropped; a duplicate key keeps its first entry.
func LoadSeeds(path string) ([]metadata.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seeds file: %w", err)
	}

	var raw []metadata.Seed
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seeds file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(raw))
	seeds := make([]metadata.Seed, 0, len(raw))
	for _, seed := range raw {
		seed.SeriesKey = strings.TrimSpace(seed.SeriesKey)
		if seed.SeriesKey == "" {
			continue
		}
		if _, dup := seen[seed.SeriesKey]; dup {
			continue
		}
		seen[seed.SeriesKey] = struct{}{}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
