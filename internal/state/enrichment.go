package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"hondana/internal/metadata"
)

const enrichmentFile = "enrichment.json"

// EnrichmentDocument is the on-disk shape of the enrichment mapping.
type EnrichmentDocument struct {
	UpdatedAt time.Time             `json:"updatedAt"`
	Total     int                   `json:"total"`
	Items     []metadata.Enrichment `json:"items"`
}

// LoadEnrichment reads the enrichment mapping from the state directory.
// A missing file yields an empty mapping.
func LoadEnrichment(dir string) (map[string]metadata.Enrichment, error) {
	var doc EnrichmentDocument
	path := filepath.Join(dir, enrichmentFile)
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read enrichment file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse enrichment file %s: %w", path, err)
		}
	}
	mapping := make(map[string]metadata.Enrichment, len(doc.Items))
	for _, item := range doc.Items {
		if item.SeriesKey == "" {
			continue
		}
		mapping[item.SeriesKey] = item
	}
	return mapping, nil
}

// SaveEnrichment writes the enrichment mapping atomically.
func SaveEnrichment(dir string, mapping map[string]metadata.Enrichment) error {
	items := make([]metadata.Enrichment, 0, len(mapping))
	for _, item := range mapping {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SeriesKey < items[j].SeriesKey
	})
	doc := EnrichmentDocument{
		UpdatedAt: time.Now().UTC(),
		Total:     len(items),
		Items:     items,
	}
	return writeJSON(filepath.Join(dir, enrichmentFile), doc)
}
