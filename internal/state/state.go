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

const (
	confirmedFile = "confirmed.json"
	reviewFile    = "review.json"
	todoFile      = "todo.json"
	debugFile     = "debug.json"
)

// Document is the on-disk shape of one outcome mapping.
type Document struct {
	UpdatedAt time.Time                `json:"updatedAt"`
	Total     int                      `json:"total"`
	Items     []metadata.SeriesOutcome `json:"items"`
}

// State holds the three accumulated outcome mappings, keyed by series key.
// A key appears in at most one mapping at any time.
type State struct {
	Confirmed map[string]metadata.SeriesOutcome
	Review    map[string]metadata.SeriesOutcome
	Todo      map[string]metadata.SeriesOutcome
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Confirmed: make(map[string]metadata.SeriesOutcome),
		Review:    make(map[string]metadata.SeriesOutcome),
		Todo:      make(map[string]metadata.SeriesOutcome),
	}
}

// Known reports whether the series key is present in any mapping. Known
// keys are terminal with respect to automatic reprocessing.
func (s *State) Known(seriesKey string) bool {
	if _, ok := s.Confirmed[seriesKey]; ok {
		return true
	}
	if _, ok := s.Review[seriesKey]; ok {
		return true
	}
	_, ok := s.Todo[seriesKey]
	return ok
}

// Load reads the three mapping documents from the state directory. Missing
// files yield empty mappings (a fresh state).
func Load(dir string) (*State, error) {
	s := NewState()
	for _, target := range []struct {
		file    string
		mapping map[string]metadata.SeriesOutcome
	}{
		{confirmedFile, s.Confirmed},
		{reviewFile, s.Review},
		{todoFile, s.Todo},
	} {
		doc, err := readDocument(filepath.Join(dir, target.file))
		if err != nil {
			return nil, err
		}
		for _, item := range doc.Items {
			if item.SeriesKey == "" {
				continue
			}
			target.mapping[item.SeriesKey] = item
		}
	}
	return s, nil
}

// Save writes the three mapping documents atomically. Items are sorted by
// series key for deterministic files; locale-aware ordering belongs to the
// catalog export, not the internal state.
func (s *State) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	now := time.Now().UTC()
	for _, target := range []struct {
		file    string
		mapping map[string]metadata.SeriesOutcome
	}{
		{confirmedFile, s.Confirmed},
		{reviewFile, s.Review},
		{todoFile, s.Todo},
	} {
		doc := Document{
			UpdatedAt: now,
			Total:     len(target.mapping),
			Items:     sortedItems(target.mapping),
		}
		if err := writeJSON(filepath.Join(dir, target.file), doc); err != nil {
			return err
		}
	}
	return nil
}

func sortedItems(mapping map[string]metadata.SeriesOutcome) []metadata.SeriesOutcome {
	items := make([]metadata.SeriesOutcome, 0, len(mapping))
	for _, item := range mapping {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SeriesKey < items[j].SeriesKey
	})
	return items
}

func readDocument(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read state file %s: %w", path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse state file %s: %w", path, err)
	}
	return doc, nil
}

// writeJSON persists a document atomically via temp file and rename.
func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
