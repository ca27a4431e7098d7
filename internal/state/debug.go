package state

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hondana/internal/resolver"
)

// DebugDocument logs the full per-series resolution traces of one run for
// auditability. It is overwritten each run; the accumulated mappings remain
// the source of truth.
type DebugDocument struct {
	UpdatedAt time.Time        `json:"updatedAt"`
	RunID     string           `json:"runId"`
	Traces    []resolver.Trace `json:"traces"`
}

// NewRunID mints the identifier stamped on a run's debug document and logs.
func NewRunID() string {
	return uuid.NewString()
}

// SaveDebug writes the debug trace document for a run.
func SaveDebug(dir, runID string, traces []resolver.Trace) error {
	doc := DebugDocument{
		UpdatedAt: time.Now().UTC(),
		RunID:     runID,
		Traces:    traces,
	}
	return writeJSON(filepath.Join(dir, debugFile), doc)
}
