// Package metadata defines the data shapes shared across the reconciliation
// pipeline: lookup candidates, resolved volume records, and per-series
// outcomes. Vendor payloads are normalized into these shapes at the lookup
// boundary so vendor field names never reach the classifier or scorer.
package metadata
