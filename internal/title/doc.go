// Package title provides pure string normalization for Japanese book titles:
// width folding, whitespace cleanup, volume-marker detection, and
// series-name containment. Every function is total and deterministic;
// absence is reported as false/-1, never as an error.
package title
