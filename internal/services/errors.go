// Package services defines the error taxonomy shared by lookup clients and
// the resolver. Lookup failures are classified by sentinel, consumed via
// explicit branching, and degrade to todo/review outcomes; only programming
// and filesystem errors abort a run.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a call that cannot run because required
	// credentials or settings are absent. Never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a lookup that completed but matched nothing.
	// Malformed vendor payloads are treated as not found.
	ErrNotFound = errors.New("not found")
	// ErrThrottled marks a transient rate-limit/server condition that the
	// caller retries with bounded backoff.
	ErrThrottled = errors.New("throttled")
	// ErrTransient marks other retryable transport failures.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes pipeline context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the error class is worth another attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrThrottled) || errors.Is(err, ErrTransient)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
