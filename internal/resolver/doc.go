// Package resolver implements the per-series state machine that turns a
// seed (series key plus optional identifier hints) into exactly one of
// three terminal outcomes: confirmed, review, or todo. External lookups are
// sequential, rate-limited by a fixed inter-call delay, and retried with
// bounded exponential backoff on throttling; exhausted retries degrade to a
// todo reason rather than aborting the run.
package resolver
