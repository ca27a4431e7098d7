// Package lookupcache persists identifier-lookup results in SQLite so
// repeated runs do not re-spend vendor API quota on series that were
// already fetched. Entries expire after a configurable TTL; an unset path
// turns the cache into a no-op.
package lookupcache
